package models

// Hit is a stored item paired with its distance to the query.
type Hit struct {
	Rank     int  `json:"rank"`
	Distance int  `json:"distance"`
	Item     Item `json:"item"`
}

// SearchResponse is the response for a search request.
// Results holds the matched contents in rank order; Hits carries the same entries with distances.
type SearchResponse struct {
	Results   []string `json:"results"`
	Hits      []Hit    `json:"hits"`
	Total     int      `json:"total"` // number of stored items scanned
	K         int      `json:"k"`
	Metric    string   `json:"metric"`
	QueryTime int64    `json:"query_time_ms"`
	Query     string   `json:"query"`
}
