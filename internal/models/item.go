// Package models defines core data structures for stored items, queries, and search results.
package models

import "time"

// Source values for items that did not come from a file.
const (
	SourceAPI  = "api"
	SourceCLI  = "cli"
	SourceDemo = "demo"
)

// Item is one stored string. Items are immutable once created by the store.
type Item struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IngestRequest is the input for appending a batch of strings.
type IngestRequest struct {
	Strings []string `json:"strings"`
	Source  string   `json:"source,omitempty"`
}

// IngestResponse reports the outcome of an ingest call.
type IngestResponse struct {
	Ingested int `json:"ingested"`
	Total    int `json:"total"`
}
