// Package cli provides output helpers for the chikai command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hyperjump/chikai/internal/models"
	"github.com/hyperjump/chikai/pkg/utils"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text with ranks and distances (default).
	OutputText SearchOutputFormat = "text"
	// OutputCompact prints one matched string per line, nearest first.
	OutputCompact SearchOutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
)

// maxContentWidth bounds how much of a long entry the text format prints.
const maxContentWidth = 200

// ParseOutputFormat returns the format named by s. Unknown names are an error.
func ParseOutputFormat(s string) (SearchOutputFormat, error) {
	switch f := SearchOutputFormat(s); f {
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	case "":
		return OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use text, compact or json)", s)
	}
}

// WriteSearchResults writes search results to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	case OutputCompact:
		for _, s := range response.Results {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
		}
		return nil
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results in %dms (scanned %d, k=%d, metric %s)\n\n",
		len(response.Results), response.QueryTime, response.Total, response.K, response.Metric)
	if len(response.Hits) == 0 {
		for i, s := range response.Results {
			fmt.Fprintf(w, "%4d. %s\n", i+1, utils.Truncate(s, maxContentWidth))
		}
		return
	}
	for _, hit := range response.Hits {
		fmt.Fprintf(w, "%4d. [%3d] %s\n", hit.Rank, hit.Distance, utils.Truncate(hit.Item.Content, maxContentWidth))
	}
}

// PrintSearchResults prints search results to stdout in text format.
func PrintSearchResults(response *models.SearchResponse) {
	_ = WriteSearchResults(os.Stdout, response, OutputText)
}
