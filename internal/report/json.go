package report

import (
	"encoding/json"
	"io"

	"github.com/iocdefang/iocdefang/internal/types"
)

// WriteJSON writes findings as an indented JSON array. A nil slice is written
// as [] so consumers never see null.
func WriteJSON(w io.Writer, findings []types.Finding) error {
	if findings == nil {
		findings = []types.Finding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(findings)
}

// WriteMatchesJSON is WriteJSON for matches that are not tied to a file.
func WriteMatchesJSON(w io.Writer, matches []types.Match) error {
	if matches == nil {
		matches = []types.Match{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(matches)
}
