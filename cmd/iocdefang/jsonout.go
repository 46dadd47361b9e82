package iocdefang

import (
	"encoding/json"
	"io"

	"github.com/iocdefang/iocdefang/internal/types"
)

type defangOutput struct {
	Text    string        `json:"text"`
	Matches []types.Match `json:"matches"`
}

func writeDefangJSON(w io.Writer, text string, ms []types.Match) error {
	if ms == nil {
		ms = []types.Match{}
	}
	return writeJSON(w, defangOutput{Text: text, Matches: ms})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
