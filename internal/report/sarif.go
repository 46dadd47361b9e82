package report

import (
	"encoding/json"
	"io"

	"github.com/iocdefang/iocdefang/internal/types"
)

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool      `json:"tool"`
	Results    []sarifResult  `json:"results"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	RuleIndex int          `json:"ruleIndex"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int           `json:"startLine"`
	StartColumn int           `json:"startColumn,omitempty"`
	EndColumn   int           `json:"endColumn,omitempty"`
	Snippet     *sarifSnippet `json:"snippet,omitempty"`
}

type sarifSnippet struct {
	Text string `json:"text"`
}

// ToolVersion is reported as the SARIF driver version.
var ToolVersion = "dev"

// WriteSARIF writes findings as SARIF 2.1.0 to the provided writer.
func WriteSARIF(w io.Writer, findings []types.Finding) error {
	return WriteSARIFWithStats(w, findings, nil)
}

// WriteSARIFWithStats is WriteSARIF with extra run-level properties. There is
// one rule per IOC kind. Snippets carry the defanged form only.
func WriteSARIFWithStats(w io.Writer, findings []types.Finding, stats map[string]int) error {
	kinds := types.Kinds()
	index := map[types.Kind]int{}
	rules := make([]sarifRule, 0, len(kinds))
	for i, k := range kinds {
		index[k] = i
		rules = append(rules, sarifRule{
			ID:               string(k),
			Name:             k.Label(),
			ShortDescription: sarifMessage{Text: k.Label() + " indicator"},
		})
	}
	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: "iocdefang", Version: ToolVersion, Rules: rules}},
		Results: []sarifResult{},
	}
	for _, f := range findings {
		region := sarifRegion{StartLine: f.Line, Snippet: &sarifSnippet{Text: f.Defanged}}
		if f.Column > 0 {
			region.StartColumn = f.Column
			region.EndColumn = f.Column + (f.End - f.Start)
		}
		run.Results = append(run.Results, sarifResult{
			RuleID:    string(f.Kind),
			RuleIndex: index[f.Kind],
			Level:     "note",
			Message:   sarifMessage{Text: f.Kind.Label() + " " + f.Defanged},
			Locations: []sarifLoc{{
				PhysicalLocation: sarifPhys{
					ArtifactLocation: sarifArt{URI: f.Path},
					Region:           region,
				},
			}},
		})
	}
	if len(stats) > 0 {
		run.Properties = map[string]any{"scanStats": stats}
	}
	doc := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
