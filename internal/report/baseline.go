package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/iocdefang/iocdefang/internal/types"
)

// Baseline is a set of already triaged indicators. Findings present in the
// baseline are not reported again.
type Baseline struct {
	Items map[string]bool `json:"items"`
}

func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	f, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	if err := json.Unmarshal(f, &b); err != nil {
		return Baseline{Items: map[string]bool{}}, fmt.Errorf("decode baseline %s: %w", path, err)
	}
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

func SaveBaseline(path string, findings []types.Finding) error {
	b := Baseline{Items: map[string]bool{}}
	for _, f := range findings {
		b.Items[key(f)] = true
	}
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

func FilterNewFindings(findings []types.Finding, base Baseline) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if !base.Items[key(f)] {
			out = append(out, f)
		}
	}
	return out
}

// key uses the defanged form so the baseline file itself holds no live
// indicators. Line numbers are left out so edits elsewhere in a file do not
// resurface known findings.
func key(f types.Finding) string {
	return f.Path + "|" + string(f.Kind) + "|" + f.Defanged
}

// ShouldFail reports whether any finding has one of the comma-separated kinds
// in failOn. An empty failOn matches every kind.
func ShouldFail(findings []types.Finding, failOn string) bool {
	want := map[types.Kind]bool{}
	for _, k := range strings.Split(failOn, ",") {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			want[types.Kind(k)] = true
		}
	}
	for _, f := range findings {
		if len(want) == 0 || want[f.Kind] {
			return true
		}
	}
	return false
}
