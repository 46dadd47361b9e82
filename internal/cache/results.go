package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/iocdefang/iocdefang/internal/types"
)

// ErrNoResults is returned by LoadResults when root has never been scanned
// with the cache enabled.
var ErrNoResults = errors.New("no saved scan results")

// LastScan is the outcome of the most recent scan of a root, kept so it can be
// rendered again without rescanning.
type LastScan struct {
	Root         string             `json:"root"`
	ScannedAt    time.Time          `json:"scanned_at"`
	Detectors    string             `json:"detectors"`
	FilesScanned int                `json:"files_scanned"`
	FilesCached  int                `json:"files_cached"`
	Duration     time.Duration      `json:"duration_ns"`
	KindCounts   map[types.Kind]int `json:"kind_counts"`
	Findings     []types.Finding    `json:"findings"`
}

func resultsPath(root string) string { return statePath(root, "iocdefang_last_scan.json") }

// SaveResults records last as the latest scan of its root. Findings and
// KindCounts are recomputed so they always agree.
func SaveResults(last LastScan) error {
	if last.Findings == nil {
		last.Findings = []types.Finding{}
	}
	last.KindCounts = map[types.Kind]int{}
	for _, f := range last.Findings {
		last.KindCounts[f.Kind]++
	}
	if last.ScannedAt.IsZero() {
		last.ScannedAt = time.Now().UTC()
	}
	b, err := json.MarshalIndent(last, "", "  ")
	if err != nil {
		return fmt.Errorf("encode last scan: %w", err)
	}
	return os.WriteFile(resultsPath(last.Root), b, 0o644)
}

// LoadResults returns the latest scan saved for root, or ErrNoResults.
func LoadResults(root string) (LastScan, error) {
	var last LastScan
	b, err := os.ReadFile(resultsPath(root))
	if errors.Is(err, os.ErrNotExist) {
		return last, ErrNoResults
	}
	if err != nil {
		return last, fmt.Errorf("read last scan: %w", err)
	}
	if err := json.Unmarshal(b, &last); err != nil {
		return last, fmt.Errorf("decode last scan: %w", err)
	}
	return last, nil
}
