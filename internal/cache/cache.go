// Package cache persists per-file scan results keyed by content hash so
// unchanged files are not scanned again.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	xxhash "github.com/cespare/xxhash/v2"

	"github.com/iocdefang/iocdefang/internal/types"
)

// Entry is the cached outcome for one file.
type Entry struct {
	Hash     string          `json:"hash"`
	Findings []types.Finding `json:"findings,omitempty"`
}

// DB maps a path relative to the scan root to its last scan entry.
type DB struct {
	// Detectors is the detector selection the entries were produced with;
	// entries are only reused for the same selection.
	Detectors string           `json:"detectors"`
	Entries   map[string]Entry `json:"entries"`
}

// statePath places a state file under .git when root is a repository and as
// a dot file in root otherwise, keeping it out of the working tree.
func statePath(root, name string) string {
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, name)
	}
	return filepath.Join(root, "."+name)
}

func defaultPath(root string) string { return statePath(root, "iocdefangcache.json") }

// Load reads the cache for root. A missing or corrupt cache yields an empty
// DB together with the error.
func Load(root string) (DB, error) {
	var db DB
	b, err := os.ReadFile(defaultPath(root))
	if err != nil {
		return DB{Entries: map[string]Entry{}}, err
	}
	if err := json.Unmarshal(b, &db); err != nil {
		return DB{Entries: map[string]Entry{}}, fmt.Errorf("decode cache: %w", err)
	}
	if db.Entries == nil {
		db.Entries = map[string]Entry{}
	}
	return db, nil
}

// Save writes db for root.
func Save(root string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	b, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(defaultPath(root), b, 0o644)
}

// Lookup returns the cached findings for path when its content hash is
// unchanged.
func (db DB) Lookup(path, hash string) ([]types.Finding, bool) {
	e, ok := db.Entries[path]
	if !ok || e.Hash != hash {
		return nil, false
	}
	return e.Findings, true
}

// Hash is the content fingerprint used for cache entries.
func Hash(b []byte) string {
	if len(b) == 0 {
		return "0000000000000000"
	}
	sum := xxhash.Sum64(b)
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}
