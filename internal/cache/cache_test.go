package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/iocdefang/iocdefang/internal/types"
)

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	// initial load should return empty DB and error
	db, err := Load(dir)
	if err == nil {
		t.Fatalf("expected error for missing cache")
	}
	if db.Entries == nil {
		t.Fatalf("expected entries map initialized")
	}
	f := types.Finding{Path: "a.txt", Line: 1, Column: 1, Match: types.Match{Kind: types.KindIPv4, Original: "1.2.3.4", Defanged: "1[.]2[.]3[.]4", End: 7}}
	db.Entries["a.txt"] = Entry{Hash: "deadbeef", Findings: []types.Finding{f}}
	if err := Save(dir, db); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".iocdefangcache.json")); err != nil {
		t.Fatalf("cache file not written: %v", err)
	}
	db2, err := Load(dir)
	if err != nil {
		t.Fatalf("load after save: %v", err)
	}
	got, ok := db2.Lookup("a.txt", "deadbeef")
	if !ok || len(got) != 1 || got[0] != f {
		t.Fatalf("unexpected lookup: %v %+v", ok, got)
	}
	if _, ok := db2.Lookup("a.txt", "cafebabe"); ok {
		t.Fatalf("stale hash must miss")
	}
}

func TestSaveUnderGitDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := Save(dir, DB{Entries: map[string]Entry{}}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".git", "iocdefangcache.json")); err != nil {
		t.Fatalf("expected cache under .git: %v", err)
	}
}

func TestSaveRejectsNilEntries(t *testing.T) {
	if err := Save(t.TempDir(), DB{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestHash(t *testing.T) {
	if Hash(nil) != "0000000000000000" {
		t.Fatalf("empty hash: %s", Hash(nil))
	}
	a, b := Hash([]byte("10.0.0.1")), Hash([]byte("10.0.0.2"))
	if len(a) != 16 || a == b {
		t.Fatalf("unexpected hashes %s %s", a, b)
	}
	if a != Hash([]byte("10.0.0.1")) {
		t.Fatal("hash must be stable")
	}
}

func TestResultsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fs := []types.Finding{{Path: "x.log", Line: 3, Column: 5, Match: types.Match{Kind: types.KindDomain, Original: "evil.io", Defanged: "evil[.]io", Start: 4, End: 11}}}
	if err := SaveResults(LastScan{Root: dir, Detectors: "domain", FilesScanned: 2, Findings: fs}); err != nil {
		t.Fatal(err)
	}
	last, err := LoadResults(dir)
	if err != nil {
		t.Fatal(err)
	}
	if last.Root != dir || last.FilesScanned != 2 || last.Detectors != "domain" || last.Findings[0] != fs[0] {
		t.Fatalf("unexpected results: %+v", last)
	}
	if last.KindCounts[types.KindDomain] != 1 || last.ScannedAt.IsZero() {
		t.Fatalf("counts/time not filled: %+v", last)
	}
}

func TestLoadResults_Missing(t *testing.T) {
	if _, err := LoadResults(t.TempDir()); !errors.Is(err, ErrNoResults) {
		t.Fatalf("want ErrNoResults, got %v", err)
	}
}

func TestLoadResults_Corrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".iocdefang_last_scan.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadResults(dir)
	if err == nil || errors.Is(err, ErrNoResults) {
		t.Fatalf("want decode error, got %v", err)
	}
}
