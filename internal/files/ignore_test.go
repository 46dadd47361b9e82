package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendIgnore_IdempotentAndCreates(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".gitignore")
	// Initially missing; call should create and write pattern with newline
	if err := AppendIgnore(dir, "dist/"); err != nil {
		t.Fatalf("AppendIgnore: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "dist/\n" {
		t.Fatalf("unexpected content: %q", string(b))
	}
	// Call again: idempotent, no duplicate lines
	if err := AppendIgnore(dir, "dist/", "dist/"); err != nil {
		t.Fatalf("AppendIgnore second: %v", err)
	}
	b2, _ := os.ReadFile(p)
	if strings.Count(string(b2), "dist/") != 1 {
		t.Fatalf("expected single occurrence, got: %q", string(b2))
	}
}

func TestAppendIgnore_MissingTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".gitignore")
	if err := os.WriteFile(p, []byte("bin/"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := AppendIgnore(dir, StateIgnores()...); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(p)
	want := "bin/\n.iocdefangcache.json\n.iocdefang_last_scan.json\n.iocdefang_audit.jsonl\n"
	if string(b) != want {
		t.Fatalf("got %q, want %q", string(b), want)
	}
}
