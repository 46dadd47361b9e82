package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/iocdefang/iocdefang/internal/types"
)

func TestBaseline_RoundTripFilters(t *testing.T) {
	p := filepath.Join(t.TempDir(), "baseline.json")
	fs := sampleFindings()
	if err := SaveBaseline(p, fs[:1]); err != nil {
		t.Fatal(err)
	}
	raw, _ := os.ReadFile(p)
	if bytes.Contains(raw, []byte("evil.example")) {
		t.Fatalf("baseline must not store live indicators: %s", raw)
	}
	base, err := LoadBaseline(p)
	if err != nil {
		t.Fatal(err)
	}
	moved := fs[0]
	moved.Line = 40
	got := FilterNewFindings([]types.Finding{moved, fs[1]}, base)
	if len(got) != 1 || got[0].Kind != types.KindIPv4 {
		t.Fatalf("expected only the ipv4 finding to be new, got %#v", got)
	}
}

func TestLoadBaseline_Missing(t *testing.T) {
	b, err := LoadBaseline(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing baseline")
	}
	if b.Items == nil {
		t.Fatal("expected usable empty baseline")
	}
}
