package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/iocdefang/iocdefang/internal/types"
)

func sampleFindings() []types.Finding {
	return []types.Finding{
		{Path: "b.txt", Line: 2, Column: 5, Match: types.Match{Kind: types.KindDomain, Original: "evil.example", Defanged: "evil[.]example", Start: 10, End: 22}},
		{Path: "a.txt", Line: 1, Column: 1, Match: types.Match{Kind: types.KindIPv4, Original: "10.0.0.1", Defanged: "10[.]0[.]0[.]1", Start: 0, End: 8}},
	}
}

func TestPrintText_NoFindings_ShowsFooter(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, nil, PrintOptions{Duration: 1200 * time.Millisecond, FilesScanned: 10, FilesCached: 4})
	out := buf.String()
	if !strings.Contains(out, "No indicators found") {
		t.Fatalf("expected friendly no-findings message; got: %q", out)
	}
	if !strings.Contains(out, "Files scanned: 10 (4 cached)") {
		t.Fatalf("expected footer with files scanned; got: %q", out)
	}
}

func TestPrintText_WithFindings(t *testing.T) {
	var buf bytes.Buffer
	PrintText(&buf, sampleFindings(), PrintOptions{NoColor: true, FilesScanned: 2})
	out := buf.String()
	if !strings.Contains(out, "Findings: 2") {
		t.Fatalf("expected findings header; got: %q", out)
	}
	if strings.Contains(out, "evil.example") || strings.Contains(out, "10.0.0.1") {
		t.Fatalf("raw indicator leaked into output: %q", out)
	}
	ia := strings.Index(out, "a.txt:1:1")
	ib := strings.Index(out, "b.txt:2:5")
	if ia < 0 || ib < 0 || ia > ib {
		t.Fatalf("expected sorted locations; got: %q", out)
	}
	if !strings.Contains(out, "ipv4: 1") || !strings.Contains(out, "domain: 1") {
		t.Fatalf("expected per-kind footer; got: %q", out)
	}
}

func TestPrintTable_WithFindings(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintTable(&buf, sampleFindings(), PrintOptions{NoColor: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(strings.ToUpper(out), "LOCATION") {
		t.Fatalf("expected table header; got: %q", out)
	}
	if !strings.Contains(out, "evil[.]example") || !strings.Contains(out, "Domain") {
		t.Fatalf("expected domain row; got: %q", out)
	}
}

func TestPrintTable_NoFindings_ShowsFooter(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintTable(&buf, nil, PrintOptions{Duration: time.Second, FilesScanned: 3}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "No indicators found") || !strings.Contains(out, "Files scanned: 3") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestShouldFail(t *testing.T) {
	fs := sampleFindings()
	cases := []struct {
		failOn string
		want   bool
	}{
		{"", true},
		{"domain", true},
		{"URL, IPv4", true},
		{"email,ipv6", false},
	}
	for _, c := range cases {
		if got := ShouldFail(fs, c.failOn); got != c.want {
			t.Errorf("ShouldFail(%q) = %v, want %v", c.failOn, got, c.want)
		}
	}
	if ShouldFail(nil, "") {
		t.Error("no findings must not fail")
	}
}
