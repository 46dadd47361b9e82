package core

import (
	"context"

	"github.com/iocdefang/iocdefang/internal/defang"
	"github.com/iocdefang/iocdefang/internal/detectors"
	"github.com/iocdefang/iocdefang/internal/engine"
	"github.com/iocdefang/iocdefang/internal/rewrite"
	"github.com/iocdefang/iocdefang/internal/types"
)

// Re-export selected internal types as a stable public API surface.
type (
	Kind    = types.Kind
	Match   = types.Match
	Finding = types.Finding
	Config  = engine.Config
	Result  = engine.Result
)

const (
	KindIPv4   = types.KindIPv4
	KindIPv6   = types.KindIPv6
	KindURL    = types.KindURL
	KindEmail  = types.KindEmail
	KindDomain = types.KindDomain
)

// Detect returns every IOC in text ordered by start offset.
func Detect(text string) []Match { return detectors.Detect(text) }

// Defang rewrites every IOC in text to its defanged form and returns the
// rewritten text with the matches it was built from.
func Defang(text string) (string, []Match) { return rewrite.Defang(text, nil) }

// DefangValue defangs a single value of a known kind.
func DefangValue(kind Kind, s string) string { return defang.Defang(kind, s) }

// Refang reverses the defang markers in free text.
func Refang(text string) string { return rewrite.Refang(text) }

// Rewrite splices the defanged form of each match into text. Overlapping
// matches after the first are left untouched.
func Rewrite(text string, matches []Match) string { return rewrite.Text(text, matches) }

// Kinds lists the IOC kinds in detection order.
func Kinds() []Kind { return types.Kinds() }

// Scan is the stable entrypoint for scanning a directory tree.
func Scan(ctx context.Context, cfg Config) ([]Finding, error) {
	return engine.Scan(ctx, cfg)
}

// ScanWithStats is Scan with timing and counts.
func ScanWithStats(ctx context.Context, cfg Config) (Result, error) {
	return engine.ScanWithStats(ctx, cfg)
}

// DetectorIDs returns the list of detector IDs.
func DetectorIDs() []string { return engine.DetectorIDs() }
