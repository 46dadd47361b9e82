// Package rewrite splices defanged IOCs back into text and files.
package rewrite

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/iocdefang/iocdefang/internal/detectors"
	"github.com/iocdefang/iocdefang/internal/types"
)

// Text replaces each match with its defanged form. Matches are applied in
// start order; a match overlapping one already applied is skipped, so no part
// of the text is transformed twice. An IPv6 address already wrapped in
// brackets is left as is and counts as applied, so nothing inside it is
// rewritten either. Matches must refer to offsets in text.
func Text(text string, matches []types.Match) string {
	if len(matches) == 0 {
		return text
	}
	ms := make([]types.Match, len(matches))
	copy(ms, matches)
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].Start < ms[j].Start })

	var b strings.Builder
	b.Grow(len(text) + len(text)/4)
	pos := 0
	for _, m := range ms {
		if m.Start < pos || m.End > len(text) || m.Start >= m.End {
			continue
		}
		if m.Kind == types.KindIPv6 && bracketed(text, m) {
			b.WriteString(text[pos:m.End])
			pos = m.End
			continue
		}
		b.WriteString(text[pos:m.Start])
		b.WriteString(m.Defanged)
		pos = m.End
	}
	b.WriteString(text[pos:])
	return b.String()
}

func bracketed(text string, m types.Match) bool {
	return m.Start > 0 && m.End < len(text) && text[m.Start-1] == '[' && text[m.End] == ']'
}

// Defang detects IOCs with the given detector IDs (nil for all) and returns
// the rewritten text together with the matches that were found.
func Defang(text string, ids []string) (string, []types.Match) {
	ms := detectors.DetectWith(text, ids)
	return Text(text, ms), ms
}

var refangReplacer = strings.NewReplacer(
	"hxxps://", "https://",
	"hxxp://", "http://",
	"[.]", ".",
	"[@]", "@",
)

// Refang reverses the markers produced by defanging in free text. IPv6
// brackets are left alone since they cannot be told apart from other
// bracketed text.
func Refang(text string) string {
	return refangReplacer.Replace(text)
}

// maxPasses bounds Settle. Each pass that changes the text defangs at least
// one more IOC, so real input settles in two or three passes.
const maxPasses = 16

// Settle defangs text repeatedly until a pass changes nothing. Defanged text
// is longer than the original, which moves the Domain context windows; a
// domain suppressed by a nearby "://" in one pass can be found in the next.
// Settle returns the matches of the first pass.
func Settle(text string, ids []string) (string, []types.Match) {
	out, first := Defang(text, ids)
	for i := 1; i < maxPasses; i++ {
		next, _ := Defang(out, ids)
		if next == out {
			break
		}
		out = next
	}
	return out, first
}

// WouldChange reports whether File would modify the file at path.
func WouldChange(path string, ids []string) (bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	out, _ := Settle(string(b), ids)
	return out != string(b), nil
}

// File defangs the file at path in place, keeping its permissions. It
// returns whether the content changed. The result is settled, so a second
// run is a no-op.
func File(path string, ids []string) (bool, error) {
	st, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	orig := string(b)
	out, ms := Settle(orig, ids)
	if len(ms) == 0 || out == orig {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(out), st.Mode().Perm()); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
