package detectors

import (
	"regexp"
	"unicode/utf8"

	"github.com/iocdefang/iocdefang/internal/defang"
	"github.com/iocdefang/iocdefang/internal/types"
)

// findAll returns every leftmost non-overlapping match of re in text.
func findAll(re *regexp.Regexp, kind types.Kind, text string) []types.Match {
	if text == "" {
		return nil
	}
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([]types.Match, 0, len(locs))
	for _, loc := range locs {
		s := text[loc[0]:loc[1]]
		out = append(out, types.Match{
			Kind:     kind,
			Original: s,
			Defanged: defang.Defang(kind, s),
			Start:    loc[0],
			End:      loc[1],
		})
	}
	return out
}

// units is the width of r in UTF-16 code units. Context windows are measured
// this way so text outside the Basic Multilingual Plane, such as emoji, takes
// two positions per character.
func units(r rune) int {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}

// lookbehind returns the text ending at byte offset pos that spans at most n
// UTF-16 code units. A character that would only partly fit is left out.
func lookbehind(text string, pos, n int) string {
	i := pos
	for w := 0; i > 0; {
		r, size := utf8.DecodeLastRuneInString(text[:i])
		if w += units(r); w > n {
			break
		}
		i -= size
	}
	return text[i:pos]
}

// lookahead returns the text starting at byte offset pos that spans at most n
// UTF-16 code units.
func lookahead(text string, pos, n int) string {
	i := pos
	for w := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if w += units(r); w > n {
			break
		}
		i += size
	}
	return text[pos:i]
}
