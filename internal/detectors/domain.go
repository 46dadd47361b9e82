package detectors

import (
	"regexp"
	"strings"

	"github.com/iocdefang/iocdefang/internal/types"
)

var (
	reDomain = regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}\b`)
	// scheme still open: no path separator since "://"
	reOpenScheme = regexp.MustCompile(`https?://[^/]*$`)
)

// contextWindow is how many UTF-16 code units around a domain candidate are
// inspected to decide whether it belongs to a URL or an email address.
const contextWindow = 30

// Domains finds domain name candidates. The result is not filtered against
// URLs or email addresses; Detect does that.
func Domains(text string) []types.Match {
	return findAll(reDomain, types.KindDomain, text)
}

// embeddedInURL reports whether the text just before a domain looks like the
// inside of a URL.
func embeddedInURL(before string) bool {
	return reOpenScheme.MatchString(before) ||
		strings.Contains(before, "://") ||
		strings.Contains(before, "http")
}

// embeddedInEmail reports whether a domain looks like the host part of an
// email address. A following "@" means the domain is more likely the start of
// a separate address, so it is kept.
func embeddedInEmail(before, after string) bool {
	return strings.Contains(before, "@") && !strings.Contains(after, "@")
}

// standaloneDomain applies the context heuristics and the overlap check
// against already accepted matches.
func standaloneDomain(text string, cand types.Match, accepted []types.Match) bool {
	before := lookbehind(text, cand.Start, contextWindow)
	after := lookahead(text, cand.End, contextWindow)
	if embeddedInURL(before) || embeddedInEmail(before, after) {
		return false
	}
	for _, m := range accepted {
		if cand.Overlaps(m) {
			return false
		}
	}
	return true
}
