package detectors

import (
	"regexp"

	"github.com/iocdefang/iocdefang/internal/types"
)

// Everything after the scheme up to the next whitespace is part of the URL.
// Whitespace follows the ECMAScript definition, which also counts \v, the
// Unicode space separators, line/paragraph separators and the BOM.
var reURL = regexp.MustCompile(`https?://[^\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)

// URLs finds http and https URLs.
func URLs(text string) []types.Match {
	return findAll(reURL, types.KindURL, text)
}
