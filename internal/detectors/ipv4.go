package detectors

import (
	"regexp"

	"github.com/iocdefang/iocdefang/internal/types"
)

var reIPv4 = regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`)

// IPv4Addresses finds dotted-quad addresses with every octet in 0-255.
func IPv4Addresses(text string) []types.Match {
	return findAll(reIPv4, types.KindIPv4, text)
}
