package detectors

import (
	"regexp"
	"strings"

	"github.com/iocdefang/iocdefang/internal/types"
)

const (
	h16      = `[0-9a-fA-F]{1,4}`
	ipv4Tail = `(?:(?:25[0-5]|(?:2[0-4]|1{0,1}[0-9]){0,1}[0-9])\.){3,3}(?:25[0-5]|(?:2[0-4]|1{0,1}[0-9]){0,1}[0-9])`
)

// reIPv6 covers the full form, every "::" compression, link-local addresses
// with a zone id and IPv4-mapped/embedded forms. Alternation is resolved
// leftmost-longest so "fe80::1%eth0" is not cut short at "fe80::".
var reIPv6 = longest(regexp.MustCompile(strings.Join([]string{
	`\b(?:` + h16 + `:){7}` + h16 + `\b`,
	`\b(?:` + h16 + `:){1,7}:\b`,
	`\b(?:` + h16 + `:){1,6}:` + h16 + `\b`,
	`\b(?:` + h16 + `:){1,5}(?::` + h16 + `){1,2}\b`,
	`\b(?:` + h16 + `:){1,4}(?::` + h16 + `){1,3}\b`,
	`\b(?:` + h16 + `:){1,3}(?::` + h16 + `){1,4}\b`,
	`\b(?:` + h16 + `:){1,2}(?::` + h16 + `){1,5}\b`,
	`\b` + h16 + `:(?:(?::` + h16 + `){1,6})\b`,
	`\b:(?:(?::` + h16 + `){1,7}|:)\b`,
	`\bfe80:(?::[0-9a-fA-F]{0,4}){0,4}%[0-9a-zA-Z]{1,}\b`,
	`\b::(?:ffff(?::0{1,4}){0,1}:){0,1}` + ipv4Tail + `\b`,
	`\b(?:` + h16 + `:){1,4}:` + ipv4Tail + `\b`,
}, "|")))

// IPv6Addresses finds colon-hex IPv6 addresses.
func IPv6Addresses(text string) []types.Match {
	return findAll(reIPv6, types.KindIPv6, text)
}

func longest(re *regexp.Regexp) *regexp.Regexp {
	re.Longest()
	return re
}
