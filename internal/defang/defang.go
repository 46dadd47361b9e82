// Package defang rewrites IOCs into a form that mail clients and browsers will
// not turn into live links, and reverses that rewrite.
package defang

import (
	"strings"

	"github.com/iocdefang/iocdefang/internal/types"
)

const (
	dot         = "."
	dotDefanged = "[.]"
	at          = "@"
	atDefanged  = "[@]"
)

// Defang returns the defanged form of s for the given kind. Unknown kinds are
// returned unchanged.
func Defang(kind types.Kind, s string) string {
	switch kind {
	case types.KindIPv4:
		return IPv4(s)
	case types.KindIPv6:
		return IPv6(s)
	case types.KindURL:
		return URL(s)
	case types.KindEmail:
		return Email(s)
	case types.KindDomain:
		return Domain(s)
	default:
		return s
	}
}

// IPv4 replaces every dot with "[.]": 1.2.3.4 -> 1[.]2[.]3[.]4.
func IPv4(s string) string {
	return strings.ReplaceAll(s, dot, dotDefanged)
}

// IPv6 wraps the whole address in brackets: ::1 -> [::1].
func IPv6(s string) string {
	return "[" + s + "]"
}

// URL rewrites the scheme to hxxp/hxxps, then every dot and every at sign.
// The scheme goes first so its replacement is never touched again.
func URL(s string) string {
	switch {
	case strings.HasPrefix(s, "https://"):
		s = "hxxps://" + s[len("https://"):]
	case strings.HasPrefix(s, "http://"):
		s = "hxxp://" + s[len("http://"):]
	}
	s = strings.ReplaceAll(s, dot, dotDefanged)
	return strings.ReplaceAll(s, at, atDefanged)
}

// Email replaces the at sign, then every dot.
func Email(s string) string {
	s = strings.ReplaceAll(s, at, atDefanged)
	return strings.ReplaceAll(s, dot, dotDefanged)
}

// Domain replaces every dot with "[.]".
func Domain(s string) string {
	return strings.ReplaceAll(s, dot, dotDefanged)
}

// Refang reverses Defang for the given kind.
func Refang(kind types.Kind, s string) string {
	switch kind {
	case types.KindIPv6:
		if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
			return s[1 : len(s)-1]
		}
		return s
	case types.KindURL:
		switch {
		case strings.HasPrefix(s, "hxxps://"):
			s = "https://" + s[len("hxxps://"):]
		case strings.HasPrefix(s, "hxxp://"):
			s = "http://" + s[len("hxxp://"):]
		}
		return refangMarkers(s)
	case types.KindIPv4, types.KindEmail, types.KindDomain:
		return refangMarkers(s)
	default:
		return s
	}
}

var markerReplacer = strings.NewReplacer(dotDefanged, dot, atDefanged, at)

func refangMarkers(s string) string {
	return markerReplacer.Replace(s)
}
