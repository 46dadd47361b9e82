package detectors

import (
	"sort"
	"strings"

	"github.com/iocdefang/iocdefang/internal/types"
)

// Detector returns every raw match of one IOC family in text.
type Detector func(text string) []types.Match

type family struct {
	id   string
	kind types.Kind
	find Detector
}

// all is the processing order. Domain must stay last: its candidates are
// checked against everything accepted before it.
var all = []family{
	{"ipv4", types.KindIPv4, IPv4Addresses},
	{"ipv6", types.KindIPv6, IPv6Addresses},
	{"url", types.KindURL, URLs},
	{"email", types.KindEmail, Emails},
	{"domain", types.KindDomain, Domains},
}

// IDs returns the detector IDs in processing order.
func IDs() []string {
	ids := make([]string, 0, len(all))
	for _, f := range all {
		ids = append(ids, f.id)
	}
	return ids
}

// KindOf maps a detector ID to the kind it reports.
func KindOf(id string) (types.Kind, bool) {
	for _, f := range all {
		if f.id == id {
			return f.kind, true
		}
	}
	return "", false
}

// RunFunction runs a single detector family without any conflict filtering.
// It returns nil for an unknown id.
func RunFunction(id, text string) []types.Match {
	for _, f := range all {
		if f.id == id {
			out := f.find(text)
			if out == nil {
				out = []types.Match{}
			}
			return out
		}
	}
	return nil
}

// Detect finds all IOCs in text. IPv4, IPv6, URL and email matches are kept
// as found, even when they overlap each other; domain candidates are dropped
// when they look like part of a URL or email address or overlap anything
// accepted before them. The result is sorted by start offset.
func Detect(text string) []types.Match {
	return DetectWith(text, nil)
}

// DetectWith is Detect restricted to the given detector IDs. A nil set runs
// every detector. Processing order is fixed regardless of the set's order.
func DetectWith(text string, ids []string) []types.Match {
	if text == "" {
		return nil
	}
	var enabled map[string]bool
	if ids != nil {
		enabled = make(map[string]bool, len(ids))
		for _, id := range ids {
			enabled[id] = true
		}
	}

	var out []types.Match
	for _, f := range all {
		if enabled != nil && !enabled[f.id] {
			continue
		}
		found := f.find(text)
		if f.kind != types.KindDomain {
			out = append(out, found...)
			continue
		}
		for _, cand := range found {
			if standaloneDomain(text, cand, out) {
				out = append(out, cand)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Select resolves comma-separated enable and disable lists into detector IDs.
// An empty enable list means every detector. Unknown IDs are ignored.
func Select(enable, disable string) []string {
	allowed := parseList(enable)
	blocked := parseList(disable)
	var out []string
	for _, f := range all {
		if len(allowed) > 0 && !allowed[f.id] {
			continue
		}
		if blocked[f.id] {
			continue
		}
		out = append(out, f.id)
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func parseList(s string) map[string]bool {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	m := map[string]bool{}
	for _, id := range strings.Split(s, ",") {
		id = strings.ToLower(strings.TrimSpace(id))
		if id != "" {
			m[id] = true
		}
	}
	return m
}
