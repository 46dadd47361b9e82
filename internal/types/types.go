package types

// Kind is the category of an indicator of compromise.
type Kind string

const (
	KindIPv4   Kind = "ipv4"
	KindIPv6   Kind = "ipv6"
	KindURL    Kind = "url"
	KindEmail  Kind = "email"
	KindDomain Kind = "domain"
)

// Kinds lists every kind in detection order.
func Kinds() []Kind {
	return []Kind{KindIPv4, KindIPv6, KindURL, KindEmail, KindDomain}
}

// Label is the display name of a kind.
func (k Kind) Label() string {
	switch k {
	case KindIPv4:
		return "IPv4"
	case KindIPv6:
		return "IPv6"
	case KindURL:
		return "URL"
	case KindEmail:
		return "Email"
	case KindDomain:
		return "Domain"
	default:
		return string(k)
	}
}

// Match is one IOC occurrence in a text. Start and End are half-open byte
// offsets into the scanned string, so text[Start:End] == Original.
type Match struct {
	Kind     Kind   `json:"kind"`
	Original string `json:"original"`
	Defanged string `json:"defanged"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// Overlaps reports whether m and o share at least one byte.
func (m Match) Overlaps(o Match) bool {
	return m.Start < o.End && o.Start < m.End
}

// Finding is a Match located in a file.
type Finding struct {
	Path   string `json:"path"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Match
}
