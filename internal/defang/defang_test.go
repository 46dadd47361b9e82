package defang

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iocdefang/iocdefang/internal/types"
)

func TestDefang(t *testing.T) {
	tests := []struct {
		name string
		kind types.Kind
		in   string
		want string
	}{
		{"ipv4", types.KindIPv4, "192.168.1.1", "192[.]168[.]1[.]1"},
		{"ipv6", types.KindIPv6, "fe80::1%eth0", "[fe80::1%eth0]"},
		{"url http", types.KindURL, "http://bad-domain.com/path?x=1", "hxxp://bad-domain[.]com/path?x=1"},
		{"url https", types.KindURL, "https://user@host.example.org/a.php", "hxxps://user[@]host[.]example[.]org/a[.]php"},
		{"url scheme only at start", types.KindURL, "http://x.io/?next=http://y.io", "hxxp://x[.]io/?next=http://y[.]io"},
		{"email", types.KindEmail, "john.doe@corp.example.com", "john[.]doe[@]corp[.]example[.]com"},
		{"domain", types.KindDomain, "a.b.example.co", "a[.]b[.]example[.]co"},
		{"unknown kind", types.Kind("hash"), "d41d8cd9.8f00", "d41d8cd9.8f00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Defang(tt.kind, tt.in))
		})
	}
}

func TestRefang_RoundTrip(t *testing.T) {
	cases := map[types.Kind][]string{
		types.KindIPv4:   {"10.0.0.1", "255.255.255.255"},
		types.KindIPv6:   {"2001:db8::1", "fe80::1%eth0"},
		types.KindURL:    {"http://a.b/c", "https://u@h.io/p?q=[.]", "https://x.io/[@]"},
		types.KindEmail:  {"a.b+c@d.example.com"},
		types.KindDomain: {"evil.example.net"},
	}
	for kind, values := range cases {
		for _, v := range values {
			d := Defang(kind, v)
			assert.NotEqual(t, v, d)
			assert.Equal(t, v, Refang(kind, d), "kind=%s defanged=%s", kind, d)
		}
	}
}

func TestRefang_LeavesUnwrappedIPv6(t *testing.T) {
	assert.Equal(t, "::1", Refang(types.KindIPv6, "::1"))
	assert.Equal(t, "x", Refang(types.Kind("other"), "x"))
}
