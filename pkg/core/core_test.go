package core

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_Smoke(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ioc.txt"), []byte("ping 192.0.2.10\n"), 0o644))
	findings, err := Scan(context.Background(), Config{Root: dir, NoCache: true})
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, KindIPv4, findings[0].Kind)
	assert.NotEmpty(t, DetectorIDs())
}

func TestDefangRefang(t *testing.T) {
	in := "mail bob@corp.example, see https://evil.example/a.php and 2001:db8::1"
	out, ms := Defang(in)
	assert.Equal(t, "mail bob[@]corp[.]example, see hxxps://evil[.]example/a[.]php and [2001:db8::1]", out)
	assert.Len(t, ms, 3)
	// IPv6 brackets survive refanging
	assert.Equal(t, strings.Replace(in, "2001:db8::1", "[2001:db8::1]", 1), Refang(out))
	again, _ := Defang(out)
	assert.Equal(t, out, again)
}

func TestRewriteAndValue(t *testing.T) {
	ms := Detect("x 10.1.2.3 y")
	assert.Equal(t, "x 10[.]1[.]2[.]3 y", Rewrite("x 10.1.2.3 y", ms))
	assert.Equal(t, "[::1]", DefangValue(KindIPv6, "::1"))
	assert.Equal(t, []Kind{KindIPv4, KindIPv6, KindURL, KindEmail, KindDomain}, Kinds())
}

func TestMatchesJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	ms := Detect("evil.example")
	require.NoError(t, MarshalMatches(&buf, ms))
	assert.Contains(t, buf.String(), `"defanged": "evil[.]example"`)
	got, err := UnmarshalMatches(&buf)
	require.NoError(t, err)
	assert.Equal(t, ms, got)

	buf.Reset()
	require.NoError(t, MarshalFindings(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
