package audit

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iocdefang/iocdefang/internal/types"
)

func finding(path string, kind types.Kind, orig, def string) types.Finding {
	return types.Finding{Path: path, Line: 1, Column: 1, Match: types.Match{Kind: kind, Original: orig, Defanged: def, End: len(orig)}}
}

func TestCreateScanRecord(t *testing.T) {
	all := []types.Finding{
		finding("a.txt", types.KindIPv4, "10.0.0.1", "10[.]0[.]0[.]1"),
		finding("b.txt", types.KindDomain, "evil.example", "evil[.]example"),
	}
	rec := CreateScanRecord("/r", all, all[1:], 3, 1, 2*time.Second, "iocdefang.baseline.json")
	assert.Equal(t, 2, rec.TotalFindings)
	assert.Equal(t, 1, rec.NewFindings)
	assert.Equal(t, 1, rec.BaselinedCount)
	assert.Equal(t, map[string]int{"ipv4": 1, "domain": 1}, rec.KindCounts)
	require.Len(t, rec.TopFindings, 1)
	assert.Equal(t, "evil[.]example", rec.TopFindings[0].Defanged)
	assert.Equal(t, "2s", rec.Duration)
}

func TestAuditLog_AppendLoadDelete(t *testing.T) {
	root := t.TempDir()
	log := NewAuditLog(root)

	_, err := log.LoadHistory()
	assert.Error(t, err)

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i := 0; i < 3; i++ {
		rec := CreateScanRecord(root, nil, nil, i, 0, time.Second, "")
		rec.Timestamp = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, log.LogScan(rec))
	}
	recs, err := log.LoadHistory()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, 2, recs[0].FilesScanned, "newest first")
	assert.NotEmpty(t, recs[0].ScanID)

	require.NoError(t, log.DeleteRecord(0))
	recs, err = log.LoadHistory()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 1, recs[0].FilesScanned)
	assert.Error(t, log.DeleteRecord(5))

	st, err := os.Stat(LogPath(root))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())
}

func TestAuditLog_NoLiveIndicators(t *testing.T) {
	root := t.TempDir()
	all := []types.Finding{finding("a.txt", types.KindURL, "http://evil.example/x", "hxxp://evil[.]example/x")}
	require.NoError(t, NewAuditLog(root).LogScan(CreateScanRecord(root, all, all, 1, 0, 0, "")))
	raw, err := os.ReadFile(LogPath(root))
	require.NoError(t, err)
	assert.False(t, bytes.Contains(raw, []byte("http://evil.example")))
}

func TestAuditLog_SkipsCorruptLines(t *testing.T) {
	root := t.TempDir()
	log := NewAuditLog(root)
	require.NoError(t, log.LogScan(CreateScanRecord(root, nil, nil, 1, 0, time.Second, "")))

	f, err := os.OpenFile(LogPath(root), os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("{\"timestamp\": broken\n\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, log.LogScan(CreateScanRecord(root, nil, nil, 2, 0, time.Second, "")))

	recs, err := log.LoadHistory()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 2, recs[0].FilesScanned)
	assert.Equal(t, 1, recs[1].FilesScanned)
}
