package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	l, err := New("debug", "console")
	require.NoError(t, err)
	assert.NotNil(t, l)

	l, err = New("", "json")
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = New("loud", "json")
	assert.Error(t, err)

	_, err = New("info", "xml")
	assert.Error(t, err)
}

func TestRecoverInto_NoPanic(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	panicked := false
	func() {
		defer RecoverInto("quiet", zap.New(core).Sugar(), &panicked)
	}()
	assert.False(t, panicked)
	assert.Zero(t, logs.Len())
}

func TestRecoverInto_LogsPanic(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	logger := zap.New(core).Sugar()

	panicked := false
	func() {
		defer RecoverInto("detect:a.txt", logger, &panicked)
		panic("boom")
	}()

	assert.True(t, panicked)
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "panic recovered", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "detect:a.txt", fields["task"])
	assert.Equal(t, "boom", fields["panic"])
	assert.Contains(t, fields["stack"], "goroutine")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Infow("ignored", "k", "v") })
}
