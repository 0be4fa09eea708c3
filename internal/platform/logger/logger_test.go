package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"password", "hunter2",
		"SESSION_SECRET", "abc",
		"email", "me@example.com",
		"path", "/",
		"dangling",
	})

	require.Len(t, out, 9)
	assert.Equal(t, "[REDACTED]", out[1])
	assert.Equal(t, "[REDACTED]", out[3])
	assert.Equal(t, "[REDACTED]", out[5])
	assert.Equal(t, "/", out[7])
	assert.Equal(t, "dangling", out[8])
}

func TestSanitizeHashesIP(t *testing.T) {
	out := sanitizeKVs([]interface{}{"ip", "203.0.113.7"})

	hashed, ok := out[1].(string)
	require.True(t, ok)
	assert.Len(t, hashed, 16)
	assert.NotContains(t, hashed, "203")
	assert.Equal(t, hashed, sanitizeKVs([]interface{}{"client_ip", "203.0.113.7"})[1])
}

func TestWithCarriesSanitizedFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("service", "Test").Info("login", "token", "t0k3n")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "Test", fields["service"])
	assert.Equal(t, "[REDACTED]", fields["token"])
}
