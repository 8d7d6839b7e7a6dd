package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmptyPathDiscards(t *testing.T) {
	l, closeFn, err := New("", "debug", false)
	require.NoError(t, err)
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
	assert.NoError(t, closeFn())
}

func TestNew_WritesToFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "logs", "todo.log")
	l, closeFn, err := New(p, "warn", false)
	require.NoError(t, err)

	l.Info().Msg("dropped")
	l.Warn().Str("op", "list").Msg("kept")
	require.NoError(t, closeFn())

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"message":"kept"`)
	assert.Contains(t, string(b), `"op":"list"`)
	assert.NotContains(t, string(b), "dropped")
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New(filepath.Join(t.TempDir(), "x.log"), "loud", false)
	assert.Error(t, err)
}
