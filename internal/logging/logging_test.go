package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestSetup_WritesConsoleAndFile(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "renpy.log")

	closer := Setup(Options{Level: "debug", File: path, Console: &console})
	log.Debug().Str("file", "script.rpy").Msg("Scanned file")
	require.NoError(t, closer.Close())

	assert.Contains(t, console.String(), "Scanned file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"file":"script.rpy"`)
}

func TestSetup_RespectsLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var console bytes.Buffer
	closer := Setup(Options{Level: "error", Console: &console})
	defer closer.Close()

	log.Info().Msg("hidden")
	assert.Empty(t, console.String())
}
