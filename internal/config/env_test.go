package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_Defaults(t *testing.T) {
	t.Setenv("FRAMECTL_DB", "")
	t.Setenv("FRAMECTL_LOG_DIAG", "")
	t.Setenv("FRAMECTL_OUTPUT_DIR", "")

	e, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, Env{}, e)
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("FRAMECTL_DB", "/var/lib/frames.db")
	t.Setenv("FRAMECTL_LOG_DIAG", "true")
	t.Setenv("FRAMECTL_OUTPUT_DIR", "/tmp/out")

	e, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, Env{DB: "/var/lib/frames.db", LogDiag: true, OutputDir: "/tmp/out"}, e)
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("FRAMECTL_LOG_DIAG", "not-a-bool")

	_, err := LoadEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}
