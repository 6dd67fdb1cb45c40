package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_File(t *testing.T) {
	t.Setenv("P4PORT", "")
	t.Setenv("P4USER", "")
	t.Setenv("P4CLIENT", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
port = "perforce:1666"
user = "alice"
ollama_model = "qwen2.5:14b"
timeout_minutes = 30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "perforce:1666", cfg.Port)
	assert.Equal(t, "alice", cfg.User)
	assert.Equal(t, "qwen2.5:14b", cfg.OllamaModel)
	assert.Equal(t, 30, cfg.TimeoutMinutes)
	assert.Empty(t, cfg.Workspace)
}

func TestLoad_EnvFallback(t *testing.T) {
	t.Setenv("P4PORT", "env:1666")
	t.Setenv("P4USER", "envuser")
	t.Setenv("P4CLIENT", "envws")

	cfg, err := Load("", false)
	require.NoError(t, err)
	assert.Equal(t, "env:1666", cfg.Port)
	assert.Equal(t, "envuser", cfg.User)
	assert.Equal(t, "envws", cfg.Workspace)
}

func TestLoad_FileOverridesEnv(t *testing.T) {
	t.Setenv("P4PORT", "env:1666")
	t.Setenv("P4USER", "envuser")
	t.Setenv("P4CLIENT", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`user = "fileuser"`), 0o644))

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, "fileuser", cfg.User, "file value wins over environment")
	assert.Equal(t, "env:1666", cfg.Port, "fields absent from the file keep env values")
}

func TestLoad_MissingDefaultIsFine(t *testing.T) {
	t.Setenv("P4PORT", "")
	t.Setenv("P4USER", "")
	t.Setenv("P4CLIENT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), false)
	require.NoError(t, err)
	assert.Empty(t, cfg.User)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"), true)
	require.Error(t, err)
}

func TestLoad_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = ["), 0o644))

	_, err := Load(path, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
