package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trerr "github.com/amterp/trellis/internal/errors"
	"github.com/amterp/trellis/internal/version"
	"github.com/amterp/trellis/testutil"
)

func TestFileStore_LoadMissingReturnsDefaults(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "config.toml"))

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.Service.BaseURL)
	assert.Equal(t, DefaultStalePolicy, cfg.Cache.StalePolicy)
	assert.Equal(t, DefaultSandboxPort, cfg.Sandbox.Port)
	assert.False(t, cfg.HasCredentials())

	d, err := cfg.FreshnessDuration()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	path, cleanup := testutil.TempConfigDir(t)
	defer cleanup()
	store := NewFileStore(path)

	cfg := Default()
	cfg.Service.Key = "k"
	cfg.Service.Token = "t"
	cfg.Cache.Freshness = "2m"
	cfg.Cache.StalePolicy = "serve-stale"
	require.NoError(t, store.Save(cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, version.CurrentConfigSchema(), loaded.TrellisSchema)
	assert.Equal(t, "k", loaded.Service.Key)
	assert.Equal(t, "serve-stale", loaded.Cache.StalePolicy)
	d, err := loaded.FreshnessDuration()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, d)
	assert.Equal(t, store.Path(), path)
}

func TestFileStore_SchemaValidation(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.toml")
	require.NoError(t, os.WriteFile(missing, []byte("[service]\nkey = \"k\"\n"), 0600))
	_, err := NewFileStore(missing).Load()
	var schemaErr *version.SchemaVersionError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "missing", schemaErr.Found)

	future := filepath.Join(dir, "future.toml")
	require.NoError(t, os.WriteFile(future, []byte("trellis_schema = \"config/99\"\n"), 0600))
	_, err = NewFileStore(future).Load()
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "a newer version", schemaErr.MinRequired)

	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("trellis_schema = \n"), 0600))
	_, err = NewFileStore(broken).Load()
	assert.Error(t, err)
}

func TestFreshnessDuration_Invalid(t *testing.T) {
	cfg := Default()
	cfg.Cache.Freshness = "soon"
	_, err := cfg.FreshnessDuration()
	assert.True(t, trerr.IsConfigurationError(err))

	cfg.Cache.Freshness = "-1s"
	_, err = cfg.FreshnessDuration()
	assert.True(t, trerr.IsConfigurationError(err))

	cfg.Cache.Freshness = "0"
	d, err := cfg.FreshnessDuration()
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestRequireCredentials(t *testing.T) {
	cfg := Default()
	err := cfg.RequireCredentials("/x/config.toml")
	assert.ErrorIs(t, err, trerr.ErrNotInitialized)
	assert.Contains(t, err.Error(), "/x/config.toml")

	cfg.Service.Key, cfg.Service.Token = "k", "t"
	assert.NoError(t, cfg.RequireCredentials("/x/config.toml"))
}

func TestApplyEnv(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.env")
	second := filepath.Join(dir, "second.env")
	require.NoError(t, os.WriteFile(first, []byte("TRELLIS_KEY=from-first\n"), 0600))
	require.NoError(t, os.WriteFile(second,
		[]byte("TRELLIS_KEY=from-second\nTRELLIS_TOKEN=tok\nTRELLIS_LOG_LEVEL=debug\n"), 0600))

	t.Setenv(EnvKey, "")
	t.Setenv(EnvToken, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvBaseURL, "http://127.0.0.1:4040/1")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(first, second, filepath.Join(dir, "absent.env")))
	assert.Equal(t, "from-first", cfg.Service.Key)
	assert.Equal(t, "tok", cfg.Service.Token)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "http://127.0.0.1:4040/1", cfg.Service.BaseURL)
}

func TestApplyEnv_ProcessEnvWins(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("TRELLIS_TOKEN=file\n"), 0600))
	t.Setenv(EnvToken, "process")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(file))
	assert.Equal(t, "process", cfg.Service.Token)
}

func TestConfigPath_EnvOverride(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "/tmp/custom.toml")
	assert.Equal(t, "/tmp/custom.toml", ConfigPath())

	paths := DotenvPaths("/tmp/custom.toml")
	assert.Equal(t, []string{DotenvFileName, "/tmp/.env"}, paths)
	assert.Equal(t, []string{DotenvFileName}, DotenvPaths(""))
}
