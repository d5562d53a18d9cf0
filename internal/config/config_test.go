package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semmy-space/credstore/internal/secrets"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.ServiceName)
	assert.Empty(t, cfg.Backend)
	assert.Equal(t, path, cfg.Path())
}

func TestLoadJSON5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	content := `{
  // app identity
  service_name: "com.example.app",
  backend: "file",
  keychain_trust_application: true,
  file_dir: '/tmp/creds',
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "com.example.app", cfg.ServiceName)
	assert.Equal(t, "file", cfg.Backend)
	assert.True(t, cfg.KeychainTrustApplication)
	assert.Equal(t, "/tmp/creds", cfg.FileDir)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{backend: "floppy"}`), 0600))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{service_name: `), 0600))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestSetGetUnsetPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json5")
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	require.NoError(t, cfg.Set("service_name", "com.example.app"))
	require.NoError(t, cfg.Set("backend", "memory"))
	require.NoError(t, cfg.Set("keychain_trust_application", "true"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reloaded, err := LoadFrom(path)
	require.NoError(t, err)
	v, err := reloaded.Get("service_name")
	require.NoError(t, err)
	assert.Equal(t, "com.example.app", v)
	v, err = reloaded.Get("keychain_trust_application")
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	require.NoError(t, reloaded.Unset("backend"))
	again, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Empty(t, again.Backend)
}

func TestSetValidation(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json5"))
	require.NoError(t, err)

	assert.Error(t, cfg.Set("region", "us"))
	assert.Error(t, cfg.Set("backend", "floppy"))
	assert.Error(t, cfg.Set("keychain_trust_application", "maybe"))

	for _, key := range []string{"nope", "", "path", "-"} {
		t.Run("unknown key "+key, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := cfg.Get(key)
				assert.Error(t, err)
				assert.Error(t, cfg.Set(key, "x"))
				assert.Error(t, cfg.Unset(key))
			})
		})
	}
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{
		"backend",
		"default_output",
		"file_dir",
		"keychain_trust_application",
		"kwallet_folder",
		"libsecret_collection",
		"pass_dir",
		"service_name",
	}, Keys())
}

func TestBackendOptions(t *testing.T) {
	t.Setenv(FilePasswordEnv, "hunter2")
	cfg := &Config{Backend: "file", FileDir: "/tmp/x", PassDir: "/tmp/pass"}

	opts, err := cfg.BackendOptions()
	require.NoError(t, err)
	assert.Equal(t, secrets.TypeFile, opts.Type)
	assert.Equal(t, "/tmp/x", opts.FileDir)
	assert.Equal(t, "/tmp/pass", opts.PassDir)
	require.NotNil(t, opts.FilePassword)
	pw, err := opts.FilePassword("prompt")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pw)

	opts, err = (&Config{}).BackendOptions()
	require.NoError(t, err)
	assert.Equal(t, secrets.TypeAuto, opts.Type)

	_, err = (&Config{Backend: "floppy"}).BackendOptions()
	assert.Error(t, err)
}
