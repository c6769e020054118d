package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "HOST", "MONGO_URI", "MONGO_DATABASE", "MONGO_COLLECTION", "MONGO_TIMEOUT",
	"PARAM_STORE_ENABLED", "PARAM_STORE_PREFIX", "PARAM_STORE_REGION", "ENV_FILE",
	"TLS_ENABLED", "TLS_CERT_FILE", "TLS_KEY_FILE", "RATE_LIMIT_ENABLED", "REDIS_HOST",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

type fakeStore struct {
	vals  map[string]string
	err   error
	names []string
}

func (f *fakeStore) GetParameters(ctx context.Context, names []string) (map[string]string, error) {
	f.names = names
	if f.err != nil {
		return nil, f.err
	}
	return f.vals, nil
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URI", "mongodb://localhost:27017/boarddb")

	cfg, err := Load(context.Background(), Options{EnvFile: noEnvFile(t)})
	require.NoError(t, err)
	require.Equal(t, "mongodb://localhost:27017/boarddb", cfg.MongoDB.URI)
	require.Equal(t, "boarddb", cfg.MongoDB.Database)
	require.Equal(t, "messages", cfg.MongoDB.Collection)
	require.Equal(t, 10*time.Second, cfg.MongoDB.Timeout)
	require.Equal(t, "5000", cfg.Server.Port)
	require.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
	require.False(t, cfg.TLS.Enabled)
	require.False(t, cfg.RateLimit.Enabled)
}

func TestLoad_MissingMongoURIFailsFast(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "5000")

	cfg, err := Load(context.Background(), Options{EnvFile: noEnvFile(t)})
	require.ErrorIs(t, err, ErrMissingMongoURI)
	require.Nil(t, cfg)
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	for _, p := range []string{"abc", "0", "70000"} {
		t.Setenv("PORT", p)
		_, err := Load(context.Background(), Options{EnvFile: noEnvFile(t)})
		require.ErrorIs(t, err, ErrInvalidPort, "port %q", p)
	}
}

func TestLoad_EnvFileBelowProcessEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "MONGO_URI=mongodb://file-host:27017/filedb\nPORT=6000\nTLS_ENABLED=true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("PORT", "7000")

	cfg, err := Load(context.Background(), Options{EnvFile: path})
	require.NoError(t, err)
	require.Equal(t, "mongodb://file-host:27017/filedb", cfg.MongoDB.URI)
	require.Equal(t, "filedb", cfg.MongoDB.Database)
	require.Equal(t, "7000", cfg.Server.Port)
	require.True(t, cfg.TLS.Enabled)

	// the env file must not leak into the process environment
	require.Empty(t, os.Getenv("TLS_ENABLED"))
}

func TestLoad_ParameterStoreOverridesLocal(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URI", "mongodb://local:27017/localdb")
	t.Setenv("PORT", "5001")
	t.Setenv("PARAM_STORE_PREFIX", "/msgboard/prod/")
	store := &fakeStore{vals: map[string]string{
		"/msgboard/prod/MONGO_URI": "mongodb://remote:27017/remotedb",
		"/msgboard/prod/PORT":      "8443",
	}}

	cfg, err := Load(context.Background(), Options{EnvFile: noEnvFile(t), Store: store})
	require.NoError(t, err)
	require.Equal(t, []string{"/msgboard/prod/MONGO_URI", "/msgboard/prod/PORT"}, store.names)
	require.Equal(t, "mongodb://remote:27017/remotedb", cfg.MongoDB.URI)
	require.Equal(t, "remotedb", cfg.MongoDB.Database)
	require.Equal(t, "8443", cfg.Server.Port)
}

func TestLoad_ParameterStorePartialResult(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "5002")
	store := &fakeStore{vals: map[string]string{"MONGO_URI": "mongodb://remote:27017"}}

	cfg, err := Load(context.Background(), Options{EnvFile: noEnvFile(t), Store: store})
	require.NoError(t, err)
	require.Equal(t, "mongodb://remote:27017", cfg.MongoDB.URI)
	require.Equal(t, "test", cfg.MongoDB.Database)
	require.Equal(t, "5002", cfg.Server.Port)
}

func TestLoad_ParameterStoreFailureFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URI", "mongodb://local:27017")
	store := &fakeStore{err: errors.New("connection refused")}

	cfg, err := Load(context.Background(), Options{EnvFile: noEnvFile(t), Store: store})
	require.NoError(t, err)
	require.Equal(t, "mongodb://local:27017", cfg.MongoDB.URI)
	require.Equal(t, "5000", cfg.Server.Port)
}

func TestLoad_ParameterStoreEmptyFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URI", "mongodb://local:27017")
	store := &fakeStore{vals: map[string]string{}}

	cfg, err := Load(context.Background(), Options{EnvFile: noEnvFile(t), Store: store})
	require.NoError(t, err)
	require.Equal(t, "mongodb://local:27017", cfg.MongoDB.URI)
}

func TestLoad_ParameterStoreFailureStillRequiresURI(t *testing.T) {
	clearEnv(t)
	store := &fakeStore{err: errors.New("timeout")}

	_, err := Load(context.Background(), Options{EnvFile: noEnvFile(t), Store: store})
	require.ErrorIs(t, err, ErrMissingMongoURI)
}
