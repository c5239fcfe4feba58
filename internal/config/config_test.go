package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	require.Equal(t, "en", cfg.Languages.Default)
	require.Equal(t, []string{"en", "ja"}, cfg.Languages.Available)
	require.Equal(t, "github", cfg.Store.Backend)
	require.Equal(t, "b-editor", cfg.Store.Owner)
	require.Equal(t, "beutl-docs", cfg.Store.Repo)
	require.Equal(t, "main", cfg.Store.Ref)
	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "Beutl", cfg.APIReference.RootNamespace)
	require.Equal(t, LogLevelInfo, cfg.Logging.Level)
	require.Equal(t, LogFormatText, cfg.Logging.Format)
}

func TestLoad_ExplicitValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
languages:
  default: ja
  available: [ja, en]
store:
  backend: git
  url: https://example.com/docs.git
  branch: develop
  repo: docs
server:
  addr: ":9000"
  metrics_addr: ":9100"
cache:
  path: ./cache.db
  ttl: 5m
sync:
  interval: 10m
logging:
  level: debug
  format: json
`))
	require.NoError(t, err)

	require.Equal(t, "ja", cfg.Languages.Default)
	require.Equal(t, "git", cfg.Store.Backend)
	require.Equal(t, "develop", cfg.Store.Branch)
	require.Equal(t, ":9000", cfg.Server.Addr)
	require.Equal(t, 5*time.Minute, cfg.Cache.TTLDuration())
	require.Equal(t, 10*time.Minute, cfg.Sync.IntervalDuration())
	require.Equal(t, LogLevelDebug, cfg.Logging.Level)
	require.Equal(t, LogFormatJSON, cfg.Logging.Format)
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("DOCSITE_TEST_TOKEN", "secret-token")
	cfg, err := Load(writeConfig(t, "store:\n  token: ${DOCSITE_TEST_TOKEN}\n"))
	require.NoError(t, err)
	require.Equal(t, "secret-token", cfg.Store.Token)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate_MalformedDurationRejected(t *testing.T) {
	_, err := Load(writeConfig(t, "cache:\n  ttl: five minutes\n"))
	require.ErrorContains(t, err, "invalid ttl")

	_, err = Load(writeConfig(t, "sync:\n  interval: soonish\n"))
	require.ErrorContains(t, err, "invalid interval")
}

func TestValidate_GitBackendRequiresURL(t *testing.T) {
	_, err := Load(writeConfig(t, "store:\n  backend: git\n"))
	require.ErrorContains(t, err, "git backend requires url")
}

func TestValidate_DirBackendRequiresDir(t *testing.T) {
	_, err := Load(writeConfig(t, "store:\n  backend: dir\n"))
	require.ErrorContains(t, err, "dir backend requires dir")
}

func TestValidate_UnknownBackend(t *testing.T) {
	_, err := Load(writeConfig(t, "store:\n  backend: ftp\n"))
	require.ErrorContains(t, err, "unknown backend")
}

func TestValidate_DefaultLanguageMustBeAvailable(t *testing.T) {
	_, err := Load(writeConfig(t, "languages:\n  default: fr\n  available: [en, ja]\n"))
	require.ErrorContains(t, err, "not in available languages")
}

func TestStoreConfig_BaseURLs(t *testing.T) {
	s := StoreConfig{Owner: "b-editor", Repo: "beutl-docs", Ref: "main"}
	require.Equal(t, "https://raw.githubusercontent.com/b-editor/beutl-docs/main/", s.RawBaseURL())
	require.Equal(t, "https://github.com/b-editor/beutl-docs/blob/main/", s.EditBaseURL())
}

func TestNormalizeLogLevel(t *testing.T) {
	require.Equal(t, LogLevelDebug, NormalizeLogLevel(" DEBUG "))
	require.Equal(t, LogLevelInfo, NormalizeLogLevel("nonsense"))
	require.Equal(t, LogLevelInfo, NormalizeLogLevel(""))
}
