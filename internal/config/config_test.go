package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, env, content string) string {
	t.Helper()
	path := filepath.Join(dir, fileName(env))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadFromPath_FullConfig(t *testing.T) {
	t.Setenv(DatabaseURLEnv, "")
	path := writeConfig(t, t.TempDir(), "prod", `
database:
  backend: postgres
  url: postgres://ops@db.internal/health
  requireSSL: true
matching:
  dayStartHour: 6
  dayEndHour: 18
  windowMode: contained
  revalidateOnAssign: false
compliance:
  defaultDaysAhead: 45
server:
  addr: ":9090"
  allowedOrigins: ["https://ops.example.com"]
logging:
  dir: /var/log/health-ops
seed:
  file: seed.yaml
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, BackendPostgres, cfg.Database.Backend)
	assert.Equal(t, "postgres://ops@db.internal/health", cfg.Database.URL)
	assert.True(t, cfg.Database.RequireSSL)
	assert.Equal(t, 6, *cfg.Matching.DayStartHour)
	assert.Equal(t, 18, *cfg.Matching.DayEndHour)
	assert.Equal(t, "contained", cfg.Matching.WindowMode)
	assert.False(t, *cfg.Matching.RevalidateOnAssign)
	assert.Equal(t, 45, *cfg.Compliance.DefaultDaysAhead)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"https://ops.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "/var/log/health-ops", cfg.Logging.Dir)
	assert.Equal(t, "seed.yaml", cfg.Seed.File)
}

func TestLoadFromPath_Defaults(t *testing.T) {
	t.Setenv(DatabaseURLEnv, "")
	path := writeConfig(t, t.TempDir(), "dev", "{}\n")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Database.Backend)
	assert.Equal(t, "local_demo.db", cfg.Database.SQLitePath)
	assert.Equal(t, 7, *cfg.Matching.DayStartHour)
	assert.Equal(t, 19, *cfg.Matching.DayEndHour)
	assert.Equal(t, "start", cfg.Matching.WindowMode)
	assert.True(t, *cfg.Matching.RevalidateOnAssign)
	assert.Equal(t, 30, *cfg.Compliance.DefaultDaysAhead)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "logs", cfg.Logging.Dir)
}

func TestLoadFromPath_MidnightDayStartIsKept(t *testing.T) {
	t.Setenv(DatabaseURLEnv, "")
	path := writeConfig(t, t.TempDir(), "dev", "matching:\n  dayStartHour: 0\n  dayEndHour: 12\n")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 0, *cfg.Matching.DayStartHour)
}

func TestLoadFromPath_DatabaseURLFromEnv(t *testing.T) {
	t.Setenv(DatabaseURLEnv, "postgres://env@localhost/health")
	path := writeConfig(t, t.TempDir(), "dev", "database:\n  url: postgres://file@localhost/health\n")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env@localhost/health", cfg.Database.URL)
	assert.Equal(t, BackendPostgres, cfg.Database.Backend)
}

func TestLoadFromPath_Errors(t *testing.T) {
	t.Setenv(DatabaseURLEnv, "")
	dir := t.TempDir()

	_, err := LoadFromPath(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	path := writeConfig(t, dir, "bad", "database: [not, a, map]\n")
	_, err = LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{"defaults are valid", func(cfg *Config) {}, ""},
		{"unknown backend", func(cfg *Config) { cfg.Database.Backend = "mongo" }, "validation failed"},
		{"postgres without url", func(cfg *Config) { cfg.Database.Backend = BackendPostgres }, "validation failed"},
		{"memory backend", func(cfg *Config) { cfg.Database.Backend = BackendMemory }, ""},
		{"unknown window mode", func(cfg *Config) { cfg.Matching.WindowMode = "overlap" }, "validation failed"},
		{"day start out of range", func(cfg *Config) { cfg.Matching.DayStartHour = intPtr(24) }, "validation failed"},
		{"negative days ahead", func(cfg *Config) { cfg.Compliance.DefaultDaysAhead = intPtr(-1) }, "validation failed"},
		{"day start after end", func(cfg *Config) {
			cfg.Matching.DayStartHour = intPtr(20)
			cfg.Matching.DayEndHour = intPtr(8)
		}, "must be before"},
		{"day start equals end", func(cfg *Config) {
			cfg.Matching.DayStartHour = intPtr(9)
			cfg.Matching.DayEndHour = intPtr(9)
		}, "must be before"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			ApplyDefaults(cfg)
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadWithEnv_CurrentDirectory(t *testing.T) {
	t.Setenv(DatabaseURLEnv, "")
	dir := t.TempDir()
	writeConfig(t, dir, "staging", "server:\n  addr: \":7070\"\n")
	chdir(t, dir)

	cfg, err := LoadWithEnv("staging")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, fileName("staging"), cfg.Path)
}

func TestLoadWithEnv_HomeDirectory(t *testing.T) {
	t.Setenv(DatabaseURLEnv, "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())
	writeConfig(t, home, "staging", "logging:\n  dir: /tmp/ops-logs\n")

	cfg, err := LoadWithEnv("staging")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/ops-logs", cfg.Logging.Dir)
	assert.Equal(t, filepath.Join(home, fileName("staging")), cfg.Path)
}

func TestLoadWithEnv_NoFileUsesDefaults(t *testing.T) {
	t.Setenv(DatabaseURLEnv, "")
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := LoadWithEnv("nowhere")
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, BackendSQLite, cfg.Database.Backend)
}
