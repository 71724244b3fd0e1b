package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{"SKILLCHECK_CONFIG", "SKILLCHECK_DB", "SKILLCHECK_LOG_LEVEL", "SKILLCHECK_LOG_FORMAT", "SKILLCHECK_LOG_FILE"} {
		t.Setenv(k, "")
	}
	return dir
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 30*time.Minute, cfg.TimeLimit.Std())
	assert.Equal(t, 3, cfg.WarningCutoff)
	require.Len(t, cfg.TestTypes, 2)

	web, err := cfg.TestType("web")
	require.NoError(t, err)
	assert.Equal(t, "web-development", web.Bank)
	assert.Equal(t, 30*time.Minute, web.TimeLimit.Std())
	assert.Equal(t, 3, web.WarningCutoff)
}

func TestLoadFallsBackToDefault(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Len(t, cfg.TestTypes, 2)
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)

	userPath := filepath.Join(dir, "skillcheck", "config.yaml")
	writeFile(t, userPath, `
time_limit: 10m
warning_cutoff: 2
test_types:
  - id: user
    title: From XDG
    bank: web-development
`)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, userPath, cfg.Path)
	assert.Equal(t, "user", cfg.TestTypes[0].ID)

	envPath := filepath.Join(dir, "env.yaml")
	writeFile(t, envPath, `
time_limit: 5m
warning_cutoff: 1
test_types:
  - id: env
    title: From env
    bank: data-structures
`)
	t.Setenv("SKILLCHECK_CONFIG", envPath)
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "env", cfg.TestTypes[0].ID)

	flagPath := filepath.Join(dir, "flag.yaml")
	writeFile(t, flagPath, `
time_limit: 90
warning_cutoff: 4
test_types:
  - id: flag
    title: From flag
    bank: data-structures
`)
	cfg, err = Load(flagPath)
	require.NoError(t, err)
	assert.Equal(t, "flag", cfg.TestTypes[0].ID)
	assert.Equal(t, 90*time.Second, cfg.TimeLimit.Std(), "bare integers are seconds")
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("SKILLCHECK_DB", "/tmp/x.db")
	t.Setenv("SKILLCHECK_LOG_LEVEL", "debug")
	t.Setenv("SKILLCHECK_LOG_FILE", "/tmp/x.log")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/x.log", cfg.LogFile)
}

func TestTestTypeOverrides(t *testing.T) {
	dir := isolate(t)
	p := filepath.Join(dir, "c.yaml")
	writeFile(t, p, `
time_limit: 20m
warning_cutoff: 3
test_types:
  - id: quick
    title: Quick
    bank: web-development
    time_limit: 2m
    warning_cutoff: 1
    shuffle: true
  - id: plain
    title: Plain
    bank: data-structures
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	quick, err := cfg.TestType("quick")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, quick.TimeLimit.Std())
	assert.Equal(t, 1, quick.WarningCutoff)
	assert.True(t, quick.Shuffle)

	plain, err := cfg.TestType("plain")
	require.NoError(t, err)
	assert.Equal(t, 20*time.Minute, plain.TimeLimit.Std())
	assert.Equal(t, 3, plain.WarningCutoff)

	resolved := cfg.Resolved()
	require.Len(t, resolved, 2)
	assert.Equal(t, quick, resolved[0])
	assert.Equal(t, plain, resolved[1])

	_, err = cfg.TestType("missing")
	assert.ErrorIs(t, err, ErrUnknownTestType)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{
			name:    "no test types",
			body:    "time_limit: 1m\nwarning_cutoff: 3\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "zero cutoff",
			body:    "time_limit: 1m\nwarning_cutoff: 0\ntest_types:\n  - {id: a, title: A, bank: b}\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "missing bank",
			body:    "time_limit: 1m\nwarning_cutoff: 3\ntest_types:\n  - {id: a, title: A}\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "bad duration",
			body:    "time_limit: soon\nwarning_cutoff: 3\ntest_types:\n  - {id: a, title: A, bank: b}\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "sub-second default limit",
			body:    "time_limit: 500ms\nwarning_cutoff: 3\ntest_types:\n  - {id: a, title: A, bank: b}\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "sub-second test type limit",
			body:    "time_limit: 1m\nwarning_cutoff: 3\ntest_types:\n  - {id: a, title: A, bank: b, time_limit: 900ms}\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "duplicate ids",
			body:    "time_limit: 1m\nwarning_cutoff: 3\ntest_types:\n  - {id: a, title: A, bank: b}\n  - {id: a, title: B, bank: b}\n",
			wantErr: ErrDuplicateTestType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			p := filepath.Join(dir, "c.yaml")
			writeFile(t, p, tt.body)
			_, err := Load(p)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadAcceptsOneSecondLimit(t *testing.T) {
	dir := isolate(t)
	p := filepath.Join(dir, "c.yaml")
	writeFile(t, p, "time_limit: 1s\nwarning_cutoff: 1\ntest_types:\n  - {id: a, title: A, bank: b}\n")

	cfg, err := Load(p)
	require.NoError(t, err)
	tt, err := cfg.TestType("a")
	require.NoError(t, err)
	assert.Equal(t, time.Second, tt.TimeLimit.Std())
}
