// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panicpal/panicpal/internal/config"
	"github.com/panicpal/panicpal/internal/credential"
	"github.com/panicpal/panicpal/pkg/errutil"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "config file path")
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load("", newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, config.Default(), *cfg)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, credential.AlgorithmSHA256, cfg.Hash.Algorithm)
	assert.Equal(t, credential.DefaultArgon2Params(), cfg.Hash.Argon2)
	assert.Zero(t, cfg.Password.MinLength)
	assert.False(t, cfg.Lockout.Enabled())
}

func TestLoad_File(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path := writeConfig(t, `
log_format: json
metrics_addr: 127.0.0.1:9100
hash:
  algorithm: argon2id
  argon2:
    time: 2
    memory: 1024
    threads: 2
password:
  min_length: 8
lockout:
  threshold: 5
  duration: 5m
`)

	cfg, err := config.Load(path, newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr)
	assert.Equal(t, credential.AlgorithmArgon2id, cfg.Hash.Algorithm)
	assert.Equal(t, credential.Argon2Params{Time: 2, Memory: 1024, Threads: 2}, cfg.Hash.Argon2)
	assert.Equal(t, 8, cfg.Password.MinLength)
	assert.Equal(t, 5, cfg.Lockout.Threshold)
	assert.Equal(t, 5*time.Minute, cfg.Lockout.Duration)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	path := writeConfig(t, `
log_format: json
password:
  min_length: 8
lockout:
  threshold: 5
`)

	fs := newFlags(t, "--log-format=text", "--lockout-threshold=3", "--lockout-duration=1m")
	cfg, err := config.Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.LogFormat, "explicit flag wins over file")
	assert.Equal(t, 3, cfg.Lockout.Threshold)
	assert.Equal(t, time.Minute, cfg.Lockout.Duration)
	assert.Equal(t, 8, cfg.Password.MinLength, "unset flag does not override file")
}

func TestLoad_XDGConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	dir := filepath.Join(home, "panicpal")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log_format: json\n"), 0o600))

	cfg, err := config.Load("", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_WithoutFlags(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load(writeConfig(t, "catalog: /etc/panicpal/catalog.yaml\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, "/etc/panicpal/catalog.yaml", cfg.Catalog)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	tests := []struct {
		name    string
		content string
		args    []string
		wantMsg string
	}{
		{name: "bad log format", content: "log_format: xml\n", wantMsg: "log_format must be one of"},
		{name: "bad algorithm flag", args: []string{"--hash-algorithm=md5"}, wantMsg: "hash.algorithm must be one of"},
		{name: "negative min length", content: "password:\n  min_length: -1\n", wantMsg: "password.min_length must be at least 0"},
		{name: "negative threshold", args: []string{"--lockout-threshold=-2"}, wantMsg: "lockout.threshold must be at least 0"},
		{name: "invalid argon2 params", content: "hash:\n  algorithm: argon2id\n  argon2:\n    threads: 0\n", wantMsg: "hash.argon2"},
		{name: "malformed yaml", content: "log_format: [json\n", wantMsg: "load config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := ""
			if tt.content != "" {
				path = writeConfig(t, tt.content)
			}
			cfg, err := config.Load(path, newFlags(t, tt.args...))
			assert.Nil(t, cfg)
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, config.CodeInvalid)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), newFlags(t))
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, config.CodeInvalid)
	})
}

func TestConfig_Hasher(t *testing.T) {
	cfg := config.Default()
	h, err := cfg.Hasher()
	require.NoError(t, err)
	assert.Equal(t, credential.AlgorithmSHA256, h.Algorithm())

	cfg.Hash.Algorithm = credential.AlgorithmArgon2id
	cfg.Hash.Argon2 = credential.Argon2Params{Time: 1, Memory: 64, Threads: 1}
	h, err = cfg.Hasher()
	require.NoError(t, err)
	assert.Equal(t, credential.AlgorithmArgon2id, h.Algorithm())
}
