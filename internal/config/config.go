// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

// Package config loads PanicPal configuration from defaults, an optional
// YAML file and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/panicpal/panicpal/internal/credential"
	"github.com/panicpal/panicpal/internal/directory"
	"github.com/panicpal/panicpal/internal/xdg"
)

// CodeInvalid is returned when configuration cannot be loaded or fails validation.
const CodeInvalid = "CONFIG_INVALID"

// Config holds all settings for the panicpal binary.
type Config struct {
	// LogFormat is "json" or "text".
	LogFormat string `koanf:"log_format" validate:"oneof=json text"`

	// MetricsAddr is the observability listen address. Empty disables it.
	MetricsAddr string `koanf:"metrics_addr"`

	// Catalog is a resource catalog file. Empty uses the built-in catalog.
	Catalog string `koanf:"catalog"`

	Hash     HashConfig              `koanf:"hash"`
	Password credential.Policy       `koanf:"password"`
	Lockout  directory.LockoutPolicy `koanf:"lockout"`
}

// HashConfig selects the credential hasher.
type HashConfig struct {
	Algorithm string                  `koanf:"algorithm" validate:"oneof=sha256 argon2id"`
	Argon2    credential.Argon2Params `koanf:"argon2"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogFormat: "text",
		Hash: HashConfig{
			Algorithm: credential.AlgorithmSHA256,
			Argon2:    credential.DefaultArgon2Params(),
		},
		Lockout: directory.LockoutPolicy{Duration: directory.DefaultLockoutDuration},
	}
}

// flagKeys maps flag names to config keys. Flags not listed are ignored.
var flagKeys = map[string]string{
	"log-format":          "log_format",
	"metrics-addr":        "metrics_addr",
	"catalog":             "catalog",
	"hash-algorithm":      "hash.algorithm",
	"argon2-time":         "hash.argon2.time",
	"argon2-memory":       "hash.argon2.memory",
	"argon2-threads":      "hash.argon2.threads",
	"password-min-length": "password.min_length",
	"lockout-threshold":   "lockout.threshold",
	"lockout-duration":    "lockout.duration",
}

// RegisterFlags adds the configuration flags to fs, defaulted from Default.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("log-format", d.LogFormat, "log format (json, text)")
	fs.String("metrics-addr", d.MetricsAddr, "observability server address (empty disables)")
	fs.String("catalog", d.Catalog, "resource catalog file (empty uses the built-in catalog)")
	fs.String("hash-algorithm", d.Hash.Algorithm, "credential algorithm (sha256, argon2id)")
	fs.Uint32("argon2-time", d.Hash.Argon2.Time, "argon2id iterations")
	fs.Uint32("argon2-memory", d.Hash.Argon2.Memory, "argon2id memory in KiB")
	fs.Uint8("argon2-threads", d.Hash.Argon2.Threads, "argon2id parallelism")
	fs.Int("password-min-length", d.Password.MinLength, "minimum password length at registration (0 disables)")
	fs.Int("lockout-threshold", d.Lockout.Threshold, "failed logins before lockout (0 disables)")
	fs.Duration("lockout-duration", d.Lockout.Duration, "how long a locked account stays locked")
}

// Load builds the configuration. Values come from flag defaults, then the
// YAML file at path, then flags set explicitly on the command line. An empty
// path loads the XDG config file if one exists.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		var err error
		path, err = xdg.DefaultConfigFile()
		if err != nil {
			return nil, oops.Code(CodeInvalid).Wrapf(err, "locate config file")
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code(CodeInvalid).With("path", path).Wrapf(err, "load config file")
		}
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code(CodeInvalid).Wrapf(err, "load flags")
		}
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, oops.Code(CodeInvalid).With("path", path).Wrapf(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return &cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and the selected hasher's parameters.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return oops.Code(CodeInvalid).Errorf("%s", formatValidationError(err))
	}
	if c.Hash.Algorithm == credential.AlgorithmArgon2id {
		if err := c.Hash.Argon2.Validate(); err != nil {
			return oops.Code(CodeInvalid).Wrapf(err, "hash.argon2")
		}
	}
	return nil
}

// Hasher returns the credential hasher the configuration selects.
func (c *Config) Hasher() (credential.Hasher, error) {
	h, err := credential.New(c.Hash.Algorithm, c.Hash.Argon2)
	if err != nil {
		return nil, oops.Code(CodeInvalid).Wrap(err)
	}
	return h, nil
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return strings.Join(msgs, "; ")
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(strings.TrimPrefix(e.Namespace(), "Config."))
	switch e.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s, got %q", field, e.Param(), e.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
