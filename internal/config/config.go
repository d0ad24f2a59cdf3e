// Package config resolves recipebook settings from defaults, an optional
// YAML file, RECIPEBOOK_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys understood by Load.
const (
	KeyDB      = "db"
	KeyKey     = "key"
	KeyListen  = "listen"
	KeyVerbose = "verbose"
)

// EnvPrefix is prepended to upper-cased keys, e.g. RECIPEBOOK_DB.
const EnvPrefix = "RECIPEBOOK"

// Config holds resolved settings.
type Config struct {
	// DB is the path of the SQLite file backing the local store.
	DB string `mapstructure:"db"`
	// Key is the store key holding the serialized collection.
	Key string `mapstructure:"key"`
	// Listen is the address the serve command binds.
	Listen string `mapstructure:"listen"`
	// Verbose enables debug logging.
	Verbose bool `mapstructure:"verbose"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		DB:     "recipebook.db",
		Key:    "recipes",
		Listen: "127.0.0.1:8080",
	}
}

// Load resolves configuration. Precedence, highest first: flags that were
// explicitly set, environment, config file, defaults.
//
// path names an explicit config file; when empty, recipebook.yaml in the
// working directory is used if present. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault(KeyDB, d.DB)
	v.SetDefault(KeyKey, d.Key)
	v.SetDefault(KeyListen, d.Listen)
	v.SetDefault(KeyVerbose, d.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("recipebook")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for _, key := range []string{KeyDB, KeyKey, KeyListen, KeyVerbose} {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", key, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if strings.TrimSpace(cfg.Key) == "" {
		return Config{}, errors.New("config: key must not be empty")
	}
	if strings.TrimSpace(cfg.DB) == "" {
		return Config{}, errors.New("config: db must not be empty")
	}
	return cfg, nil
}
