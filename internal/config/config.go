// Package config loads schemanote settings from an optional config file,
// SCHEMANOTE_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all settings
type Config struct {
	DatabaseURL string `mapstructure:"database_url"`
	Schema      string `mapstructure:"schema"`
	ModelsDir   string `mapstructure:"models_dir"`
	FixturesDir string `mapstructure:"fixtures_dir"`
	Output      string `mapstructure:"output"`
	SchemaFile  string `mapstructure:"schema_file"`
	Verbose     bool   `mapstructure:"verbose"`
}

// flagKeys maps command-line flag names to config keys
var flagKeys = map[string]string{
	"database-url": "database_url",
	"schema":       "schema",
	"models-dir":   "models_dir",
	"fixtures-dir": "fixtures_dir",
	"output":       "output",
	"schema-file":  "schema_file",
	"verbose":      "verbose",
}

// Load reads the configuration. Flags that were not given on the command line
// fall back to the environment, then the config file, then the defaults.
// configFile, when set, must exist; otherwise .schemanote.yaml is looked up in
// the working directory and ./config.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".schemanote")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("SCHEMANOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database_url", "")
	v.SetDefault("schema", "")
	v.SetDefault("models_dir", "app/models")
	v.SetDefault("fixtures_dir", "test/fixtures")
	v.SetDefault("output", "db/schema.txt")
	v.SetDefault("schema_file", "db/schema.yml")
	v.SetDefault("verbose", false)
}
