package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ProjectConfig holds configuration for the project command.
type ProjectConfig struct {
	RPCURL    string
	In        string
	Errors    string
	Network   string
	PGDSN     string
	BatchSize int
	LogLevel  string
}

// LoadProject merges config file, environment variables, and flags into ProjectConfig.
func LoadProject(cfgFile string, flags *pflag.FlagSet) (ProjectConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("POOLSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("errors", "./data/decode_errors.jsonl")
	v.SetDefault("network", "mainnet")
	v.SetDefault("batch-size", 1000)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return ProjectConfig{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return ProjectConfig{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return ProjectConfig{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := ProjectConfig{
		RPCURL:    v.GetString("rpc"),
		In:        v.GetString("in"),
		Errors:    v.GetString("errors"),
		Network:   v.GetString("network"),
		PGDSN:     v.GetString("pg-dsn"),
		BatchSize: v.GetInt("batch-size"),
		LogLevel:  v.GetString("log-level"),
	}

	return cfg, nil
}
