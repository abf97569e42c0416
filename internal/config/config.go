package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Storage modes selectable at startup.
const (
	ModeMemory   = "memory"
	ModePostgres = "postgres"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Mode        string
	Host        string
	Port        int
	DatabaseURL string
	LogLevel    string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NETWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", ModeMemory)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("port", 8080)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Mode:        v.GetString("mode"),
		Host:        v.GetString("host"),
		Port:        v.GetInt("port"),
		DatabaseURL: v.GetString("database-url"),
		LogLevel:    v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks mode selection and its requirements.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeMemory:
	case ModePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database-url is required for postgres mode")
		}
	default:
		return fmt.Errorf("unknown mode %q (want %s or %s)", c.Mode, ModeMemory, ModePostgres)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}
