// Package config loads server settings from the environment (WENTI_ prefix)
// and an optional wentitech.yaml.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string `validate:"required"`
		// BasePath mounts the site below a prefix, e.g. "/wentitech".
		BasePath       string `validate:"omitempty,startswith=/,endsnotwith=/"`
		AllowedOrigins []string
		SecureCookies  bool
	}
	DB struct {
		Driver string `validate:"required,oneof=sqlite3 mysql postgres"`
		DSN    string `validate:"required"`
	}
	Logging Logging
	Session struct{ Lifetime time.Duration }
	Contact struct {
		SubmitLatency    time.Duration
		ClipboardTimeout time.Duration
	}
}

// Logging selects the zap configuration.
type Logging struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json console"`
}

// Load reads config from the environment and, when present, a YAML file.
// An empty path looks for wentitech.yaml in the working directory.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WENTI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.base_path", "")
	v.SetDefault("http.allowed_origins", []string{})
	v.SetDefault("http.secure_cookies", false)
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "file:wentitech.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("session.lifetime", "8760h")
	v.SetDefault("contact.submit_latency", "900ms")
	v.SetDefault("contact.clipboard_timeout", "2s")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("wentitech")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.HTTP.BasePath = v.GetString("http.base_path")
	cfg.HTTP.AllowedOrigins = v.GetStringSlice("http.allowed_origins")
	cfg.HTTP.SecureCookies = v.GetBool("http.secure_cookies")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Logging.Level = v.GetString("logging.level")
	cfg.Logging.Format = v.GetString("logging.format")

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"session.lifetime", &cfg.Session.Lifetime},
		{"contact.submit_latency", &cfg.Contact.SubmitLatency},
		{"contact.clipboard_timeout", &cfg.Contact.ClipboardTimeout},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(v.GetString(d.key))
		if err != nil {
			return nil, fmt.Errorf("invalid WENTI_%s: %w", envName(d.key), err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("WENTI_%s must be positive, got %s", envName(d.key), parsed)
		}
		*d.dst = parsed
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
