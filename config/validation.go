package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable for the selected
// database driver and environment. Redis settings are only validated when a
// Redis host is configured, since caching and rate limiting are optional.
func ValidateConfig(cfg *Config) error {
	var errs []string

	switch cfg.DBDriver {
	case "postgres":
		for field, value := range map[string]string{
			"DBHost": cfg.DBHost,
			"DBPort": cfg.DBPort,
			"DBUser": cfg.DBUser,
			"DBName": cfg.DBName,
		} {
			if value == "" {
				errs = append(errs, fmt.Sprintf("%s is required with the postgres driver", field))
			}
		}
		if cfg.DBPassword == "" && IsProduction() {
			errs = append(errs, "DBPassword is required with the postgres driver in production")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			errs = append(errs, "SQLitePath is required with the sqlite driver")
		}
		if IsProduction() {
			errs = append(errs, "the sqlite driver is not supported in production")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown database driver %q", cfg.DBDriver))
	}

	if cfg.RedisEnabled() && cfg.RedisPort == "" {
		errs = append(errs, "RedisPort is required when RedisHost is set")
	}

	if cfg.JWTSecret == "" {
		errs = append(errs, "JWTSecret is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
