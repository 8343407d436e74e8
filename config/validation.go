package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Error())
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks the loaded configuration for the current environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, ValidationError{"server.port", "must be between 1 and 65535"})
	}

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Host == "" {
			errs = append(errs, ValidationError{"database.host", "is required for postgres"})
		}
		if cfg.Database.Name == "" {
			errs = append(errs, ValidationError{"database.name", "is required for postgres"})
		}
		if cfg.Environment == Production && cfg.Database.Password == "" {
			errs = append(errs, ValidationError{"database.password", "db_password secret is required in production"})
		}
	case "sqlite":
		if cfg.Database.Path == "" {
			errs = append(errs, ValidationError{"database.path", "is required for sqlite"})
		}
	default:
		errs = append(errs, ValidationError{"database.driver", fmt.Sprintf("unsupported driver %q", cfg.Database.Driver)})
	}

	if cfg.Scaling.ServingVolumeML <= 0 {
		errs = append(errs, ValidationError{"scaling.serving_volume_ml", "must be positive"})
	}
	if cfg.Scaling.MaxDepth < 1 {
		errs = append(errs, ValidationError{"scaling.max_depth", "must be at least 1"})
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.Limit < 1 {
			errs = append(errs, ValidationError{"rate_limit.limit", "must be at least 1"})
		}
		if cfg.RateLimit.Window <= 0 {
			errs = append(errs, ValidationError{"rate_limit.window", "must be positive"})
		}
	}

	if cfg.Storage.Enabled && cfg.Storage.Bucket == "" {
		errs = append(errs, ValidationError{"storage.bucket", "is required when storage is enabled"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
