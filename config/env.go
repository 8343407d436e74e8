package config

import (
	"os"
	"strings"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment. CI=true wins, then
// PASTRY_ENV, then ENV. Anything unrecognized means development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	for _, key := range []string{"PASTRY_ENV", "ENV"} {
		if env, ok := ParseEnvironment(os.Getenv(key)); ok {
			return env
		}
	}
	return Development
}

// ParseEnvironment maps a name such as "prod" or "Production" to an Environment.
func ParseEnvironment(name string) (Environment, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "production", "prod":
		return Production, true
	case "test":
		return Test, true
	case "ci":
		return CI, true
	case "development", "dev":
		return Development, true
	}
	return "", false
}

// IsProduction returns true if the config was loaded for production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsDevelopment returns true if the config was loaded for development
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}
