package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Quota.MaxFreeBoards <= 0 {
		return fmt.Errorf("quota.max_free_boards must be > 0 (got %d)", c.Quota.MaxFreeBoards)
	}

	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the %q storage driver", StorageDriverPostgres)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("storage.driver must be %q or %q (got %q)", StorageDriverPostgres, StorageDriverMemory, c.Storage.Driver)
	}

	if c.RateLimit.ActionsPerMinute <= 0 {
		return fmt.Errorf("rate_limit.actions_per_minute must be > 0 (got %d)", c.RateLimit.ActionsPerMinute)
	}

	return nil
}
