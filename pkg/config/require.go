package config

import (
	"errors"
	"fmt"
)

// RequireDatabase checks the settings every subcommand that opens the
// database needs.
func (c Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("missing required env DATABASE_URL")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
		return nil
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DBDriver)
	}
}

// RequireServe checks what the HTTP server needs on top of the database:
// two distinct signing secrets, so a refresh token never validates as an
// access token.
func (c Config) RequireServe() error {
	var errs []error
	if err := c.RequireDatabase(); err != nil {
		errs = append(errs, err)
	}
	if len(c.JWTAccessSecret) == 0 {
		errs = append(errs, fmt.Errorf("missing required env JWT_SECRET"))
	}
	if len(c.JWTRefreshSecret) == 0 {
		errs = append(errs, fmt.Errorf("missing required env JWT_REFRESH_SECRET"))
	}
	if len(c.JWTAccessSecret) > 0 && string(c.JWTAccessSecret) == string(c.JWTRefreshSecret) {
		errs = append(errs, fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must differ"))
	}
	return errors.Join(errs...)
}
