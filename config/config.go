/*
Package config loads service settings from the environment.

PURPOSE:
  One struct holding everything the binaries need, populated from UC_*
  environment variables with sensible defaults. Command-line flags in
  cmd/server may still override the common ones (port, database path).

VARIABLES:
  UC_APP_NAME       Display name used in logs and the health payload
  UC_HOST           Listen host (default: all interfaces)
  UC_PORT           Listen port (default: 8080)
  UC_DATABASE_PATH  SQLite path, ":memory:" for ephemeral (default: uc.db)
  UC_CORS_ORIGINS   Comma-separated allowed origins (default: *)
  UC_SECRET_KEY     JWT signing secret; empty disables the admin surface
  UC_TOKEN_TTL      Token lifetime (default: 30m)
  UC_RATES_FILE     YAML rate book; empty uses the built-in figures
  UC_LHA_FILE       YAML LHA schedule; empty uses the built-in schedule
  UC_DEBUG          Verbose request logging (default: false)

SEE ALSO:
  - cmd/server/main.go: The consumer
  - rates/file.go: The YAML formats RATES_FILE and LHA_FILE use
*/
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Settings holds the values of environment variables.
type Settings struct {
	AppName      string        `split_words:"true" default:"UC Entitlement Engine"`
	Host         string        `default:""`
	Port         int           `default:"8080"`
	DatabasePath string        `split_words:"true" default:"uc.db"`
	CORSOrigins  []string      `envconfig:"CORS_ORIGINS" default:"*"`
	SecretKey    string        `split_words:"true"`
	TokenTTL     time.Duration `envconfig:"TOKEN_TTL" default:"30m"`
	RatesFile    string        `split_words:"true"`
	LHAFile      string        `envconfig:"LHA_FILE"`
	Debug        bool          `default:"false"`
}

// Load reads UC_* environment variables into a Settings.
func Load() (Settings, error) {
	var s Settings
	if err := envconfig.Process("uc", &s); err != nil {
		return Settings{}, fmt.Errorf("error loading env vars: %w", err)
	}
	return s, nil
}

// Addr is the host:port the HTTP server listens on.
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// AuthEnabled reports whether token endpoints and the admin surface are on.
func (s Settings) AuthEnabled() bool {
	return s.SecretKey != ""
}
