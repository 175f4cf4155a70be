package config

import (
	"strings"
	"time"
)

// OdooConfig describes the Odoo backend the client talks to.
type OdooConfig struct {
	// Host is the scheme + authority of the Odoo server, without a trailing slash.
	Host string `env:"HOST" envDefault:"http://localhost:8069"`

	// Database is the Odoo database name sent on authenticate.
	Database string `env:"DATABASE" envDefault:"school"`

	// Timeout bounds each HTTP request. Zero leaves the HTTP client default (no timeout).
	Timeout time.Duration `env:"TIMEOUT" envDefault:"0s"`
}

// Sanitize trims the host and drops trailing slashes so paths can be appended directly.
func (o *OdooConfig) Sanitize() {
	o.Host = strings.TrimRight(strings.TrimSpace(o.Host), "/")
	o.Database = strings.TrimSpace(o.Database)
	if o.Timeout < 0 {
		o.Timeout = 0
	}
}
