package config

import "strings"

const defaultMetricsPrefix = "odoo_school"

// MetricsConfig controls emission of RPC metrics to a StatsD sink.
type MetricsConfig struct {
	Enabled       bool   `env:"ENABLED"        envDefault:"false"`
	StatsdAddress string `env:"STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix        string `env:"PREFIX"         envDefault:"odoo_school"`
}

// Sanitize trims the address and disables emission when it is blank.
func (c *MetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	if c.StatsdAddress == "" {
		c.Enabled = false
	}
	c.Prefix = strings.Trim(strings.TrimSpace(c.Prefix), ".")
	if c.Prefix == "" {
		c.Prefix = defaultMetricsPrefix
	}
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c MetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}
