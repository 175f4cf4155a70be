package config

import (
	"fmt"
	"strings"
)

// AuthConfig groups role-mapping configuration.
type AuthConfig struct {
	// RoleMap adds or overrides raw backend role mappings, e.g. "direccion=admin;tutor=professor".
	// Values must be one of admin, secretary, professor, student.
	RoleMap string `env:"AUTH_ROLE_MAP" envDefault:""`
}

// ParseRoleMap parses AUTH_ROLE_MAP into raw role -> application role pairs.
// Raw roles are lower-cased; blank entries are skipped.
func (a AuthConfig) ParseRoleMap() (map[string]string, error) {
	out := make(map[string]string)
	for _, part := range strings.Split(a.RoleMap, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		raw, role, ok := strings.Cut(part, "=")
		raw = strings.ToLower(strings.TrimSpace(raw))
		role = strings.ToLower(strings.TrimSpace(role))
		if !ok || raw == "" || role == "" {
			return nil, fmt.Errorf("invalid role mapping %q (expected raw=role)", part)
		}
		switch role {
		case "admin", "secretary", "professor", "student":
			out[raw] = role
		default:
			return nil, fmt.Errorf(
				"invalid role %q in mapping %q (valid options: admin, secretary, professor, student)",
				role, part,
			)
		}
	}
	return out, nil
}
