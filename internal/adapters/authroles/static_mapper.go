package authroles

import (
	"strings"

	domainauth "github.com/target/odoo-school-client/internal/domain/auth"
)

// DefaultTable maps lower-cased raw Odoo roles to application roles.
var DefaultTable = map[string]domainauth.Role{
	"admin":         domainauth.RoleAdmin,
	"administrator": domainauth.RoleAdmin,
	"administrador": domainauth.RoleAdmin,
	"secretary":     domainauth.RoleSecretary,
	"secretaria":    domainauth.RoleSecretary,
	"professor":     domainauth.RoleProfessor,
	"profesor":      domainauth.RoleProfessor,
	"teacher":       domainauth.RoleProfessor,
	"docente":       domainauth.RoleProfessor,
	"student":       domainauth.RoleStudent,
	"estudiante":    domainauth.RoleStudent,
	"alumno":        domainauth.RoleStudent,
}

// StaticRoleMapper maps raw backend roles through a fixed lookup table.
// Unknown roles fall back to the least-privileged application role.
type StaticRoleMapper struct {
	table map[string]domainauth.Role
}

// NewStaticRoleMapper builds a mapper from DefaultTable plus overrides.
// Override keys are matched case-insensitively; invalid roles are ignored.
func NewStaticRoleMapper(overrides map[string]string) StaticRoleMapper {
	table := make(map[string]domainauth.Role, len(DefaultTable)+len(overrides))
	for raw, role := range DefaultTable {
		table[raw] = role
	}
	for raw, role := range overrides {
		r := domainauth.Role(strings.ToLower(strings.TrimSpace(role)))
		if !r.Valid() {
			continue
		}
		table[strings.ToLower(strings.TrimSpace(raw))] = r
	}
	return StaticRoleMapper{table: table}
}

func (m StaticRoleMapper) Map(raw string) domainauth.Role {
	table := m.table
	if table == nil {
		table = DefaultTable
	}
	if role, ok := table[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return role
	}
	return domainauth.LeastPrivileged
}
