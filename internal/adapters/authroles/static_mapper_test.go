package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	domainauth "github.com/target/odoo-school-client/internal/domain/auth"
)

func TestStaticRoleMapper_Map(t *testing.T) {
	m := NewStaticRoleMapper(nil)

	tests := []struct {
		raw  string
		want domainauth.Role
	}{
		{"admin", domainauth.RoleAdmin},
		{"Administrador", domainauth.RoleAdmin},
		{" secretaria ", domainauth.RoleSecretary},
		{"PROFESOR", domainauth.RoleProfessor},
		{"teacher", domainauth.RoleProfessor},
		{"estudiante", domainauth.RoleStudent},
		{"janitor", domainauth.RoleStudent},
		{"", domainauth.RoleStudent},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Map(tt.raw))
		})
	}
}

func TestStaticRoleMapper_Overrides(t *testing.T) {
	m := NewStaticRoleMapper(map[string]string{
		"Direccion": "admin",
		"alumno":    "secretary",
		"tutor":     "superuser",
	})

	assert.Equal(t, domainauth.RoleAdmin, m.Map("direccion"))
	assert.Equal(t, domainauth.RoleSecretary, m.Map("alumno"))
	assert.Equal(t, domainauth.RoleStudent, m.Map("tutor"))
}

func TestStaticRoleMapper_ZeroValue(t *testing.T) {
	var m StaticRoleMapper
	assert.Equal(t, domainauth.RoleAdmin, m.Map("admin"))
}
