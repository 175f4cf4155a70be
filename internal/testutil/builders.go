package testutil

import (
	"time"

	domainauth "github.com/target/odoo-school-client/internal/domain/auth"
)

// UserSessionBuilder provides a fluent interface for building UserSession values for testing.
type UserSessionBuilder struct {
	sess domainauth.UserSession
}

// NewUserSession creates a UserSessionBuilder with a valid professor session.
func NewUserSession() *UserSessionBuilder {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	return &UserSessionBuilder{
		sess: domainauth.UserSession{
			ID:        5,
			Username:  "ana@colegio.edu",
			FullName:  "Ana Pérez",
			Email:     "ana@colegio.edu",
			Role:      domainauth.RoleProfessor,
			OdooRole:  "profesor",
			CreatedAt: now,
			LastLogin: now,
			Token:     "tok-ana",
			Odoo: domainauth.OdooData{
				UID:          5,
				CompanyID:    1,
				PartnerID:    12,
				Context:      map[string]any{"lang": "es_ES", "tz": "America/Caracas"},
				OriginalRole: "profesor",
			},
		},
	}
}

// WithID sets both the application id and backend uid.
func (b *UserSessionBuilder) WithID(id int64) *UserSessionBuilder {
	b.sess.ID = id
	b.sess.Odoo.UID = id
	return b
}

// WithRole sets the mapped role.
func (b *UserSessionBuilder) WithRole(role domainauth.Role) *UserSessionBuilder {
	b.sess.Role = role
	return b
}

// WithToken sets the session token.
func (b *UserSessionBuilder) WithToken(token string) *UserSessionBuilder {
	b.sess.Token = token
	return b
}

// WithFullName sets the display name.
func (b *UserSessionBuilder) WithFullName(name string) *UserSessionBuilder {
	b.sess.FullName = name
	return b
}

// Build returns the UserSession.
func (b *UserSessionBuilder) Build() domainauth.UserSession {
	return b.sess
}
