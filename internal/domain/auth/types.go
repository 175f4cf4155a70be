package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleSecretary Role = "secretary"
	RoleProfessor Role = "professor"
	RoleStudent   Role = "student"
)

// LeastPrivileged is the role assigned when the backend role is unknown.
const LeastPrivileged = RoleStudent

// Valid reports whether r is one of the fixed application roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSecretary, RoleProfessor, RoleStudent:
		return true
	default:
		return false
	}
}

// OdooData is the backend-side view of the logged in user.
type OdooData struct {
	UID          int64          `json:"uid"`
	CompanyID    int64          `json:"company_id,omitempty"`
	PartnerID    int64          `json:"partner_id,omitempty"`
	Context      map[string]any `json:"context,omitempty"`
	OriginalRole string         `json:"original_role,omitempty"`
}

// UserSession is the application's local record of who is logged in.
// Token is the opaque Odoo session id echoed on every authenticated call.
type UserSession struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email,omitempty"`
	Role      Role      `json:"role"`
	OdooRole  string    `json:"odoo_role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
	Token     string    `json:"token"`
	Odoo      OdooData  `json:"odoo"`
}

// Valid reports whether the session carries every field required to be trusted.
func (s UserSession) Valid() bool {
	return s.ID != 0 &&
		s.Username != "" &&
		s.Token != "" &&
		s.Role != "" &&
		s.Odoo.UID != 0
}

// IsAdmin returns true if the session role is admin.
func (s UserSession) IsAdmin() bool { return s.Role == RoleAdmin }

// UserSessionPatch carries a partial update; nil fields are left untouched.
type UserSessionPatch struct {
	Username *string
	FullName *string
	Email    *string
	Role     *Role
	Context  map[string]any
}

// Apply shallow-merges the patch into s.
func (p UserSessionPatch) Apply(s *UserSession) {
	if p.Username != nil {
		s.Username = *p.Username
	}
	if p.FullName != nil {
		s.FullName = *p.FullName
	}
	if p.Email != nil {
		s.Email = *p.Email
	}
	if p.Role != nil {
		s.Role = *p.Role
	}
	if p.Context != nil {
		s.Odoo.Context = p.Context
	}
}
