package model

// Role is a user's permission level on a shared list.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// CanEdit reports whether the role may change list items.
func (r Role) CanEdit() bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleEditor
}

// CanManage reports whether the role may invite, re-role or remove members.
func (r Role) CanManage() bool {
	return r == RoleOwner || r == RoleAdmin
}

type Member struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}
