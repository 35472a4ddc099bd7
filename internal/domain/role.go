package domain

// RoleName is the tag carried by users and, as a hint, by session tokens.
type RoleName string

const (
	RoleUser   RoleName = "user"
	RoleAuthor RoleName = "author"
	RoleAdmin  RoleName = "admin"
)

// Role is a stored role definition.
type Role struct {
	ID          string   `json:"id"`
	Name        RoleName `json:"name"`
	Description string   `json:"description"`
}

// DefaultRoles are seeded into every storage backend at startup.
func DefaultRoles() []Role {
	return []Role{
		{Name: RoleUser, Description: "Default user role"},
		{Name: RoleAuthor, Description: "Author role"},
		{Name: RoleAdmin, Description: "Administrator role"},
	}
}

// Elevated reports whether the role may act on records owned by others.
func (r RoleName) Elevated() bool {
	return r == RoleAdmin
}

// CanPublish reports whether the role may create articles and use the dashboard.
func (r RoleName) CanPublish() bool {
	return r == RoleAuthor || r == RoleAdmin
}
