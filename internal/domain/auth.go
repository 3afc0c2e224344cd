package domain

// Role is the access level carried by an access token.
type Role string

const (
	// RoleAdmin may change the roster and the shared dashboard selection.
	RoleAdmin Role = "ADMIN"
	// RoleViewer may only read.
	RoleViewer Role = "VIEWER"
)
