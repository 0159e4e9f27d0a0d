package service

// Roles a user account can hold. Anything else is treated as anonymous and
// denied on protected operations.
const (
	RoleAdmin  = "Admin"
	RoleEditor = "Editor"
)

// Identity is the authenticated caller as established by the identity
// provider. The service trusts it verbatim.
type Identity struct {
	Username string
	Role     string
}
