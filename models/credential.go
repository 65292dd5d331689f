package models

// Credential is the single login gate. A default admin credential is
// seeded at startup and can be overridden by a password change; this is
// a placeholder gate, not a security boundary.
type Credential struct {
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

const (
	DefaultUsername = "admin"
	DefaultPassword = "admin123"
)
