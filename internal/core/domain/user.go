package domain

import "time"

// Role is the access level of an account. Only two values exist.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseRole returns the role named by s. Unknown names are rejected rather
// than silently downgraded to RoleUser.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", &ValidationError{Reason: "role must be one of: admin user"}
	}
	return r, nil
}

// User models an account in the credential store.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`
}

// Public returns a copy of u with the password hash stripped.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	p := *u
	p.PasswordHash = ""
	if u.LastLogin != nil {
		t := *u.LastLogin
		p.LastLogin = &t
	}
	return &p
}
