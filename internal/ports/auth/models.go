package auth

// Claims representa la identidad extraída del token.
type Claims struct {
	UserID   string
	Username string
	Role     string
}

// IsAdmin reporta si las claims corresponden a una cuenta admin.
func (c Claims) IsAdmin() bool {
	return c.Role == "admin"
}
