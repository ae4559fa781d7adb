package users

import "time"

// User es una cuenta del panel admin.
// PasswordHash nunca se serializa; el hash se genera en el service.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string

	CreatedAt time.Time
}

// LoginRecord es una entrada del audit de logins.
// Reemplaza el "lastLogin" aleatorio que mostraba la versión anterior:
// ahora lastLogin/status se derivan de registros reales.
type LoginRecord struct {
	ID     string
	UserID string
	At     time.Time
}

// View es lo que ve el panel: la cuenta más los campos derivados.
type View struct {
	User

	LastLogin *time.Time
	Status    string // active si el último login fue hace <= 7 días
}
