package users

import (
	"context"
	"time"
)

type Repository interface {
	// Create falla con ErrUsernameTaken si el username ya existe.
	// La unicidad se garantiza dentro del adapter (lock o índice único),
	// no con un check-then-insert del caller.
	Create(ctx context.Context, u User) error

	GetByID(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id string) error

	// Audit de logins.
	RecordLogin(ctx context.Context, rec LoginRecord) error
	// LastLogin devuelve ok=false si la cuenta nunca inició sesión.
	LastLogin(ctx context.Context, userID string) (time.Time, bool, error)
}
