package rescue

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("rescue request not found")

	// ErrTrackingCodeTaken la devuelve Create cuando el código chocó con
	// uno existente; el service genera otro y reintenta.
	ErrTrackingCodeTaken = errors.New("tracking code already used")

	// ErrIdempotencyKeyTaken: otra submission con la misma clave ganó la
	// carrera entre el lookup y el insert.
	ErrIdempotencyKeyTaken = errors.New("idempotency key already used")
)

type Repository interface {
	Create(ctx context.Context, req RescueRequest) error
	GetByID(ctx context.Context, id string) (RescueRequest, error)
	GetByTrackingCode(ctx context.Context, code string) (RescueRequest, error)

	// GetByIdempotencyKey devuelve ErrNotFound si la clave no se usó antes.
	GetByIdempotencyKey(ctx context.Context, key string) (RescueRequest, error)

	// List devuelve los pedidos más recientes primero.
	List(ctx context.Context) ([]RescueRequest, error)
	Update(ctx context.Context, req RescueRequest) error
}
