package events

import "context"

type Repository interface {
	Create(ctx context.Context, e Event) error
	GetByID(ctx context.Context, id string) (Event, error)

	// List devuelve todos los eventos ordenados por fecha ascendente.
	List(ctx context.Context) ([]Event, error)

	Update(ctx context.Context, e Event) error
	Delete(ctx context.Context, id string) error
}
