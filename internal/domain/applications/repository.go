package applications

import "context"

type Repository interface {
	Create(ctx context.Context, a Application) error

	// List devuelve las solicitudes más recientes primero.
	List(ctx context.Context) ([]Application, error)
}
