package rescue

import "time"

// RescueRequest es un pedido de rescate enviado desde el sitio público.
// TrackingCode es el identificador que ve el denunciante; ID es interno.
type RescueRequest struct {
	ID           string
	TrackingCode string

	FullName      string
	ContactNumber string
	Email         string
	Concern       string
	LocationNote  string
	Urgency       string
	Tag           Tag

	PhotoURL         string
	PhotoContentType string

	Status     Status
	AssignedTo string
	Notes      []Note

	// IdempotencyKey permite reintentar el POST sin duplicar el caso.
	IdempotencyKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Note es una anotación interna del equipo sobre el caso.
type Note struct {
	Text      string
	CreatedBy string
	CreatedAt time.Time
}
