package applications

import "time"

// Application es una solicitud de adopción enviada desde el sitio público.
type Application struct {
	ID string

	Name       string
	Contact    string
	Address    string
	PetType    string
	Reason     string
	Experience string
	Notes      string

	CreatedAt time.Time
	UpdatedAt time.Time
}
