package events

import "time"

// Event es un evento del calendario (ferias de adopción, jornadas, etc).
// Time queda como texto ("10:00 AM") tal cual lo carga el admin;
// Date es la fecha real por la que se ordena el listado.
type Event struct {
	ID string

	Title       string
	Date        time.Time
	Time        string
	Location    string
	Description string

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
