package animals

import "time"

// Status del animal dentro del refugio.
type Status string

const (
	StatusReported Status = "reported"
	StatusSheltered Status = "sheltered"
	StatusAdopted  Status = "adopted"
)

// Animal es un reporte de animal avistado/rescatado.
// Date queda como texto libre: viene así del formulario público.
type Animal struct {
	ID string

	Date     string
	Name     string
	Breed    string
	Address  string
	Reporter string
	Remarks  string

	ImageURL string

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
