package rescue

// Tag clasifica el caso dentro del refugio. El formulario público solo
// pide urgencia; la etiqueta se deriva en el server.
type Tag string

const (
	TagNeglect  Tag = "Neglect"
	TagAccident Tag = "Accident"
	TagCruelty  Tag = "Cruelty"
	TagLost     Tag = "Lost"
	TagMissing  Tag = "Missing"
)

func ValidTag(t Tag) bool {
	switch t {
	case TagNeglect, TagAccident, TagCruelty, TagLost, TagMissing:
		return true
	}
	return false
}

// ValidUrgency reporta si el valor es uno de los del formulario.
// Vacío está permitido: el caller puede mandar la etiqueta directa.
func ValidUrgency(urgency string) bool {
	switch urgency {
	case "", "normal", "urgent", "emergency":
		return true
	}
	return false
}

// TagFromUrgency mapea la urgencia del formulario a la etiqueta interna.
// Solo recibe valores ya validados; "normal" y vacío caen en Neglect.
func TagFromUrgency(urgency string) Tag {
	switch urgency {
	case "emergency":
		return TagCruelty
	case "urgent":
		return TagAccident
	default:
		return TagNeglect
	}
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}
