package records

import (
	"time"

	"safemed/internal/domain/records/details"
)

type Actor struct {
	Type ActorType
	ID   string
}

// Details agrupa el payload tipado según el Type de la entrada.
// A lo sumo uno de los punteros está seteado; se persiste como JSON.
type Details struct {
	Medication  *details.Medication  `json:"medication,omitempty"`
	Vaccination *details.Vaccination `json:"vaccination,omitempty"`
	Allergy     *details.Allergy     `json:"allergy,omitempty"`
	Condition   *details.Condition   `json:"condition,omitempty"`
	Document    *details.Document    `json:"document,omitempty"`
}

func (d Details) Empty() bool {
	return d.Medication == nil && d.Vaccination == nil && d.Allergy == nil &&
		d.Condition == nil && d.Document == nil
}

// RecordEntry es una entrada de la historia clínica del paciente.
// Las entradas no se editan ni borran: se anulan (void) y se crea otra.
type RecordEntry struct {
	ID        string
	PatientID string

	Type EntryType

	OccurredAt time.Time
	RecordedAt time.Time

	Title string
	Notes string

	Details Details

	Actor  Actor
	Source Source
	Status EntryStatus
}
