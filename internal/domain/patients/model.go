package patients

import "time"

// Sex define el sexo registrado del paciente.
// @Enum male, female, other, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexOther   Sex = "other"
	SexUnknown Sex = "unknown"
)

// BloodType define los grupos sanguíneos soportados.
type BloodType string

const (
	BloodAPos  BloodType = "A+"
	BloodANeg  BloodType = "A-"
	BloodBPos  BloodType = "B+"
	BloodBNeg  BloodType = "B-"
	BloodABPos BloodType = "AB+"
	BloodABNeg BloodType = "AB-"
	BloodOPos  BloodType = "O+"
	BloodONeg  BloodType = "O-"
)

// Patient representa la ficha demográfica de un paciente.
// El ID es el identificador canónico de la cuenta (P0009); las credenciales
// viven en el identity provider externo, acá sólo datos de ficha.
type Patient struct {
	ID       string
	TenantID string

	FullName  string
	BirthDate *time.Time
	Sex       Sex
	BloodType BloodType

	Phone            string
	Email            string
	EmergencyContact string

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
