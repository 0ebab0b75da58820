package auth

// Role distingue el lado del caller (paciente vs médico).
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

// Claims representa la información extraída del token.
// UserID es el identificador canónico de la cuenta (P0009, D0001, ...).
type Claims struct {
	UserID   string
	Role     Role
	Email    string
	TenantID string
}

func (c Claims) IsDoctor() bool  { return c.Role == RoleDoctor }
func (c Claims) IsPatient() bool { return c.Role == RolePatient }
