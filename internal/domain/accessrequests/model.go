package accessrequests

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Decision es el subconjunto de estados válidos como respuesta del paciente.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

func ParseDecision(s string) (Decision, bool) {
	switch Decision(s) {
	case DecisionApproved, DecisionRejected:
		return Decision(s), true
	default:
		return "", false
	}
}

// AccessRequest vincula un médico con un paciente y la decisión de éste.
// Una vez decidido (approved/rejected) el registro es inmutable:
// un nuevo pedido crea un registro nuevo, nunca reabre uno terminal.
type AccessRequest struct {
	ID string

	DoctorID  string // quien pide acceso
	PatientID string // id canónico (P0009)

	Message string

	Status Status

	RequestedAt time.Time
	RespondedAt *time.Time // nil mientras está pending
}

// IsPending indica si el pedido sigue esperando respuesta del paciente.
func (r AccessRequest) IsPending() bool { return r.Status == StatusPending }

// IsTerminal indica si el pedido ya fue decidido.
func (r AccessRequest) IsTerminal() bool { return r.Status != StatusPending }
