package accessrequests

import (
	"context"

	"safemed/internal/ports/auth"
)

// Gate concentra la regla de lectura de historias clínicas en un solo lugar.
// Todo endpoint que devuelva datos de un paciente pasa por acá antes de
// tocar el store de historias; un handler que saltee el gate es un bug.
type Gate struct {
	svc *Service
}

func NewGate(svc *Service) *Gate {
	return &Gate{svc: svc}
}

// AllowRead decide si el caller puede leer la historia de patientID:
//   - el propio paciente siempre puede,
//   - un médico sólo con un pedido approved vigente,
//   - cualquier otro caso es ErrForbidden (nunca un 404/500 genérico).
func (g *Gate) AllowRead(ctx context.Context, claims auth.Claims, patientID string) error {
	patientID = NormalizePatientID(patientID)
	if patientID == "" {
		return ErrInvalidInput
	}

	if claims.IsPatient() && claims.UserID == patientID {
		return nil
	}

	if claims.IsDoctor() {
		ok, err := g.svc.IsAuthorized(ctx, claims.UserID, patientID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}

	return ErrForbidden
}
