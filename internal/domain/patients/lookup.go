package patients

import (
	"context"
	"errors"
)

// Exists responde si hay una cuenta de paciente para el id canónico.
// Implementa accessrequests.PatientDirectory sin que ese paquete tenga
// que importar éste (mismo patrón que el resto de los ports).
func (s *Service) Exists(ctx context.Context, patientID string) (bool, error) {
	_, err := s.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
