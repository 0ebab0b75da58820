package accessrequests

import (
	"context"
	"time"
)

// Repository persiste los pedidos de acceso.
//
// Los dos métodos de mutación cargan con las garantías de concurrencia:
//   - Create debe ser atómico respecto de la regla "a lo sumo un pending por
//     (doctor, patient)": ante una carrera, exactamente un caller gana y el
//     resto recibe ErrDuplicatePending (índice único parcial en Postgres,
//     chequeo serializado bajo lock en memoria).
//   - Decide es un compare-and-set: transiciona sólo si el status actual
//     sigue siendo pending; si ya es terminal devuelve ErrAlreadyDecided.
//     Nunca un read-modify-write ciego.
type Repository interface {
	Create(ctx context.Context, r AccessRequest) error
	GetByID(ctx context.Context, id string) (AccessRequest, error)

	// Listados ordenados por RequestedAt descendente (más nuevo primero).
	ListByPatient(ctx context.Context, patientID string) ([]AccessRequest, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]AccessRequest, error)

	Decide(ctx context.Context, id string, to Status, respondedAt time.Time) (AccessRequest, error)

	// HasApproved responde si existe al menos un pedido approved para el par.
	// Lee directo del store: acá no puede haber cache que sirva un resultado
	// viejo después de que un approve haya commiteado.
	HasApproved(ctx context.Context, doctorID, patientID string) (bool, error)
}
