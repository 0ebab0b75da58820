package accessrequests

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"safemed/internal/middleware"
	"safemed/internal/platform/monitoring"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/access-requests", func(ar chi.Router) {
		// Lado médico
		ar.Post("/", createRequestHandler(svc))

		// Listado según rol del caller (?role=doctor|patient)
		ar.Get("/", listRequestsHandler(svc))

		// Lado paciente
		ar.Put("/{requestID}/approve", respondHandler(svc, DecisionApproved))
		ar.Put("/{requestID}/reject", respondHandler(svc, DecisionRejected))
	})
}

type createRequestRequest struct {
	PatientID string `json:"patient_id"`
	Message   string `json:"message"`
}

type accessRequestResponse struct {
	ID          string     `json:"id"`
	DoctorID    string     `json:"doctor_id"`
	PatientID   string     `json:"patient_id"`
	Message     string     `json:"message,omitempty"`
	Status      Status     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// createRequestHandler godoc
// @Summary Pedir acceso a la historia de un paciente
// @Description Un médico autenticado pide acceso a la historia clínica de un paciente. El patient_id se acepta como texto libre y se normaliza (p9 => P0009). Si ya existe un pedido pending para el mismo par médico/paciente devuelve 409 con "request already pending": no reintentar, revisar los pedidos existentes.
// @Tags access-requests
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param X-Debug-Role header string false "Solo en modo dev, rol del usuario (doctor|patient)"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createRequestRequest true "patient_id (texto libre) y mensaje opcional"
// @Success 201 {object} accessRequestResponse
// @Failure 400 {string} string "invalid json / patient_id required"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "patient not found"
// @Failure 409 {string} string "request already pending"
// @Router /access-requests [post]
func createRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !claims.IsDoctor() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req createRequestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.PatientID) == "" {
			http.Error(w, "patient_id required", http.StatusBadRequest)
			return
		}

		ar, err := svc.CreateRequest(r.Context(), CreateInput{
			DoctorID:     claims.UserID,
			RawPatientID: req.PatientID,
			Message:      req.Message,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "patient not found", http.StatusNotFound)
			case ErrDuplicatePending:
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toAccessRequestResponse(ar))
	}
}

// listRequestsHandler godoc
// @Summary Listar pedidos de acceso del caller
// @Description Lista los pedidos de acceso según el rol: un médico ve los que creó, un paciente ve los que lo referencian. Orden: más nuevos primero. El query param role es opcional; si viene, debe coincidir con el rol del token.
// @Tags access-requests
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param X-Debug-Role header string false "Solo en modo dev, rol del usuario (doctor|patient)"
// @Param Authorization header string false "Bearer token en producción"
// @Param role query string false "doctor|patient; debe coincidir con el rol del caller"
// @Success 200 {array} accessRequestResponse
// @Failure 400 {string} string "role mismatch"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /access-requests [get]
func listRequestsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// role es redundante con el token, pero si lo mandan tiene que coincidir.
		if q := strings.TrimSpace(r.URL.Query().Get("role")); q != "" && q != string(claims.Role) {
			http.Error(w, "role mismatch", http.StatusBadRequest)
			return
		}

		var (
			items []AccessRequest
			err   error
		)
		switch {
		case claims.IsDoctor():
			items, err = svc.ListForDoctor(r.Context(), claims.UserID)
		case claims.IsPatient():
			items, err = svc.ListForPatient(r.Context(), claims.UserID)
		default:
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]accessRequestResponse, 0, len(items))
		for _, ar := range items {
			out = append(out, toAccessRequestResponse(ar))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// respondHandler godoc
// @Summary Aprobar o rechazar un pedido de acceso
// @Description El paciente referenciado decide sobre un pedido pending. Una vez decidido, el pedido es inmutable: responder de nuevo devuelve 409 con "request already decided" (existe pero ya fue decidido, distinto de 404). Un doble tap de approve termina acá, no en un error genérico.
// @Tags access-requests
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param X-Debug-Role header string false "Solo en modo dev, rol del usuario (doctor|patient)"
// @Param Authorization header string false "Bearer token en producción"
// @Param requestID path string true "ID del pedido"
// @Success 200 {object} accessRequestResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "not found"
// @Failure 409 {string} string "request already decided"
// @Router /access-requests/{requestID}/approve [put]
func respondHandler(svc *Service, decision Decision) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		requestID := chi.URLParam(r, "requestID")

		// Chequeo de borde: sólo el paciente referenciado puede responder.
		// La carrera entre dos respond simultáneos la resuelve el repo (CAS),
		// acá sólo validamos identidad.
		existing, err := svc.GetByID(r.Context(), requestID)
		if err != nil {
			switch err {
			case ErrNotFound:
				http.Error(w, "not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}
		if !claims.IsPatient() || existing.PatientID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		ar, err := svc.Respond(r.Context(), requestID, decision)
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "not found", http.StatusNotFound)
			case ErrAlreadyDecided:
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		monitoring.CountDecision(string(decision))
		writeJSON(w, http.StatusOK, toAccessRequestResponse(ar))
	}
}

func toAccessRequestResponse(ar AccessRequest) accessRequestResponse {
	return accessRequestResponse{
		ID:          ar.ID,
		DoctorID:    ar.DoctorID,
		PatientID:   ar.PatientID,
		Message:     ar.Message,
		Status:      ar.Status,
		RequestedAt: ar.RequestedAt,
		RespondedAt: ar.RespondedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
