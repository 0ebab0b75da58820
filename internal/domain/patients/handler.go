package patients

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"safemed/internal/domain/accessrequests"
	"safemed/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, gate *accessrequests.Gate) {
	r.Route("/patients", func(pr chi.Router) {
		// El paciente da de alta su propia ficha
		pr.Post("/", createPatientHandler(svc))

		// Búsqueda por id tipeado (lado médico, pre-consentimiento:
		// devuelve sólo id + nombre, nunca datos de ficha)
		pr.Get("/search", searchPatientHandler(svc))

		// Ficha completa (el propio paciente, o un médico con acceso aprobado)
		pr.Get("/{patientID}", getPatientHandler(svc, gate))

		// Actualizar ficha (sólo el propio paciente)
		pr.Patch("/{patientID}", updatePatientHandler(svc))
	})
}

type createPatientRequest struct {
	FullName         string `json:"full_name"`
	BirthDate        string `json:"birth_date"` // YYYY-MM-DD opcional
	Sex              string `json:"sex"`
	BloodType        string `json:"blood_type"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	EmergencyContact string `json:"emergency_contact"`
	Notes            string `json:"notes"`
}

type patientResponse struct {
	ID               string     `json:"id"`
	TenantID         string     `json:"tenant_id,omitempty"`
	FullName         string     `json:"full_name"`
	BirthDate        *time.Time `json:"birth_date,omitempty"`
	Sex              Sex        `json:"sex,omitempty"`
	BloodType        BloodType  `json:"blood_type,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Email            string     `json:"email,omitempty"`
	EmergencyContact string     `json:"emergency_contact,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type patientSummaryResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

type updatePatientRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	FullName         *string `json:"full_name"`
	Sex              *string `json:"sex"`
	BloodType        *string `json:"blood_type"`
	Phone            *string `json:"phone"`
	Email            *string `json:"email"`
	EmergencyContact *string `json:"emergency_contact"`
	Notes            *string `json:"notes"`
}

// createPatientHandler godoc
// @Summary Dar de alta la ficha del paciente autenticado
// @Description Crea la ficha demográfica del paciente del token. El id de la ficha sale de las claims, no del body.
// @Tags patients
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param X-Debug-Role header string false "Solo en modo dev, rol del usuario (doctor|patient)"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body createPatientRequest true "Datos de la ficha; birth_date en YYYY-MM-DD"
// @Success 201 {object} patientResponse
// @Failure 400 {string} string "invalid json / full_name required"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "already exists"
// @Router /patients [post]
func createPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !claims.IsPatient() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req createPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var birth *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", strings.TrimSpace(req.BirthDate))
			if err != nil {
				http.Error(w, "birth_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			birth = &t
		}

		p, err := svc.Create(r.Context(), CreateInput{
			ID:               claims.UserID,
			TenantID:         claims.TenantID,
			FullName:         req.FullName,
			BirthDate:        birth,
			Sex:              req.Sex,
			BloodType:        req.BloodType,
			Phone:            req.Phone,
			Email:            req.Email,
			EmergencyContact: req.EmergencyContact,
			Notes:            req.Notes,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrAlreadyExists:
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toPatientResponse(p))
	}
}

// searchPatientHandler godoc
// @Summary Buscar paciente por id tipeado
// @Description Lado médico: resuelve un id tipeado a mano ("p9", "P009") a la cuenta canónica. Devuelve sólo id y nombre; la ficha completa requiere un pedido de acceso aprobado.
// @Tags patients
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param X-Debug-Role header string false "Solo en modo dev, rol del usuario (doctor|patient)"
// @Param Authorization header string false "Bearer token en producción"
// @Param q query string true "Id de paciente, texto libre"
// @Success 200 {object} patientSummaryResponse
// @Failure 400 {string} string "q required"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "patient not found"
// @Router /patients/search [get]
func searchPatientHandler(svc *Service) http.HandlerFunc {
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

		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			http.Error(w, "q required", http.StatusBadRequest)
			return
		}

		p, err := svc.GetByID(r.Context(), q)
		if err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, patientSummaryResponse{
			ID:       p.ID,
			FullName: p.FullName,
		})
	}
}

// getPatientHandler godoc
// @Summary Ver ficha de un paciente
// @Description El propio paciente siempre puede ver su ficha. Un médico necesita un pedido de acceso aprobado; si no lo tiene, la respuesta es 403 (nunca un 404/500 genérico).
// @Tags patients
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param X-Debug-Role header string false "Solo en modo dev, rol del usuario (doctor|patient)"
// @Param Authorization header string false "Bearer token en producción"
// @Param patientID path string true "ID canónico del paciente"
// @Success 200 {object} patientResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "patient not found"
// @Router /patients/{patientID} [get]
func getPatientHandler(svc *Service, gate *accessrequests.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		patientID := chi.URLParam(r, "patientID")

		if err := gate.AllowRead(r.Context(), claims, patientID); err != nil {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		p, err := svc.GetByID(r.Context(), patientID)
		if err != nil {
			http.Error(w, "patient not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

// updatePatientHandler godoc
// @Summary Actualizar ficha del paciente
// @Description PATCH parcial de la ficha demográfica. Sólo el propio paciente.
// @Tags patients
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param X-Debug-Role header string false "Solo en modo dev, rol del usuario (doctor|patient)"
// @Param Authorization header string false "Bearer token en producción"
// @Param patientID path string true "ID canónico del paciente"
// @Param payload body updatePatientRequest true "Campos a tocar; los ausentes no cambian"
// @Success 200 {object} patientResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "patient not found"
// @Router /patients/{patientID} [patch]
func updatePatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		patientID := accessrequests.NormalizePatientID(chi.URLParam(r, "patientID"))
		if !claims.IsPatient() || claims.UserID != patientID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req updatePatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Update(r.Context(), patientID, UpdateInput{
			FullName:         req.FullName,
			Sex:              req.Sex,
			BloodType:        req.BloodType,
			Phone:            req.Phone,
			Email:            req.Email,
			EmergencyContact: req.EmergencyContact,
			Notes:            req.Notes,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			case ErrNotFound:
				http.Error(w, "patient not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

func toPatientResponse(p Patient) patientResponse {
	return patientResponse{
		ID:               p.ID,
		TenantID:         p.TenantID,
		FullName:         p.FullName,
		BirthDate:        p.BirthDate,
		Sex:              p.Sex,
		BloodType:        p.BloodType,
		Phone:            p.Phone,
		Email:            p.Email,
		EmergencyContact: p.EmergencyContact,
		Notes:            p.Notes,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
