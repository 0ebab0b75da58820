package records

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"safemed/internal/domain/accessrequests"
	"safemed/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, gate *accessrequests.Gate) {
	r.Route("/patients/{patientID}/records", func(rr chi.Router) {
		// Carga de datos: sólo el propio paciente
		rr.Post("/", createEntryHandler(svc))

		// Lecturas: el propio paciente, o un médico con acceso aprobado.
		// Todas pasan por el gate antes de tocar el store.
		rr.Get("/", listEntriesHandler(svc, gate))
		rr.Get("/{entryID}", getEntryHandler(svc, gate))

		// Anular una entrada (no se borra)
		rr.Post("/{entryID}/void", voidEntryHandler(svc))
	})
}

type createEntryRequest struct {
	Type       EntryType `json:"type"`
	OccurredAt string    `json:"occurred_at"` // RFC3339
	Title      string    `json:"title"`
	Notes      string    `json:"notes"`
	Source     Source    `json:"source"`
	Details    Details   `json:"details"`
}

type entryResponse struct {
	ID         string      `json:"id"`
	PatientID  string      `json:"patient_id"`
	Type       EntryType   `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	RecordedAt time.Time   `json:"recorded_at"`
	Title      string      `json:"title"`
	Notes      string      `json:"notes,omitempty"`
	Details    Details     `json:"details,omitempty"`
	ActorType  ActorType   `json:"actor_type"`
	ActorID    string      `json:"actor_id"`
	Source     Source      `json:"source"`
	Status     EntryStatus `json:"status"`
}

// createEntryHandler godoc
// @Summary Cargar una entrada en la historia clínica
// @Description El propio paciente carga una entrada (medicación, vacuna, alergia, condición, documento o nota). Los tipos estructurados requieren su bloque details correspondiente.
// @Tags records
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param X-Debug-Role header string false "Solo en modo dev, rol del usuario (doctor|patient)"
// @Param Authorization header string false "Bearer token en producción"
// @Param patientID path string true "ID canónico del paciente"
// @Param payload body createEntryRequest true "Entrada; occurred_at en RFC3339"
// @Success 201 {object} entryResponse
// @Failure 400 {string} string "invalid json / occurred_at inválido / details inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /patients/{patientID}/records [post]
func createEntryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		patientID := accessrequests.NormalizePatientID(chi.URLParam(r, "patientID"))

		// Escrituras: nunca del lado médico. El consentimiento gatea lecturas.
		if !claims.IsPatient() || claims.UserID != patientID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req createEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		t, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			http.Error(w, "occurred_at must be RFC3339", http.StatusBadRequest)
			return
		}

		e, err := svc.Create(r.Context(), patientID, Actor{
			Type: ActorTypePatient,
			ID:   claims.UserID,
		}, CreateInput{
			Type:       req.Type,
			OccurredAt: t,
			Title:      req.Title,
			Notes:      req.Notes,
			Details:    req.Details,
			Source:     req.Source,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toEntryResponse(e))
	}
}

// listEntriesHandler godoc
// @Summary Listar la historia clínica de un paciente
// @Description El propio paciente siempre puede. Un médico necesita un pedido de acceso aprobado; sin aprobación la respuesta es 403. Permite filtrar por tipos, rango de fechas y texto.
// @Tags records
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param X-Debug-Role header string false "Solo en modo dev, rol del usuario (doctor|patient)"
// @Param Authorization header string false "Bearer token en producción"
// @Param patientID path string true "ID canónico del paciente"
// @Param limit query int false "Máximo de entradas a devolver (1-200). Por defecto 50"
// @Param types query string false "Lista CSV de tipos a incluir (ej: MEDICATION,VACCINATION)"
// @Param from query string false "Fecha/hora mínima occurred_at (RFC3339)"
// @Param to query string false "Fecha/hora máxima occurred_at (RFC3339)"
// @Param q query string false "Texto de búsqueda libre en título/notas"
// @Success 200 {array} entryResponse
// @Failure 400 {string} string "Parámetros de filtro inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 500 {string} string "internal error"
// @Router /patients/{patientID}/records [get]
func listEntriesHandler(svc *Service, gate *accessrequests.Gate) http.HandlerFunc {
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

		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListByPatient(r.Context(), accessrequests.NormalizePatientID(patientID), filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]entryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEntryResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getEntryHandler godoc
// @Summary Ver una entrada puntual
// @Description Mismo gate que el listado: el propio paciente o un médico con acceso aprobado.
// @Tags records
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param X-Debug-Role header string false "Solo en modo dev, rol del usuario (doctor|patient)"
// @Param Authorization header string false "Bearer token en producción"
// @Param patientID path string true "ID canónico del paciente"
// @Param entryID path string true "ID de la entrada"
// @Success 200 {object} entryResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "not found"
// @Router /patients/{patientID}/records/{entryID} [get]
func getEntryHandler(svc *Service, gate *accessrequests.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		patientID := accessrequests.NormalizePatientID(chi.URLParam(r, "patientID"))

		if err := gate.AllowRead(r.Context(), claims, patientID); err != nil {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		e, err := svc.GetByID(r.Context(), chi.URLParam(r, "entryID"))
		if err != nil || e.PatientID != patientID {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toEntryResponse(e))
	}
}

// voidEntryHandler godoc
// @Summary Anular (void) una entrada
// @Description Marca la entrada como voided. Sólo el propio paciente; la entrada no se borra.
// @Tags records
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param X-Debug-Role header string false "Solo en modo dev, rol del usuario (doctor|patient)"
// @Param Authorization header string false "Bearer token en producción"
// @Param patientID path string true "ID canónico del paciente"
// @Param entryID path string true "ID de la entrada"
// @Success 200 {object} entryResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "not found"
// @Router /patients/{patientID}/records/{entryID}/void [post]
func voidEntryHandler(svc *Service) http.HandlerFunc {
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

		entryID := chi.URLParam(r, "entryID")

		existing, err := svc.GetByID(r.Context(), entryID)
		if err != nil || existing.PatientID != patientID {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		e, err := svc.Void(r.Context(), entryID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toEntryResponse(e))
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()

	filter := ListFilter{
		Query: strings.TrimSpace(q.Get("q")),
		Limit: 50,
	}

	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			return ListFilter{}, errInvalidFilter("limit must be 1-200")
		}
		filter.Limit = n
	}

	if raw := strings.TrimSpace(q.Get("types")); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			t := EntryType(strings.TrimSpace(p))
			if t == "" {
				continue
			}
			if !ValidEntryType(t) {
				return ListFilter{}, errInvalidFilter("unknown type: " + string(t))
			}
			filter.Types = append(filter.Types, t)
		}
	}

	if raw := strings.TrimSpace(q.Get("from")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return ListFilter{}, errInvalidFilter("from must be RFC3339")
		}
		filter.From = &t
	}

	if raw := strings.TrimSpace(q.Get("to")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return ListFilter{}, errInvalidFilter("to must be RFC3339")
		}
		filter.To = &t
	}

	return filter, nil
}

type errInvalidFilter string

func (e errInvalidFilter) Error() string { return string(e) }

func toEntryResponse(e RecordEntry) entryResponse {
	return entryResponse{
		ID:         e.ID,
		PatientID:  e.PatientID,
		Type:       e.Type,
		OccurredAt: e.OccurredAt,
		RecordedAt: e.RecordedAt,
		Title:      e.Title,
		Notes:      e.Notes,
		Details:    e.Details,
		ActorType:  e.Actor.Type,
		ActorID:    e.Actor.ID,
		Source:     e.Source,
		Status:     e.Status,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
