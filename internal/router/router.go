package router

import (
	"database/sql"
	"net/http"

	"safemed/internal/adapters/directory/registry"
	mem "safemed/internal/adapters/storage/memory"
	pg "safemed/internal/adapters/storage/postgres"
	"safemed/internal/domain/accessrequests"
	"safemed/internal/domain/patients"
	"safemed/internal/domain/records"
	"safemed/internal/middleware"
	"safemed/internal/platform/monitoring"
	"safemed/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "safemed/docs" // registro swagger
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: cliente del registro central de pacientes. Si es nil
	// (o no está configurado) se usan las fichas locales como directorio.
	RegistryClient *registry.Client

	Logger zerolog.Logger

	Metrics bool
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(opts.Logger))
	if opts.Metrics {
		r.Use(monitoring.HTTPMiddleware)
	}

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.Metrics {
		r.Handle("/metrics", monitoring.Handler())
	}

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		patientsRepo patients.Repository
		requestsRepo accessrequests.Repository
		recordsRepo  records.Repository
	)

	if opts.DB != nil {
		patientsRepo = pg.NewPatientsRepo(opts.DB)
		requestsRepo = pg.NewAccessRequestsRepo(opts.DB)
		recordsRepo = pg.NewRecordsRepo(opts.DB)
	} else {
		patientsRepo = mem.NewPatientsRepo()
		requestsRepo = mem.NewAccessRequestsRepo()
		recordsRepo = mem.NewRecordsRepo()
	}

	// Services por módulo
	patientsSvc := patients.NewService(patientsRepo)

	var dir accessrequests.PatientDirectory = patientsSvc
	if opts.RegistryClient != nil {
		dir = registry.NewDirectory(opts.RegistryClient, patientsSvc)
	}

	requestsSvc := accessrequests.NewService(requestsRepo, dir)
	recordsSvc := records.NewService(recordsRepo)

	// Toda lectura de datos de paciente pasa por el gate
	gate := accessrequests.NewGate(requestsSvc)

	// Rutas por módulo
	patients.RegisterRoutes(r, patientsSvc, gate)
	accessrequests.RegisterRoutes(r, requestsSvc)
	records.RegisterRoutes(r, recordsSvc, gate)

	return r
}
