package main

import (
	"net/http"
	"os"

	"safemed/internal/adapters/auth/idp"
	"safemed/internal/adapters/directory/registry"
	"safemed/internal/adapters/storage/postgres"
	"safemed/internal/platform/config"
	"safemed/internal/platform/logger"
	"safemed/internal/ports/auth"
	"safemed/internal/router"
)

func main() {
	cfg, err := config.Load(os.Getenv("SAFEMED_CONFIG"))
	if err != nil {
		// todavía no hay logger configurado
		panic(err)
	}

	log := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		App:    "safemed-api",
	})

	// Verificación de tokens: HS256 local si hay secreto, idp remoto si
	// hay base_url, y nil (modo dev con headers de debug) en otro caso.
	var verifier auth.AuthVerifier
	switch {
	case cfg.IDP.JWTSecret != "":
		verifier = idp.NewLocalVerifier(cfg.IDP.JWTSecret)
		log.Info().Msg("token verification: local jwt")
	case cfg.IDP.BaseURL != "":
		verifier = idp.NewVerifier(idp.NewClient(idp.Config{
			BaseURL: cfg.IDP.BaseURL,
			APIKey:  cfg.IDP.APIKey,
		}))
		log.Info().Str("idp", cfg.IDP.BaseURL).Msg("token verification: remote idp")
	default:
		log.Warn().Msg("no idp configured, running in dev mode (debug headers)")
	}

	opts := router.Options{
		AuthVerifier: verifier,
		Logger:       log,
		Metrics:      cfg.Metrics.Enabled,
	}

	if cfg.Database.DSN != "" {
		db, err := postgres.Open(cfg.Database.DSN)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot open database")
		}
		defer db.Close()
		opts.DB = db
		log.Info().Msg("storage: postgres")
	} else {
		log.Info().Msg("storage: in-memory")
	}

	if cfg.Registry.BaseURL != "" {
		opts.RegistryClient = registry.NewClient(registry.Config{
			BaseURL: cfg.Registry.BaseURL,
			APIKey:  cfg.Registry.APIKey,
		})
		log.Info().Str("registry", cfg.Registry.BaseURL).Msg("patient directory: external registry")
	}

	r := router.NewRouter(opts)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}
