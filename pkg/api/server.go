// Package api is the HTTP layer over the roster codecs: per-session
// editing of uploaded profiles.dat buffers, snapshot backups, and face
// code conversion endpoints.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/calradia/rosterkit/pkg/session"
)

// NewRouter wires every route onto a chi router. Split from StartServer
// so tests can drive the handlers through httptest.
func NewRouter(server *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	m := server.metrics

	// Unprotected: scraping and liveness.
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", m.InstrumentHandler("GET", "/health", server.handleHealth))

	r.Route("/api", func(r chi.Router) {
		if server.config.APIKey != "" {
			r.Use(apiKeyMiddleware(server.config.APIKey, server.metrics))
		}

		r.Get("/status", m.InstrumentHandler("GET", "/api/status", server.handleStatus))

		r.Post("/sessions", m.InstrumentHandler("POST", "/api/sessions", server.handleCreateSession))
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", m.InstrumentHandler("GET", "/api/sessions/{id}", server.handleGetSession))
			r.Delete("/", m.InstrumentHandler("DELETE", "/api/sessions/{id}", server.handleDeleteSession))

			r.Get("/characters", m.InstrumentHandler("GET", "/api/sessions/{id}/characters", server.handleListCharacters))
			r.Get("/characters/{index}", m.InstrumentHandler("GET", "/api/sessions/{id}/characters/{index}", server.handleGetCharacter))
			r.Delete("/characters/{index}", m.InstrumentHandler("DELETE", "/api/sessions/{id}/characters/{index}", server.handleDeleteCharacter))
			r.Post("/characters/generate", m.InstrumentHandler("POST", "/api/sessions/{id}/characters/generate", server.handleGenerateCharacters))
			r.Get("/characters/{index}/facecode", m.InstrumentHandler("GET", "/api/sessions/{id}/characters/{index}/facecode", server.handleGetCharacterFaceCode))
			r.Put("/characters/{index}/facecode", m.InstrumentHandler("PUT", "/api/sessions/{id}/characters/{index}/facecode", server.handleApplyCharacterFaceCode))

			r.Post("/files/upload", m.InstrumentHandler("POST", "/api/sessions/{id}/files/upload", server.handleUpload))
			r.Get("/files/download", m.InstrumentHandler("GET", "/api/sessions/{id}/files/download", server.handleDownload))
			r.Post("/files/backup", m.InstrumentHandler("POST", "/api/sessions/{id}/files/backup", server.handleCreateBackup))
			r.Get("/files/backups", m.InstrumentHandler("GET", "/api/sessions/{id}/files/backups", server.handleListBackups))
			r.Post("/files/restore", m.InstrumentHandler("POST", "/api/sessions/{id}/files/restore", server.handleRestoreBackup))
		})

		r.Get("/facecodes/{code}/decode", m.InstrumentHandler("GET", "/api/facecodes/{code}/decode", server.handleDecodeFaceCode))
		r.Get("/facecodes/{code}/format", m.InstrumentHandler("GET", "/api/facecodes/{code}/format", server.handleFormatFaceCode))
		r.Post("/facecodes/encode", m.InstrumentHandler("POST", "/api/facecodes/encode", server.handleEncodeFaceCode))
		r.Post("/facecodes/validate", m.InstrumentHandler("POST", "/api/facecodes/validate", server.handleValidateFaceCode))
	})

	return r
}

// StartServer opens the session store, starts the idle sweep and serves
// until the listener fails.
func StartServer(ctx context.Context, config ServerConfig, log zerolog.Logger) error {
	metrics := NewMetrics()

	sessions, err := session.New(session.Config{
		DataDir: config.DataDir,
		Timeout: config.SessionTimeout,
		Logger:  log,
	})
	if err != nil {
		return err
	}
	defer sessions.Close()

	sweep := config.SweepInterval
	if sweep <= 0 {
		sweep = 5 * time.Minute
	}
	sessions.StartSweeper(ctx, sweep, func(evicted int) {
		metrics.RecordEvictions(evicted)
		metrics.SetActiveSessions(sessions.Len())
	})

	server := NewServer(sessions, config, metrics, log)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	log.Info().Str("addr", addr).Msg("starting rosterkit API server")
	return http.ListenAndServe(addr, NewRouter(server))
}
