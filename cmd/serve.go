package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/masha-osint/masha/internal/model"
	"github.com/masha-osint/masha/internal/pipeline"
	"github.com/masha-osint/masha/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the investigation API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		inv, registry, err := newInvestigation(ctx)
		if err != nil {
			return err
		}
		if registry != nil {
			defer registry.Close()
		}

		port := cfg.Server.Port
		if servePort != 0 {
			port = servePort
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(inv, registry),
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Error("server shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("server listening", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

type investigationRequest struct {
	Target string `json:"target"`
	Mode   string `json:"mode"`
}

func newRouter(inv *pipeline.Investigation, registry store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/investigations", func(w http.ResponseWriter, req *http.Request) {
		var body investigationRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if strings.TrimSpace(body.Target) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty target"})
			return
		}
		mode := model.RunMode(body.Mode)
		if body.Mode == "" {
			mode = model.ModeFull
		}
		if !mode.Valid() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid mode"})
			return
		}

		id := uuid.NewString()
		go func() {
			log := zap.L().With(zap.String("investigation_id", id))
			result, err := inv.Run(context.Background(), body.Target, mode)
			if err != nil {
				log.Error("investigation failed", zap.Error(err))
				return
			}
			log.Info("investigation complete",
				zap.String("report", result.ReportPath),
				zap.Int("confidence", result.Artifact.Dossier.ConfidenceScore))
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{
			"id":     id,
			"status": "accepted",
		})
	})

	r.Get("/api/registry/stats", func(w http.ResponseWriter, req *http.Request) {
		if registry == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no local registry configured"})
			return
		}
		stats, err := registry.Stats(req.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (defaults to server.port from config)")
	rootCmd.AddCommand(serveCmd)
}
