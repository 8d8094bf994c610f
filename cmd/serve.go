package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bureau-etl/internal/job"
	"github.com/sells-group/bureau-etl/internal/model"
	"github.com/sells-group/bureau-etl/internal/preset"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the job API for the configuration UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		presets, err := preset.Open(cfg.Job.PresetPath)
		if err != nil {
			return err
		}
		defer presets.Close()
		if err := presets.Migrate(ctx); err != nil {
			return err
		}

		registry := job.NewRegistry()
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           apiRouter(registry, presets),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("serving job API", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func apiRouter(registry *job.Registry, presets *preset.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Post("/api/jobs", func(w http.ResponseWriter, req *http.Request) {
		startJob(w, req, registry)
	})

	r.Get("/api/jobs/{id}", func(w http.ResponseWriter, req *http.Request) {
		h, ok := registry.Get(chi.URLParam(req, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "unknown job")
			return
		}
		progress, result := h.Snapshot()
		writeJSON(w, http.StatusOK, map[string]any{
			"id":       h.ID,
			"progress": progress,
			"result":   result,
		})
	})

	r.Delete("/api/jobs/{id}", func(w http.ResponseWriter, req *http.Request) {
		if !registry.Cancel(chi.URLParam(req, "id")) {
			writeError(w, http.StatusNotFound, "unknown job")
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"cancelled": true})
	})

	r.Get("/api/presets", func(w http.ResponseWriter, req *http.Request) {
		list, err := presets.List(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, list)
	})

	r.Post("/api/presets", func(w http.ResponseWriter, req *http.Request) {
		var p preset.Preset
		if err := json.NewDecoder(req.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid preset body")
			return
		}
		saved, err := presets.Save(req.Context(), p)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, saved)
	})

	r.Delete("/api/presets/{id}", func(w http.ResponseWriter, req *http.Request) {
		if err := presets.Delete(req.Context(), chi.URLParam(req, "id")); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

// startJob launches one job in the background and immediately returns its
// id. The job detaches from the request context; cancellation happens via
// DELETE /api/jobs/{id}.
func startJob(w http.ResponseWriter, req *http.Request, registry *job.Registry) {
	jobID := uuid.NewString()
	jobCtx, cancel := context.WithCancel(context.Background())
	handle := registry.Register(jobID, cancel)

	orch, src, ckpt, err := buildJob(jobCtx, cfg, jobID, handle.SetProgress)
	if err != nil {
		cancel()
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	go func() {
		defer cancel()
		defer src.Close()
		defer ckpt.Close()
		result := orch.Run(jobCtx)
		handle.Complete(result)
	}()

	writeJSON(w, http.StatusAccepted, map[string]any{
		"id":     jobID,
		"status": model.JobStatusQueued,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
