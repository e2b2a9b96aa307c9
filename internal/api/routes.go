package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))
	r.Post("/process-video", processVideoHandler(cfg))
	r.Get("/status/{jobID}", statusHandler(cfg))
	r.Get("/clips/*", clipHandler(cfg))
	r.Get("/history/{userID}", historyHandler(cfg))

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: uptime,
		})
	}
}

// processVideoHandler registers a job and returns its id immediately. Only
// malformed input fails here; every downstream failure surfaces through the
// status endpoint.
func processVideoHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProcessVideoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if !isValidVideoURL(req.URL) {
			WriteError(w, http.StatusBadRequest, "a valid http(s) video url is required", "BAD_REQUEST")
			return
		}

		jobID := cfg.Processor.Submit(req.URL, clipsOptions(req.Options))
		WriteJSON(w, http.StatusOK, ProcessVideoResponse{JobID: jobID})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "jobID")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "job id required", "BAD_REQUEST")
			return
		}

		job, ok := cfg.Processor.Status(id)
		if !ok {
			WriteError(w, http.StatusNotFound, "job not found", "NOT_FOUND")
			return
		}

		WriteJSON(w, http.StatusOK, JobToStatusResponse(job))
	}
}

func clipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := chi.URLParam(r, "*")
		if err := cfg.Artifacts.ServeArtifact(w, r, ref); err != nil {
			cfg.Logger.Error("artifact serve error", "ref", ref, "error", err)
		}
	}
}

func historyHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			WriteError(w, http.StatusBadRequest, "user id required", "BAD_REQUEST")
			return
		}

		entries, err := cfg.History.ListByUser(r.Context(), userID, 50)
		if err != nil {
			cfg.Logger.Error("failed to list history", "user_id", userID, "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to list history", "INTERNAL_ERROR")
			return
		}

		resp := HistoryResponse{Entries: make([]HistoryEntryResponse, len(entries))}
		for i, e := range entries {
			resp.Entries[i] = HistoryToResponse(e)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func isValidVideoURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
