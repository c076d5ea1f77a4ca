package demoapp

import (
	"encoding/json"
	"errors"
	"net/http"

	"webtask-bridge/internal/domain"
	"webtask-bridge/internal/infrastructure/logx"
	"webtask-bridge/internal/webapp"

	"go.uber.org/zap"
)

type visitResponse struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

func routes(app *webapp.Application) {
	r := app.Router()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/readyz", readyz)
	r.Post("/visits/{key}", recordVisit)
	r.Get("/visits/{key}", getVisits)
}

func readyz(w http.ResponseWriter, r *http.Request) {
	client, err := RedisFromRequest(r)
	if err != nil || client.Ping(r.Context()).Err() != nil {
		writeError(w, http.StatusServiceUnavailable, "redis not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("READY"))
}

func recordVisit(w http.ResponseWriter, r *http.Request) {
	n, err := CountVisit(r.Context(), r, webapp.Param(r, "key"))
	if err != nil {
		handleErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, visitResponse{Key: webapp.Param(r, "key"), Count: n})
}

func getVisits(w http.ResponseWriter, r *http.Request) {
	key := webapp.Param(r, "key")
	n, err := ReadVisits(r.Context(), r, key)
	if err != nil {
		handleErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, visitResponse{Key: key, Count: n})
}

func handleErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidKey):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	default:
		logx.WithFields(r.Context()).Error("demoapp.handler_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
