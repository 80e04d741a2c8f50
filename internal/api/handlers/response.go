package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/lofoneh/usersvc/internal/api/middleware"
	"github.com/lofoneh/usersvc/internal/api/types"
	"github.com/lofoneh/usersvc/pkg/logger"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := types.StatusFromError(err)
	fields := []zap.Field{
		zap.String("id", middleware.GetRequestID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.L().Error("request failed", fields...)
	} else {
		logger.L().Info("request rejected", fields...)
	}
	writeJSON(w, status, types.FromAppError(err))
}

func writeErrorStr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}
