package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"bank-ledger-go/internal/ledger"
	"bank-ledger-go/internal/models"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

var errBadBody = errors.New("Invalid request body")

func writeJSON(w http.ResponseWriter, status int, body models.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("Failed to write response", zap.Error(err))
	}
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, models.Response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.Response{Success: false, Error: message})
}

// writeLedgerError maps the engine failure taxonomy onto status codes.
// Anything outside the taxonomy is logged and reported as a generic 500.
func writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInvalidArgument),
		errors.Is(err, ledger.ErrConflict),
		errors.Is(err, ledger.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logFailure(r, "Request failed", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeBody reads a JSON body into v. An empty body leaves v at its zero value.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errBadBody
	}
	return nil
}

func logFailure(r *http.Request, msg string, err error) {
	zap.L().Error(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err))
}
