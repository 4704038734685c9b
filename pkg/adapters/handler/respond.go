package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps domain errors onto status codes. Unknown errors are
// logged and reported as 500 without detail.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		pe *domain.ParseError
		nf *domain.NotFoundError
		ue *domain.UpstreamError
	)
	switch {
	case errors.As(err, &pe), errors.Is(err, domain.ErrInvalidInput):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &nf):
		writeErrorMessage(w, http.StatusNotFound, nf.Error())
	case errors.As(err, &ue):
		logger.Warn("Upstream failure", zap.Error(err))
		writeErrorMessage(w, http.StatusBadGateway, "upstream service failed")
	default:
		logger.Error("Request failed", zap.Error(err))
		writeErrorMessage(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
