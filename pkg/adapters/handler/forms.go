package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/knowhub/pkg/core/domain"
	"github.com/wadjakorntonsri/knowhub/pkg/ports"
)

const maxFormMemory = 10 << 20

type FormsHandler struct {
	service ports.PublishService
	logger  *zap.Logger
}

func NewFormsHandler(service ports.PublishService, logger *zap.Logger) *FormsHandler {
	return &FormsHandler{service: service, logger: logger}
}

// Submit pins a multipart form as JSON. Every failure, including a missing
// field, answers with the same opaque 500 body.
func (h *FormsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			h.fail(w, err)
			return
		}
		if err := r.ParseForm(); err != nil {
			h.fail(w, err)
			return
		}
	}

	categories := append([]string{}, r.Form["categories[]"]...)
	categories = append(categories, r.Form["categories"]...)

	res, err := h.service.Publish(r.Context(), domain.FormSubmission{
		Title:      r.FormValue("title"),
		Content:    r.FormValue("content"),
		Slug:       r.FormValue("slug"),
		Collection: r.FormValue("collection"),
		Categories: categories,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *FormsHandler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("Form upload failed", zap.Error(err))
	writeErrorMessage(w, http.StatusInternalServerError, "Internal Server Error")
}
