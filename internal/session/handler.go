package session

import (
	"encoding/json"
	"net/http"

	apperrors "carpark/pkg/errors"
	httputil "carpark/pkg/http"
	"carpark/pkg/logger"
	"carpark/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	service Service
	log     *logger.Logger
}

func NewHandler(service Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	profile, err := h.service.Profile(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "error", err)
	}
}

func (h *Handler) Put(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var profile model.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Put", "error", writeErr)
		}
		return
	}

	if err := h.service.Save(r.Context(), &profile); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Put", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("failed to write success response", "handler", "Put", "error", err)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.service.Clear(r.Context()); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "error", writeErr)
		}
		return
	}
	httputil.WriteNoContent(w)
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/profile", h.Get)
	router.PUT("/api/v1/profile", h.Put)
	router.DELETE("/api/v1/profile", h.Delete)
}
