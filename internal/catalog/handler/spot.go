package handler

import (
	"net/http"

	"carpark/internal/catalog/service"
	httputil "carpark/pkg/http"
	"carpark/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	service service.SpotService
	log     *logger.Logger
}

func NewHandler(svc service.SpotService, log *logger.Logger) *Handler {
	return &Handler{service: svc, log: log}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	spots, err := h.service.List(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, spots); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	spot, err := h.service.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, spot); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "error", err)
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/spots", h.List)
	router.GET("/api/v1/spots/:id", h.Get)
}
