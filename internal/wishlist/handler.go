package wishlist

import (
	"net/http"

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	spots, err := h.service.List(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if spots == nil {
		spots = []*model.ParkingSpot{}
	}
	if err := httputil.WriteSuccess(w, spots); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Add(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Add", "error", writeErr)
		}
		return
	}
	httputil.WriteNoContent(w)
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Remove(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Remove", "error", writeErr)
		}
		return
	}
	httputil.WriteNoContent(w)
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/wishlist", h.List)
	router.POST("/api/v1/wishlist/:id", h.Add)
	router.DELETE("/api/v1/wishlist/:id", h.Remove)
}
