package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"carpark/internal/bookings/service"
	"carpark/pkg/config"
	apperrors "carpark/pkg/errors"
	httputil "carpark/pkg/http"
	"carpark/pkg/logger"
	"carpark/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewHandler(svc service.BookingService, log *logger.Logger) *Handler {
	return &Handler{service: svc, log: log}
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Confirm", "error", writeErr)
		}
		return
	}

	booking, err := h.service.Confirm(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Confirm", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Confirm", "error", err)
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	activeOnly := r.URL.Query().Get("active") == "true"

	bookings, err := h.service.History(r.Context(), activeOnly)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
		}
		return
	}

	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid limit parameter: "+s)); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "List", "error", writeErr)
			}
			return
		}
		n = config.NormalizePaginationLimit(n)
		if len(bookings) > n {
			bookings = bookings[:n]
		}
	}

	if bookings == nil {
		bookings = []model.Booking{}
	}
	if err := httputil.WriteSuccess(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *Handler) Latest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	booking, err := h.service.Latest(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Latest", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Latest", "error", err)
	}
}

func (h *Handler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	view, err := h.service.Availability(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "error", err)
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Confirm)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/latest", h.Latest)
	router.GET("/api/v1/spots/:id/availability", h.Availability)
}
