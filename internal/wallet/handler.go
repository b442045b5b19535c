package wallet

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "carpark/pkg/errors"
	httputil "carpark/pkg/http"
	"carpark/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	service Service
	log     *logger.Logger
}

func NewHandler(service Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

type topUpRequest struct {
	Amount float64 `json:"amount"`
	Note   string  `json:"note"`
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	wallet, err := h.service.Wallet(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.Storage("Failed to load wallet", err)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, wallet); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "error", err)
	}
}

func (h *Handler) TopUp(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req topUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Invalid request body")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "TopUp", "error", writeErr)
		}
		return
	}

	wallet, err := h.service.Credit(r.Context(), req.Amount, req.Note)
	if err != nil {
		if writeErr := httputil.WriteError(w, mapError(err)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "TopUp", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, wallet); err != nil {
		h.log.Error("failed to write success response", "handler", "TopUp", "error", err)
	}
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/wallet", h.Get)
	router.POST("/api/v1/wallet/topup", h.TopUp)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return apperrors.InvalidInput("Amount must be positive")
	case errors.Is(err, ErrInsufficientFunds):
		return apperrors.InsufficientFunds("Insufficient wallet balance")
	default:
		return apperrors.Storage("Wallet operation failed", err)
	}
}
