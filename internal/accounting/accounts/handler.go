package accounts

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/payroll-jv/internal/platform/httpx"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	codes, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list account codes", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if codes == nil {
		codes = []AccountCode{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"account_codes": codes})
}
