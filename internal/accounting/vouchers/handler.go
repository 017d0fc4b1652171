package vouchers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/mappings"
	"github.com/odyssey-erp/payroll-jv/internal/accounting/shared"
	"github.com/odyssey-erp/payroll-jv/internal/platform/httpx"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodQuery(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	preview, err := h.service.Preview(r.Context(), year, month)
	if err != nil {
		h.fail(w, "preview vouchers", err)
		return
	}
	httpx.JSON(w, http.StatusOK, preview)
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if req.CreatedBy == "" {
		req.CreatedBy = r.Header.Get(mappings.ActorHeader)
	}
	result, err := h.service.Generate(r.Context(), req)
	if err != nil {
		h.fail(w, "generate vouchers", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodQuery(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	check, err := h.service.Check(r.Context(), year, month)
	if err != nil {
		h.fail(w, "check vouchers", err)
		return
	}
	httpx.JSON(w, http.StatusOK, check)
}

func (h *Handler) Entry(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, shared.ErrJournalNotFound)
		return
	}
	entry, err := h.service.Entry(r.Context(), id)
	if err != nil {
		h.fail(w, "get voucher entry", err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

func periodQuery(r *http.Request) (int, int, error) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: year must be a number", shared.ErrInvalidPeriod)
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month must be a number", shared.ErrInvalidPeriod)
	}
	return year, month, nil
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if httpx.StatusFor(err) == http.StatusInternalServerError {
		h.logger.Error(op, slog.Any("error", err))
	} else {
		h.logger.Warn(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
