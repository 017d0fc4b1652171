package mappings

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/shared"
	"github.com/odyssey-erp/payroll-jv/internal/platform/httpx"
)

// ActorHeader carries the acting user id set by the upstream gateway.
const ActorHeader = "X-Actor"

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{
		VoucherType: VoucherType(q.Get("voucher_type")),
		LocationID:  q.Get("location_id"),
	}
	if raw := q.Get("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "is_active must be true or false")
			return
		}
		filter.IsActive = &active
	}
	rows, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.fail(w, "list mappings", err)
		return
	}
	if rows == nil {
		rows = []LocationAccountMapping{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"mappings": rows})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.mappingID(w, r)
	if !ok {
		return
	}
	m, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get mapping", err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if in.CreatedBy == "" {
		in.CreatedBy = r.Header.Get(ActorHeader)
	}
	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.fail(w, "create mapping", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.mappingID(w, r)
	if !ok {
		return
	}
	var in UpdateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if in.UpdatedBy == "" {
		in.UpdatedBy = r.Header.Get(ActorHeader)
	}
	updated, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, "update mapping", err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.mappingID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id, r.Header.Get(ActorHeader)); err != nil {
		h.fail(w, "delete mapping", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) mappingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, shared.ErrMappingNotFound)
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if httpx.StatusFor(err) == http.StatusInternalServerError {
		h.logger.Error(op, slog.Any("error", err))
	} else {
		h.logger.Warn(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
