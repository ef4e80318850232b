package handover

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/henryantwi/activity-tracker/internal/auth"
	"github.com/henryantwi/activity-tracker/internal/transport"
	"github.com/henryantwi/activity-tracker/pkg/logger"
)

type ServiceAPI interface {
	CreateHandover(ctx context.Context, actor *auth.User, dto CreateHandoverDTO) (*Handover, error)
	GetHandover(ctx context.Context, actor *auth.User, id int64) (*Handover, error)
	ListHandovers(ctx context.Context, actor *auth.User, filter ListFilter) ([]*Handover, int64, error)
	Acknowledge(ctx context.Context, actor *auth.User, id int64) (*Handover, error)
	DeleteHandover(ctx context.Context, actor *auth.User, id int64) error
	DailyReport(ctx context.Context, actor *auth.User, date time.Time) (*DailyReport, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreateHandover(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateHandoverDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("CreateHandover: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.CreateHandover(r.Context(), user, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetHandover(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid handover ID")
		return
	}

	handover, err := h.Service.GetHandover(r.Context(), user, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, handover)
}

func (h *Handler) ListHandovers(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := r.URL.Query()
	var filter ListFilter

	if dateStr := q.Get("date"); dateStr != "" {
		if d, err := time.ParseInLocation("2006-01-02", dateStr, time.Local); err == nil {
			filter.Date = &d
		}
	}
	if fromStr := q.Get("from_user_id"); fromStr != "" {
		if id, err := strconv.ParseInt(fromStr, 10, 64); err == nil {
			filter.FromUserID = id
		}
	}
	if toStr := q.Get("to_user_id"); toStr != "" {
		if id, err := strconv.ParseInt(toStr, 10, 64); err == nil {
			filter.ToUserID = id
		}
	}
	if ackStr := q.Get("acknowledged"); ackStr != "" {
		if ack, err := strconv.ParseBool(ackStr); err == nil {
			filter.Acknowledged = &ack
		}
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = l
		}
	}
	if offsetStr := q.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = o
		}
	}

	handovers, total, err := h.Service.ListHandovers(r.Context(), user, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"handovers": handovers,
		"total":     total,
	})
}

func (h *Handler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid handover ID")
		return
	}

	acked, err := h.Service.Acknowledge(r.Context(), user, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, acked)
}

func (h *Handler) DeleteHandover(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid handover ID")
		return
	}

	if err := h.Service.DeleteHandover(r.Context(), user, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DailyReport(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	date := time.Now()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
			return
		}
		date = parsed
	}

	report, err := h.Service.DailyReport(r.Context(), user, date)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
