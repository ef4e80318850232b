package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/henryantwi/activity-tracker/internal/auth"
	"github.com/henryantwi/activity-tracker/internal/transport"
	"github.com/henryantwi/activity-tracker/pkg/logger"
)

type ServiceAPI interface {
	ActivityReport(ctx context.Context, actor *auth.User, q Query) (*ActivityReport, error)
	Dashboard(ctx context.Context, actor *auth.User) (DashboardStats, error)
	ExportCSV(ctx context.Context, actor *auth.User, q Query, w io.Writer) error
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

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	stats, err := h.Service.Dashboard(r.Context(), user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) ActivityReport(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := parseQuery(r)

	result, err := h.Service.ActivityReport(r.Context(), user, q)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) ExportActivities(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := parseQuery(r)

	var buf bytes.Buffer
	if err := h.Service.ExportCSV(r.Context(), user, q, &buf); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="activities-%s.csv"`, time.Now().Format("2006-01-02")))
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("csv export write failed", "error", err, "user_id", user.ID)
	}
}

func parseQuery(r *http.Request) Query {
	v := r.URL.Query()

	q := Query{
		Duration: v.Get("duration"),
		Status:   v.Get("status"),
		Priority: v.Get("priority"),
		Category: v.Get("category"),
	}

	if uidStr := v.Get("user_id"); uidStr != "" {
		if uid, err := strconv.ParseInt(uidStr, 10, 64); err == nil {
			q.UserID = uid
		}
	}
	if startStr := v.Get("start_date"); startStr != "" {
		if start, err := time.ParseInLocation("2006-01-02", startStr, time.Local); err == nil {
			q.StartDate = &start
		}
	}
	if endStr := v.Get("end_date"); endStr != "" {
		if end, err := time.ParseInLocation("2006-01-02", endStr, time.Local); err == nil {
			q.EndDate = &end
		}
	}
	if limitStr := v.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			q.Limit = l
		}
	}
	if offsetStr := v.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil {
			q.Offset = o
		}
	}

	return q
}
