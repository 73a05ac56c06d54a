package requests

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/EmpoweredVote/civic-requests/internal/auth"
	"github.com/EmpoweredVote/civic-requests/internal/utils"
	"github.com/EmpoweredVote/civic-requests/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/thejerf/abtime"
)

type CreateRequest struct {
	Department  string  `json:"department" validate:"min=1,max=200"`
	Date        string  `json:"date" validate:"required,rfc3339"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

func (c *CreateRequest) Normalize() {
	c.Department = strings.TrimSpace(c.Department)
	if c.Description != nil {
		d := strings.TrimSpace(*c.Description)
		if d == "" {
			c.Description = nil
		} else {
			c.Description = &d
		}
	}
}

type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=PENDING APPROVED REJECTED"`
}

type Handler struct {
	repo      Repository
	validator *validation.Validator
	clock     abtime.AbstractTime
}

func NewHandler(repo Repository, v *validation.Validator, clock abtime.AbstractTime) *Handler {
	if clock == nil {
		clock = abtime.NewRealTime()
	}
	return &Handler{repo: repo, validator: v, clock: clock}
}

// List returns every request to an admin and only the caller's own
// requests to a citizen.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	out, ok := h.list(w, r)
	if !ok {
		return
	}

	views := make([]RequestView, 0, len(out))
	for i := range out {
		views = append(views, out[i].View())
	}
	utils.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var body CreateRequest
	if !utils.DecodeJSON(w, r, h.validator, &body) {
		return
	}
	date, _ := time.Parse(time.RFC3339, body.Date)

	req := &Request{
		Department:  body.Department,
		Date:        date,
		Description: body.Description,
		Status:      StatusPending,
		UserID:      id.ID,
	}
	if err := h.repo.Create(r.Context(), req); err != nil {
		utils.WriteServerError(w, r, err, "Failed to create request")
		return
	}

	slog.InfoContext(r.Context(), "request created", "request_id", req.ID, "user_id", id.ID, "department", req.Department)
	utils.WriteJSON(w, http.StatusCreated, req.View())
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	reqID, ok := parseID(w, r)
	if !ok {
		return
	}

	var body UpdateStatusRequest
	if !utils.DecodeJSON(w, r, h.validator, &body) {
		return
	}

	req, err := h.repo.UpdateStatus(r.Context(), reqID, body.Status)
	switch {
	case errors.Is(err, ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "Request not found")
		return
	case err != nil:
		utils.WriteServerError(w, r, err, "Failed to update request")
		return
	}

	admin, _ := auth.IdentityFromContext(r.Context())
	slog.InfoContext(r.Context(), "request status changed", "request_id", reqID, "status", body.Status, "admin_id", admin.ID)
	utils.WriteJSON(w, http.StatusOK, req.View())
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	reqID, ok := parseID(w, r)
	if !ok {
		return
	}

	err := h.repo.Delete(r.Context(), reqID)
	switch {
	case errors.Is(err, ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "Request not found")
		return
	case err != nil:
		utils.WriteServerError(w, r, err, "Failed to delete request")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Request deleted successfully"})
}

// Export streams the admin's current view as a CSV attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	out, ok := h.list(w, r)
	if !ok {
		return
	}

	name := "requests_" + h.clock.Now().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)

	if err := WriteCSV(w, out); err != nil {
		// Headers are already sent; all that is left is to log.
		slog.ErrorContext(r.Context(), "csv export failed", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) ([]Request, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	f := ListFilter{UserID: id.ID}
	if id.Role == auth.RoleAdmin {
		f = ListFilter{WithUser: true, Query: r.URL.Query().Get("q")}
	}

	out, err := h.repo.List(r.Context(), f)
	if err != nil {
		utils.WriteServerError(w, r, err, "Failed to load requests")
		return nil, false
	}
	return out, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request id")
		return 0, false
	}
	return id, true
}
