package quota

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/anindya384/Babil-ai-mobile/internal/api"
	"github.com/anindya384/Babil-ai-mobile/internal/metrics"
)

// Handler serves the daily-questions quota endpoint.
type Handler struct {
	svc      *Service
	validate *validator.Validate
}

func NewHandler(svc *Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: validator.New(),
	}
}

type quotaRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Action string `json:"action" validate:"required,oneof=get increment"`
}

// Quota dispatches on the requested action. A failed increment surfaces as
// an error; the client must not fall back to a local counter.
func (h *Handler) Quota(w http.ResponseWriter, r *http.Request) {
	var req quotaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.NewBadRequestError("invalid JSON in request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		if req.UserID == "" {
			api.HandleError(w, api.NewBadRequestError("userId is required"))
			return
		}
		if req.Action != "get" && req.Action != "increment" {
			api.HandleError(w, api.NewBadRequestError(`invalid action, use "get" or "increment"`))
			return
		}
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		api.HandleError(w, api.NewBadRequestError("userId must be a valid UUID"))
		return
	}

	metrics.QuotaOperationsTotal.WithLabelValues(req.Action).Inc()

	var status *Status
	switch req.Action {
	case "get":
		status, err = h.svc.Get(r.Context(), userID)
	case "increment":
		status, err = h.svc.Increment(r.Context(), userID)
	}
	if err != nil {
		slog.Error("quota operation failed", "action", req.Action, "user_id", userID, "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, status)
}
