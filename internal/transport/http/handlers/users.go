package http_handlers

import (
	"fmt"
	"net/http"

	"github.com/baechuer/user-mgmt-service/internal/application/auth"
	"github.com/baechuer/user-mgmt-service/internal/logger"
	"github.com/baechuer/user-mgmt-service/internal/transport/http/dto"
	"github.com/baechuer/user-mgmt-service/internal/transport/http/middleware"
	"github.com/baechuer/user-mgmt-service/internal/transport/http/response"
)

// UsersHandler serves the directory listing and bulk admin actions.
// Both routes sit behind the auth guard.
type UsersHandler struct {
	svc *auth.Service
}

func NewUsersHandler(svc *auth.Service) *UsersHandler {
	return &UsersHandler{svc: svc}
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.ToUserViews(users))
}

func (h *UsersHandler) BulkAction(w http.ResponseWriter, r *http.Request) {
	var req dto.BulkActionRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.BulkAction(r.Context(), req.Action, req.UserIDs)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	actorID, _ := middleware.UserIDFromContext(r.Context())
	logger.WithCtx(r.Context()).Info().
		Str("actor_id", actorID).
		Str("action", res.Action).
		Int64("affected", res.Affected).
		Msg("bulk_action_applied")

	response.OK(w, dto.BulkActionData{
		Message: fmt.Sprintf("%s action completed successfully", res.Action),
	})
}
