package user

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medhub/clinic-frontdesk/internal/httputil"
	"github.com/medhub/clinic-frontdesk/internal/logging"
)

// Handler contains HTTP handlers for the admin user-management endpoints.
// Role enforcement happens in the session middleware; every handler here runs
// with an admin caller already established.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	Verified bool      `json:"verified"`
}

func toUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Verified: u.Verified,
	}
}

// List handles listing all users
// @Summary      List users
// @Description  List all staff accounts, newest first. Admin only.
// @Tags         users
// @Produce      json
// @Success      200 {array} UserResponse
// @Failure      401 {object} httputil.ErrorResponse "Not authenticated"
// @Failure      403 {object} httputil.ErrorResponse "Not an admin"
// @Router       /api/users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	users, err := h.service.List(r.Context())
	if err != nil {
		logger.Error("failed to list users", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list users", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toUserResponse(u))
	}

	httputil.RespondJSON(w, responses, http.StatusOK)
}

// ListUnverified handles listing users pending verification
// @Summary      List unverified users
// @Description  List accounts awaiting admin approval, newest first. Admin only.
// @Tags         users
// @Produce      json
// @Success      200 {array} UserResponse
// @Failure      401 {object} httputil.ErrorResponse "Not authenticated"
// @Failure      403 {object} httputil.ErrorResponse "Not an admin"
// @Router       /api/users/unverified [get]
func (h *Handler) ListUnverified(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	users, err := h.service.ListUnverified(r.Context())
	if err != nil {
		logger.Error("failed to list unverified users", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list users", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toUserResponse(u))
	}

	httputil.RespondJSON(w, responses, http.StatusOK)
}

// Verify handles approving a pending account
// @Summary      Verify a user
// @Description  Approve a pending account so it can log in. Idempotent. Admin only.
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} map[string]string
// @Failure      400 {object} httputil.ErrorResponse "Invalid user ID"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /api/users/{id}/verify [post]
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid user id", httputil.CodeValidationFailed, http.StatusBadRequest)
		return
	}

	if err := h.service.Verify(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to verify user", "user_id", id, "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to verify user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, map[string]string{"message": "user verified"}, http.StatusOK)
}

// Reject handles rejecting (deleting) an account
// @Summary      Reject a user
// @Description  Delete an account and all of its sessions. Irreversible. Admin only.
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} map[string]string
// @Failure      400 {object} httputil.ErrorResponse "Invalid user ID"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /api/users/{id} [delete]
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "invalid user id", httputil.CodeValidationFailed, http.StatusBadRequest)
		return
	}

	if err := h.service.Reject(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "user not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to reject user", "user_id", id, "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to reject user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, map[string]string{"message": "user rejected"}, http.StatusOK)
}
