package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dkravets/shopcore/internal/apperrors"
	"github.com/dkravets/shopcore/internal/authz"
	"github.com/dkravets/shopcore/internal/handlers/render"
	"github.com/dkravets/shopcore/internal/handlers/userctx"
	"github.com/dkravets/shopcore/internal/models"
)

type userService interface {
	GetUser(ctx context.Context, principal models.User, userID uuid.UUID) (models.User, error)
	UpdateEmail(ctx context.Context, principal models.User, userID uuid.UUID, email string) (models.User, error)
}

type UserHandler struct {
	userService userService
}

func NewUsers(users userService) *UserHandler {
	return &UserHandler{userService: users}
}

type userResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Role      authz.Role `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.userService.GetUser(r.Context(), principal, principal.ID)
	if err != nil {
		renderUserError(w, err)
		return
	}

	render.JSON(w, toUserResponse(user))
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	user, err := h.userService.GetUser(r.Context(), principal, userID)
	if err != nil {
		renderUserError(w, err)
		return
	}

	render.JSON(w, toUserResponse(user))
}

func (h *UserHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	type updateEmailRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	principal, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	data, err := render.BindAndValidate[updateEmailRequest](w, r)
	if err != nil {
		return
	}

	user, err := h.userService.UpdateEmail(r.Context(), principal, userID, data.Email)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "Email already taken", http.StatusConflict)
		default:
			renderUserError(w, err)
		}
		return
	}

	render.JSON(w, toUserResponse(user))
}

func renderUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrForbidden):
		render.ServiceError(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, apperrors.ErrUserNotFound):
		render.ServiceError(w, "User not found", http.StatusNotFound)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}
