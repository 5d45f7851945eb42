package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dkravets/shopcore/internal/apperrors"
	"github.com/dkravets/shopcore/internal/handlers/render"
	"github.com/dkravets/shopcore/internal/handlers/userctx"
	"github.com/dkravets/shopcore/internal/models"
)

type categoryService interface {
	CreateCategory(ctx context.Context, principal models.User, name string, description string) (models.Category, error)
	GetCategory(ctx context.Context, categoryID uuid.UUID) (models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, principal models.User, categoryID uuid.UUID, name string, description string) (models.Category, error)
	DeleteCategory(ctx context.Context, principal models.User, categoryID uuid.UUID) error
}

type CategoryHandler struct {
	categoryService categoryService
}

func NewCategories(categories categoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categories}
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

type categoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UserID      uuid.UUID `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toCategoryResponse(c models.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		UserID:      c.UserID,
		CreatedAt:   c.CreatedAt,
	}
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	data, err := render.BindAndValidate[categoryRequest](w, r)
	if err != nil {
		return
	}

	category, err := h.categoryService.CreateCategory(r.Context(), principal, data.Name, data.Description)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrCategoryAlreadyExists):
			render.ServiceError(w, "Category already exists", http.StatusConflict)
		default:
			renderCategoryError(w, err)
		}
		return
	}

	render.JSONWithStatus(w, toCategoryResponse(category), http.StatusCreated)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.ListCategories(r.Context())
	if err != nil {
		renderCategoryError(w, err)
		return
	}

	response := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		response = append(response, toCategoryResponse(c))
	}

	render.JSON(w, response)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	categoryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid category id", http.StatusBadRequest)
		return
	}

	category, err := h.categoryService.GetCategory(r.Context(), categoryID)
	if err != nil {
		renderCategoryError(w, err)
		return
	}

	render.JSON(w, toCategoryResponse(category))
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	categoryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid category id", http.StatusBadRequest)
		return
	}

	data, err := render.BindAndValidate[categoryRequest](w, r)
	if err != nil {
		return
	}

	category, err := h.categoryService.UpdateCategory(r.Context(), principal, categoryID, data.Name, data.Description)
	if err != nil {
		renderCategoryError(w, err)
		return
	}

	render.JSON(w, toCategoryResponse(category))
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	categoryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid category id", http.StatusBadRequest)
		return
	}

	err = h.categoryService.DeleteCategory(r.Context(), principal, categoryID)
	if err != nil {
		renderCategoryError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func renderCategoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrForbidden):
		render.ServiceError(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, apperrors.ErrCategoryNotFound):
		render.ServiceError(w, "Category not found", http.StatusNotFound)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}
