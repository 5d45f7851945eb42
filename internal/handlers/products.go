package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dkravets/shopcore/internal/apperrors"
	"github.com/dkravets/shopcore/internal/handlers/render"
	"github.com/dkravets/shopcore/internal/handlers/userctx"
	"github.com/dkravets/shopcore/internal/models"
)

type productService interface {
	CreateProduct(ctx context.Context, principal models.User, name string, description string, price decimal.Decimal) (models.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, principal models.User, productID uuid.UUID, name string, description string, price decimal.Decimal) (models.Product, error)
	DeleteProduct(ctx context.Context, principal models.User, productID uuid.UUID) error
}

type ProductHandler struct {
	productService productService
}

func NewProducts(products productService) *ProductHandler {
	return &ProductHandler{productService: products}
}

type productRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price" validate:"required"`
}

type productResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	AuthorID    uuid.UUID       `json:"authorId"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toProductResponse(p models.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		AuthorID:    p.AuthorID,
		CreatedAt:   p.CreatedAt,
	}
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	data, err := render.BindAndValidate[productRequest](w, r)
	if err != nil {
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), principal, data.Name, data.Description, data.Price)
	if err != nil {
		renderProductError(w, err)
		return
	}

	render.JSONWithStatus(w, toProductResponse(product), http.StatusCreated)
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.ListProducts(r.Context())
	if err != nil {
		renderProductError(w, err)
		return
	}

	response := make([]productResponse, 0, len(products))
	for _, p := range products {
		response = append(response, toProductResponse(p))
	}

	render.JSON(w, response)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	product, err := h.productService.GetProduct(r.Context(), productID)
	if err != nil {
		renderProductError(w, err)
		return
	}

	render.JSON(w, toProductResponse(product))
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	productID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	data, err := render.BindAndValidate[productRequest](w, r)
	if err != nil {
		return
	}

	product, err := h.productService.UpdateProduct(r.Context(), principal, productID, data.Name, data.Description, data.Price)
	if err != nil {
		renderProductError(w, err)
		return
	}

	render.JSON(w, toProductResponse(product))
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	productID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		render.ServiceError(w, "Invalid product id", http.StatusBadRequest)
		return
	}

	err = h.productService.DeleteProduct(r.Context(), principal, productID)
	if err != nil {
		renderProductError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func renderProductError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrForbidden):
		render.ServiceError(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, apperrors.ErrProductNotFound):
		render.ServiceError(w, "Product not found", http.StatusNotFound)
	default:
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
	}
}
