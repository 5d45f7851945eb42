package product

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dkravets/shopcore/internal/authz"
	"github.com/dkravets/shopcore/internal/models"
	"github.com/dkravets/shopcore/internal/repository"
)

type ProductService struct {
	productRepo repository.ProductRepo
}

func NewService(productRepo repository.ProductRepo) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProduct stores a product owned by the caller
func (s *ProductService) CreateProduct(ctx context.Context, principal models.User, name string, description string, price decimal.Decimal) (models.Product, error) {
	return s.productRepo.Create(ctx, models.Product{
		Name:        name,
		Description: description,
		Price:       price,
		AuthorID:    principal.ID,
	})
}

func (s *ProductService) GetProduct(ctx context.Context, productID uuid.UUID) (models.Product, error) {
	return s.productRepo.Get(ctx, productID)
}

func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.productRepo.List(ctx)
}

// UpdateProduct fetches the target first and checks the update capability
// against the concrete instance, so the ownership condition sees real fields
func (s *ProductService) UpdateProduct(ctx context.Context, principal models.User, productID uuid.UUID, name string, description string, price decimal.Decimal) (models.Product, error) {
	target, err := s.productRepo.Get(ctx, productID)
	if err != nil {
		return models.Product{}, err
	}

	err = authz.Authorize(principal.ID, principal.Role, authz.Check{
		Action:   authz.ActionUpdate,
		Instance: target,
	})
	if err != nil {
		return models.Product{}, err
	}

	target.Name = name
	target.Description = description
	target.Price = price
	return s.productRepo.Update(ctx, target)
}

func (s *ProductService) DeleteProduct(ctx context.Context, principal models.User, productID uuid.UUID) error {
	target, err := s.productRepo.Get(ctx, productID)
	if err != nil {
		return err
	}

	err = authz.Authorize(principal.ID, principal.Role, authz.Check{
		Action:   authz.ActionDelete,
		Instance: target,
	})
	if err != nil {
		return err
	}

	return s.productRepo.Delete(ctx, productID)
}
