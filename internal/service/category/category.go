package category

import (
	"context"

	"github.com/google/uuid"

	"github.com/dkravets/shopcore/internal/authz"
	"github.com/dkravets/shopcore/internal/models"
	"github.com/dkravets/shopcore/internal/repository"
)

// CategoryService guards mutations with type-level checks: only the
// manage-all rule grants create/update/delete on categories, so effectively
// admins. Reads are open.
type CategoryService struct {
	categoryRepo repository.CategoryRepo
}

func NewService(categoryRepo repository.CategoryRepo) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) CreateCategory(ctx context.Context, principal models.User, name string, description string) (models.Category, error) {
	err := authz.Authorize(principal.ID, principal.Role, authz.Check{
		Action:  authz.ActionCreate,
		Subject: authz.SubjectCategory,
	})
	if err != nil {
		return models.Category{}, err
	}

	return s.categoryRepo.Create(ctx, models.Category{
		Name:        name,
		Description: description,
		UserID:      principal.ID,
	})
}

func (s *CategoryService) GetCategory(ctx context.Context, categoryID uuid.UUID) (models.Category, error) {
	return s.categoryRepo.Get(ctx, categoryID)
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, principal models.User, categoryID uuid.UUID, name string, description string) (models.Category, error) {
	target, err := s.categoryRepo.Get(ctx, categoryID)
	if err != nil {
		return models.Category{}, err
	}

	err = authz.Authorize(principal.ID, principal.Role, authz.Check{
		Action:   authz.ActionUpdate,
		Instance: target,
	})
	if err != nil {
		return models.Category{}, err
	}

	target.Name = name
	target.Description = description
	return s.categoryRepo.Update(ctx, target)
}

func (s *CategoryService) DeleteCategory(ctx context.Context, principal models.User, categoryID uuid.UUID) error {
	target, err := s.categoryRepo.Get(ctx, categoryID)
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

	return s.categoryRepo.Delete(ctx, categoryID)
}
