package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dkravets/shopcore/internal/authz"
	"github.com/dkravets/shopcore/internal/models"
	"github.com/dkravets/shopcore/internal/repository"
	"github.com/dkravets/shopcore/internal/service/auth"
)

type UserService struct {
	hasher   auth.PasswordHasher
	userRepo repository.UserRepo
}

func NewService(hasher auth.PasswordHasher, userRepo repository.UserRepo) *UserService {
	if hasher == nil {
		hasher = auth.DefaultHasher
	}

	return &UserService{
		hasher:   hasher,
		userRepo: userRepo,
	}
}

func (s *UserService) CreateUser(ctx context.Context, email string, password string, role authz.Role) (models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, normalizeEmail(email), hash, role)
	if err != nil {
		return models.User{}, err
	}

	return user.Stripped(), nil
}

// GetUser returns the user record when the principal may read User subjects
func (s *UserService) GetUser(ctx context.Context, principal models.User, userID uuid.UUID) (models.User, error) {
	err := authz.Authorize(principal.ID, principal.Role, authz.Check{
		Action:  authz.ActionRead,
		Subject: authz.SubjectUser,
	})
	if err != nil {
		return models.User{}, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	return user.Stripped(), nil
}

// UpdateEmail changes the email of the target user. Allowed for the owner
// (manage own User rule) and for admins; checked against the fetched instance.
func (s *UserService) UpdateEmail(ctx context.Context, principal models.User, userID uuid.UUID, email string) (models.User, error) {
	target, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	err = authz.Authorize(principal.ID, principal.Role, authz.Check{
		Action:   authz.ActionUpdate,
		Instance: target,
	})
	if err != nil {
		return models.User{}, err
	}

	updated, err := s.userRepo.UpdateEmail(ctx, userID, normalizeEmail(email))
	if err != nil {
		return models.User{}, err
	}

	return updated.Stripped(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
