package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dkravets/shopcore/internal/apperrors"
	"github.com/dkravets/shopcore/internal/authz"
	"github.com/dkravets/shopcore/internal/models"
	"github.com/dkravets/shopcore/internal/repository"
	"github.com/dkravets/shopcore/internal/service/auth/tokenmanager"
)

type Config struct {
	// Hasher to use during registration or login
	// Defaults to BcryptHasher
	Hasher PasswordHasher
}

// AuthService drives the session lifecycle: login issues a pair, refresh
// rotates it, logout kills the presented token.
type AuthService struct {
	// Manager to issue and verify token pairs (access and refresh)
	token *tokenmanager.TokenManager

	// hasher to hash or compare user passwords
	hasher PasswordHasher

	// Repositories for long term data
	storage repository.Storage

	// Hash compared against when the email is unknown, so a miss costs the
	// same time as a wrong password
	fallbackHash string
}

func NewService(cfg Config, token *tokenmanager.TokenManager, storage repository.Storage) (*AuthService, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	if token == nil || storage == nil {
		return nil, errors.New("token manager and storage must not be nil")
	}

	fallbackHash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("error while preparing fallback hash. Err: %w", err)
	}

	return &AuthService{
		token:        token,
		hasher:       hasher,
		storage:      storage,
		fallbackHash: fallbackHash,
	}, nil
}

// Register creates a USER role account and logs it in
func (s *AuthService) Register(ctx context.Context, email string, password string) (models.TokenPair, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	user, err := s.storage.User().CreateUser(ctx, normalizeEmail(email), hash, authz.RoleUser)
	if err != nil {
		return models.TokenPair{}, err
	}

	return s.issuePair(ctx, s.storage, user)
}

// Login verifies credentials and issues a fresh pair.
// Unknown email and wrong password are indistinguishable on purpose: both
// cost one hash comparison and return apperrors.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email string, password string) (models.TokenPair, error) {
	user, err := s.storage.User().GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			_ = s.hasher.Compare(s.fallbackHash, password)
			return models.TokenPair{}, apperrors.ErrInvalidCredentials
		}
		return models.TokenPair{}, err
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.TokenPair{}, apperrors.ErrInvalidCredentials
	}

	return s.issuePair(ctx, s.storage, user)
}

// Refresh rotates the presented refresh token: the old record is revoked and
// a brand new pair is issued and persisted, all inside one transaction.
// A replayed token loses on the revoked check and no partial rotation can
// leak out of the transaction.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (models.TokenPair, error) {
	userID, err := s.token.ParseRefresh(refresh)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: %w", apperrors.ErrRefreshTokenInvalid, err)
	}

	var pair models.TokenPair
	err = s.storage.InTx(ctx, func(st repository.Storage) error {
		now := time.Now()

		record, err := st.Refresh().RevokeOnce(ctx, refresh, now)
		if err != nil {
			return err
		}

		if record.ExpiredAt(now) {
			return fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenExpired)
		}

		// The signed subject and the stored owner must agree
		if record.UserID != userID {
			return apperrors.ErrRefreshTokenInvalid
		}

		user, err := st.User().GetUserByID(ctx, record.UserID)
		if err != nil {
			return err
		}

		pair, err = s.issuePair(ctx, st, user)
		return err
	})
	if err != nil {
		return models.TokenPair{}, err
	}

	return pair, nil
}

// Logout revokes the one token record matching both the user and the token
// string. A stale token (already revoked, unknown, or owned by someone else)
// returns apperrors.ErrNotLoggedIn instead of silently succeeding.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, refresh string) error {
	return s.storage.Refresh().RevokeMatching(ctx, userID, refresh)
}

// LogoutAll revokes every active session of the user, hardening hook for
// password change and similar flows
func (s *AuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	_, err := s.storage.Refresh().RevokeAllForUser(ctx, userID)
	return err
}

// ParseAccess verifies the access token and returns the principal it asserts.
// Access tokens are stateless so there is no store lookup here.
func (s *AuthService) ParseAccess(access string) (models.User, error) {
	identity, err := s.token.ParseAccess(access)
	if err != nil {
		return models.User{}, err
	}

	return models.User{
		ID:    identity.UserID,
		Email: identity.Email,
		Role:  identity.Role,
	}, nil
}

func (s *AuthService) issuePair(ctx context.Context, st repository.Storage, user models.User) (models.TokenPair, error) {
	access, err := s.token.IssueAccess(user)
	if err != nil {
		return models.TokenPair{}, err
	}

	refresh, err := s.token.IssueRefresh(user)
	if err != nil {
		return models.TokenPair{}, err
	}

	_, err = st.Refresh().Save(ctx, models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Token:     refresh.Value,
		CreatedAt: time.Now().Truncate(time.Second),
		ExpiresAt: refresh.ExpiresAt,
		RevokedAt: nil,
	})
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}

	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
