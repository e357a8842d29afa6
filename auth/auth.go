// Package auth issues and resolves API tokens and holds the ownership
// predicate gating writes.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"social/storage"
	"social/storage/models"
)

const DefaultTokenTTL = 30 * 24 * time.Hour

// IdentityProvider resolves a request token to the authenticated user. The
// rest of the application trusts the returned identity and performs no
// credential checks of its own.
type IdentityProvider interface {
	Identify(ctx context.Context, token string) (*models.User, error)
}

type Service struct {
	store    storage.Store
	tokenTTL time.Duration
}

func NewService(store storage.Store) *Service {
	return &Service{
		store:    store,
		tokenTTL: DefaultTokenTTL,
	}
}

// Register creates a user and issues their first token.
func (s *Service) Register(ctx context.Context, username, email, password, bio string) (*models.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	user, err := s.store.CreateUser(ctx, username, email, string(hash), bio)
	if err != nil {
		return nil, "", err
	}
	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", models.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", models.ErrInvalidCredentials
	}
	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) Identify(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, models.ErrInvalidToken
	}
	session, err := s.store.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidToken
		}
		return nil, err
	}
	if session.ExpiresAt.Before(time.Now()) {
		return nil, models.ErrInvalidToken
	}
	return s.store.GetUser(ctx, session.UserID)
}

func (s *Service) issueToken(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := s.store.CreateSession(ctx, token, userID, time.Now().Add(s.tokenTTL)); err != nil {
		return "", err
	}
	return token, nil
}
