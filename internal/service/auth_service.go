package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jungle-backend/internal/auth"
	"jungle-backend/internal/models"
	"jungle-backend/internal/store"
	"jungle-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthStore is the slice of the document store the auth service needs.
type AuthStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService registers users, checks credentials and resolves bearer tokens.
type AuthService struct {
	store  AuthStore
	issuer *auth.TokenIssuer
	logger *zap.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store AuthStore, issuer *auth.TokenIssuer) *AuthService {
	return &AuthService{
		store:  store,
		issuer: issuer,
		logger: util.GetLogger(),
	}
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// Register creates a user and issues a token for it.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, string, error) {
	_, err := s.store.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return nil, "", ErrEmailTaken
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issuer.Sign(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID))
	return user, token, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issuer.Sign(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ResolveToken validates a bearer token and loads the user it references.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.issuer.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.store.GetUserByID(ctx, claims.UserID)
}
