package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// AuthService handles signup, login and profile lookups.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users storage.UserStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// SignupInput carries the fields of a signup form.
type SignupInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Signup creates a new user account and returns a signed token for it,
// so a new user is logged in straight away.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (string, *models.User, error) {
	s.logger.Info("Signup request", "email", in.Email)

	user, err := s.authenticator.Register(ctx, in.Username, in.Email, in.Password, in.ConfirmPassword)
	if err != nil {
		s.logger.Warn("Signup failed", "email", in.Email, "error", err)
		return "", nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return "", nil, err
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return token, user, nil
}

// Login authenticates a user and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	s.logger.Info("Login request", "email", email)

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Warn("Login failed", "email", email, "error", err)
		return "", nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return "", nil, err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID)
	return token, user, nil
}

// CurrentUser returns the stored profile of the authenticated caller.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}
