package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/qpaper/internal/app/auth"
	"github.com/yigit/qpaper/internal/app/models"
	"github.com/yigit/qpaper/internal/app/models/dto"
	"github.com/yigit/qpaper/internal/app/repositories"
	"github.com/yigit/qpaper/internal/pkg/apperrors"
	"github.com/yigit/qpaper/internal/pkg/auth"
	"github.com/yigit/qpaper/internal/pkg/validation"
)

const invalidCredentialsMessage = "Invalid username or password."

// AdminCredentials is the single configured administrator account
type AdminCredentials struct {
	Username     string
	Password     string
	PasswordHash string
}

// Session is an issued session token together with the principal it identifies
type Session struct {
	Token     string
	ExpiresAt time.Time
	Principal *appauth.Principal
}

// AuthService handles signup, login and session parsing
type AuthService struct {
	userRepo          *repositories.UserRepository
	sessions          *auth.SessionService
	validator         *validation.Validator
	admin             AdminCredentials
	passwordMinLength int
	logger            zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	sessions *auth.SessionService,
	validator *validation.Validator,
	admin AdminCredentials,
	passwordMinLength int,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		sessions:          sessions,
		validator:         validator,
		admin:             admin,
		passwordMinLength: passwordMinLength,
		logger:            logger,
	}
}

// Signup registers a new account
func (s *AuthService) Signup(ctx context.Context, form dto.CredentialsForm) error {
	form.Normalize()
	if err := s.validator.Struct(form, validation.CredentialMessages); err != nil {
		return err
	}

	if s.passwordMinLength > 1 && utf8.RuneCountInString(form.Password) < s.passwordMinLength {
		return apperrors.NewValidationError(fmt.Sprintf("Password must be at least %d characters.", s.passwordMinLength)).WithField("Password")
	}

	exists, err := s.userRepo.UsernameExists(ctx, form.Username)
	if err != nil {
		return fmt.Errorf("error checking username: %w", err)
	}
	if exists {
		return apperrors.NewCustomError(apperrors.ErrUsernameTaken, "Username already exists.")
	}

	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return fmt.Errorf("error hashing password: %w", err)
	}

	if _, err := s.userRepo.Create(ctx, &models.User{Username: form.Username, Password: hash}); err != nil {
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			return apperrors.NewCustomError(apperrors.ErrUsernameTaken, "Username already exists.")
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info().Str("username", form.Username).Msg("User signed up")
	return nil
}

// Login checks account credentials and issues a user session
func (s *AuthService) Login(ctx context.Context, form dto.CredentialsForm) (*Session, error) {
	form.Normalize()
	if err := s.validator.Struct(form, validation.CredentialMessages); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, form.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, invalidCredentialsMessage)
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if !auth.CheckPassword(user.Password, form.Password) {
		s.logger.Warn().Str("username", form.Username).Msg("Failed login attempt")
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, invalidCredentialsMessage)
	}

	return s.issue(&appauth.Principal{UserID: user.ID, Username: user.Username, Role: models.RoleUser})
}

// AdminLogin checks the configured administrator credentials and issues an admin session
func (s *AuthService) AdminLogin(_ context.Context, form dto.CredentialsForm) (*Session, error) {
	form.Normalize()
	if err := s.validator.Struct(form, validation.CredentialMessages); err != nil {
		return nil, err
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(form.Username), []byte(s.admin.Username)) == 1

	configured := s.admin.PasswordHash
	if configured == "" {
		configured = s.admin.Password
	}
	passwordOK := configured != "" && auth.CheckSecret(configured, form.Password)

	if !usernameOK || !passwordOK {
		s.logger.Warn().Str("username", form.Username).Msg("Failed admin login attempt")
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCredentials, invalidCredentialsMessage)
	}

	return s.issue(&appauth.Principal{Username: s.admin.Username, Role: models.RoleAdmin})
}

// ParseSession returns the principal carried by a session token
func (s *AuthService) ParseSession(token string) (*appauth.Principal, error) {
	claims, err := s.sessions.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}

	return &appauth.Principal{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     models.Role(claims.Role),
	}, nil
}

// ListUsernames returns every registered username
func (s *AuthService) ListUsernames(ctx context.Context) ([]string, error) {
	names, err := s.userRepo.ListUsernames(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return names, nil
}

func (s *AuthService) issue(p *appauth.Principal) (*Session, error) {
	token, expiresAt, err := s.sessions.Issue(p.UserID, p.Username, string(p.Role))
	if err != nil {
		s.logger.Error().Err(err).Str("username", p.Username).Msg("Failed to issue session")
		return nil, fmt.Errorf("error issuing session: %w", err)
	}

	s.logger.Info().Str("username", p.Username).Str("role", string(p.Role)).Msg("Session started")
	return &Session{Token: token, ExpiresAt: expiresAt, Principal: p}, nil
}
