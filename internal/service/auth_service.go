package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zenops/zen-ops-console/internal/models"
	"github.com/zenops/zen-ops-console/internal/session"
	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
)

type authRepository interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	ChangePassword(ctx context.Context, current, next string) error
}

// SessionInfo is the logged-in identity plus what the token says about its lifetime.
type SessionInfo struct {
	Session   *models.Session `json:"session"`
	IsAdmin   bool            `json:"is_admin"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	Expired   bool            `json:"expired"`
}

// AuthService logs console users in and out against the backend.
type AuthService struct {
	repo      authRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authRepository, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// Login authenticates with the backend and stores the session in the store carried by ctx.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.Session, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	store, err := storeFrom(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.repo.Login(ctx, req)
	if err != nil {
		if errors.Is(err, appErrors.ErrUnauthorized) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid email or password")
		}
		return nil, err
	}
	if strings.TrimSpace(resp.AccessToken) == "" {
		return nil, appErrors.Clone(appErrors.ErrUpstream, "login response carried no access token")
	}

	sess := session.FromLogin(*resp)
	if err := store.Set(ctx, sess); err != nil {
		return nil, err
	}
	s.logger.Info("console login", zap.String("email", sess.Email), zap.String("role", sess.Role))
	return &sess, nil
}

// Logout clears the session in ctx. Logging out twice is not an error.
func (s *AuthService) Logout(ctx context.Context) error {
	store, err := storeFrom(ctx)
	if err != nil {
		return err
	}
	if sess, ok := store.Current(ctx); ok {
		s.logger.Info("console logout", zap.String("email", sess.Email))
	}
	return store.Clear(ctx)
}

// Current describes the session in ctx, or returns UNAUTHORIZED when nobody is logged in.
func (s *AuthService) Current(ctx context.Context) (*SessionInfo, error) {
	store, err := storeFrom(ctx)
	if err != nil {
		return nil, err
	}
	sess, ok := store.Current(ctx)
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	info := &SessionInfo{Session: sess, IsAdmin: sess.IsAdmin()}
	if exp, ok := session.TokenExpiry(sess.Token); ok {
		info.ExpiresAt = &exp
		info.Expired = !exp.After(s.now())
	}
	return info, nil
}

// ChangePassword validates the self-service form and forwards it.
func (s *AuthService) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "new password must be at least 6 characters and match its confirmation")
	}
	if err := s.repo.ChangePassword(ctx, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	s.logger.Info("password changed")
	return nil
}

func storeFrom(ctx context.Context) (session.Store, error) {
	store, ok := session.FromContext(ctx)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInternal, "no session store bound to request")
	}
	return store, nil
}

// Actor returns the session in ctx, or UNAUTHORIZED.
func Actor(ctx context.Context) (*models.Session, error) {
	store, err := storeFrom(ctx)
	if err != nil {
		return nil, err
	}
	sess, ok := store.Current(ctx)
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	return sess, nil
}
