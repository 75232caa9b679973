package auth

import (
	"context"
	"errors"
	"time"

	autherrors "dayflow/internal/auth/errors"
	"dayflow/internal/auth/token"
	"dayflow/internal/config"
	"dayflow/internal/identity"
	"dayflow/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, identifier, password string) (TokenPair, AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
	ChangePassword(ctx context.Context, p identity.Principal, req ChangePasswordRequest) error
}

type service struct {
	repo   Repository
	cfg    config.AuthConfig
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, cfg config.AuthConfig, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		repo:   repo,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

func (s *service) Login(ctx context.Context, identifier, password string) (TokenPair, AuthResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	user, err := s.repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error("login lookup failed", zap.Error(err))
		}
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !CheckPassword(user.Password, password) {
		log.Warn("login wrong password", zap.String("user_id", user.ID.String()))
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return TokenPair{}, AuthResponse{}, autherrors.ErrAccountDisabled
	}

	pair, err := s.issue(user)
	if err != nil {
		log.Error("login token generation failed", zap.Error(err))
		return TokenPair{}, AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		log.Warn("login last_login_at update failed", zap.Error(err))
	}
	log.Info("login success", zap.String("user_id", user.ID.String()), zap.String("role", user.Role))

	return pair, toResponse(user), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (TokenPair, AuthResponse, error) {
	claims, err := token.Parse(s.cfg.JWTSecret, refreshToken, token.KindRefresh)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrInvalidUserID
	}

	// Reload so a role change or deactivation takes effect on refresh.
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrUserNotFound
	}
	if !user.IsActive {
		return TokenPair{}, AuthResponse{}, autherrors.ErrAccountDisabled
	}

	pair, err := s.issue(user)
	if err != nil {
		return TokenPair{}, AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	return pair, toResponse(user), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp := toResponse(u)
	return &resp, nil
}

func (s *service) ChangePassword(ctx context.Context, p identity.Principal, req ChangePasswordRequest) error {
	log := contextutil.GetLogger(ctx, s.logger)

	id, err := uuid.Parse(p.UserID)
	if err != nil {
		return autherrors.ErrInvalidUserID
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return autherrors.ErrUserNotFound
	}

	if !CheckPassword(user.Password, req.CurrentPassword) {
		return autherrors.ErrWrongCurrentPassword
	}
	if req.CurrentPassword == req.NewPassword {
		return autherrors.ErrSamePassword
	}
	if err := ValidatePasswordStrength(req.NewPassword); err != nil {
		return err
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		log.Error("change password persist failed", zap.Error(err))
		return err
	}
	log.Info("password changed", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *service) issue(user *User) (TokenPair, error) {
	now := s.now()
	claims := token.Claims{
		UserID:     user.ID.String(),
		EmployeeID: user.employeeIDString(),
		Role:       identity.NormalizeRole(user.Role),
	}

	claims.Kind = token.KindAccess
	access, err := token.Issue(s.cfg.JWTSecret, claims, s.cfg.AccessTokenTTL, now)
	if err != nil {
		return TokenPair{}, err
	}

	claims.Kind = token.KindRefresh
	refresh, err := token.Issue(s.cfg.JWTSecret, claims, s.cfg.RefreshTokenTTL, now)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func toResponse(u *User) AuthResponse {
	return AuthResponse{
		ID:                     u.ID.String(),
		EmployeeID:             u.employeeIDString(),
		LoginID:                u.LoginID,
		Email:                  u.Email,
		Role:                   identity.NormalizeRole(u.Role),
		PasswordChangeRequired: u.PasswordChangeRequired,
	}
}
