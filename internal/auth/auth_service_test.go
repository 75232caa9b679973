package auth_test

import (
	"context"
	"testing"
	"time"

	"dayflow/internal/auth"
	autherrors "dayflow/internal/auth/errors"
	authMock "dayflow/internal/auth/mock"
	"dayflow/internal/auth/token"
	"dayflow/internal/config"
	"dayflow/internal/identity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:       testSecret,
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func newUser(t *testing.T, password string) *auth.User {
	t.Helper()
	pw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	employeeID := uuid.New()
	return &auth.User{
		ID:         uuid.New(),
		EmployeeID: &employeeID,
		LoginID:    "DFAK2026001",
		Email:      "aisha.khan@dayflow.test",
		Password:   string(pw),
		Role:       identity.RoleEmployee,
		IsActive:   true,
	}
}

func TestService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := authMock.NewMockRepository(ctrl)
	service := auth.NewService(mockRepo, testAuthConfig())
	ctx := context.Background()
	user := newUser(t, "password123")

	t.Run("Success Login", func(t *testing.T) {
		mockRepo.EXPECT().GetByIdentifier(ctx, user.LoginID).Return(user, nil)
		mockRepo.EXPECT().TouchLastLogin(ctx, user.ID, gomock.Any()).Return(nil)

		pair, resp, err := service.Login(ctx, user.LoginID, "password123")

		require.NoError(t, err)
		assert.Equal(t, user.Email, resp.Email)
		assert.Equal(t, user.EmployeeID.String(), resp.EmployeeID)

		claims, err := token.Parse(testSecret, pair.AccessToken, token.KindAccess)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, identity.RoleEmployee, claims.Role)

		_, err = token.Parse(testSecret, pair.AccessToken, token.KindRefresh)
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		mockRepo.EXPECT().GetByIdentifier(ctx, user.Email).Return(user, nil)

		_, _, err := service.Login(ctx, user.Email, "wrongpass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("Unknown User", func(t *testing.T) {
		mockRepo.EXPECT().GetByIdentifier(ctx, "nobody").Return(nil, gorm.ErrRecordNotFound)

		_, _, err := service.Login(ctx, "nobody", "password123")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("Disabled Account", func(t *testing.T) {
		disabled := newUser(t, "password123")
		disabled.IsActive = false
		mockRepo.EXPECT().GetByIdentifier(ctx, disabled.LoginID).Return(disabled, nil)

		_, _, err := service.Login(ctx, disabled.LoginID, "password123")
		assert.ErrorIs(t, err, autherrors.ErrAccountDisabled)
	})
}

func TestService_RefreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := authMock.NewMockRepository(ctrl)
	service := auth.NewService(mockRepo, testAuthConfig())
	ctx := context.Background()
	user := newUser(t, "password123")

	t.Run("Success", func(t *testing.T) {
		refresh, err := token.Issue(testSecret, token.Claims{UserID: user.ID.String(), Kind: token.KindRefresh}, time.Hour, time.Now())
		require.NoError(t, err)
		mockRepo.EXPECT().GetByID(ctx, user.ID).Return(user, nil)

		pair, resp, err := service.RefreshToken(ctx, refresh)

		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.Equal(t, user.ID.String(), resp.ID)
	})

	t.Run("Access token is not a refresh token", func(t *testing.T) {
		access, err := token.Issue(testSecret, token.Claims{UserID: user.ID.String(), Kind: token.KindAccess}, time.Hour, time.Now())
		require.NoError(t, err)

		_, _, err = service.RefreshToken(ctx, access)
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("Expired", func(t *testing.T) {
		expired, err := token.Issue(testSecret, token.Claims{UserID: user.ID.String(), Kind: token.KindRefresh}, time.Minute, time.Now().Add(-time.Hour))
		require.NoError(t, err)

		_, _, err = service.RefreshToken(ctx, expired)
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := authMock.NewMockRepository(ctrl)
	service := auth.NewService(mockRepo, testAuthConfig())
	ctx := context.Background()
	user := newUser(t, "Temp@Pass123")
	user.PasswordChangeRequired = true
	p := identity.Principal{UserID: user.ID.String(), Role: identity.RoleEmployee}

	t.Run("Success", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, user.ID).Return(user, nil)
		mockRepo.EXPECT().UpdatePassword(ctx, user.ID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, hash string) error {
				assert.True(t, auth.CheckPassword(hash, "brandnew2026"))
				return nil
			})

		err := service.ChangePassword(ctx, p, auth.ChangePasswordRequest{CurrentPassword: "Temp@Pass123", NewPassword: "brandnew2026"})
		assert.NoError(t, err)
	})

	t.Run("Wrong current password", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, user.ID).Return(user, nil)

		err := service.ChangePassword(ctx, p, auth.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "brandnew2026"})
		assert.ErrorIs(t, err, autherrors.ErrWrongCurrentPassword)
	})

	t.Run("Weak new password", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(ctx, user.ID).Return(user, nil)

		err := service.ChangePassword(ctx, p, auth.ChangePasswordRequest{CurrentPassword: "Temp@Pass123", NewPassword: "onlyletters"})
		assert.ErrorIs(t, err, autherrors.ErrWeakPassword)
	})
}

func TestGenerateTempPassword(t *testing.T) {
	for i := 0; i < 20; i++ {
		pw, err := auth.GenerateTempPassword()
		require.NoError(t, err)
		assert.Len(t, pw, 12)
		assert.Regexp(t, `[A-Z]`, pw)
		assert.Regexp(t, `[a-z]`, pw)
		assert.Regexp(t, `[0-9]`, pw)
		assert.Regexp(t, `[@#$%&*]`, pw)
	}
}

func TestNewProvisionedUser(t *testing.T) {
	employeeID := uuid.New()

	u, plain, err := auth.NewProvisionedUser(employeeID, "dfak2026001", " Aisha.Khan@Dayflow.TEST ", "superuser")

	require.NoError(t, err)
	assert.Equal(t, "DFAK2026001", u.LoginID)
	assert.Equal(t, "aisha.khan@dayflow.test", u.Email)
	assert.Equal(t, identity.RoleEmployee, u.Role)
	assert.True(t, u.PasswordChangeRequired)
	assert.True(t, auth.CheckPassword(u.Password, plain))
	assert.Equal(t, employeeID, *u.EmployeeID)
}
