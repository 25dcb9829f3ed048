package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"eventro/config"
	"eventro/infras/jwt"
	jwtMocks "eventro/infras/jwt/mocks"
	"eventro/infras/otel/mocks"
	"eventro/internal/domains/auth/model/dto"
	"eventro/internal/domains/auth/service"
	userMocks "eventro/internal/domains/user/mocks"
	userModel "eventro/internal/domains/user/model"
	"eventro/shared/constant"
	"eventro/shared/failure"
	gModel "eventro/shared/model"
	"eventro/shared/password"
	"eventro/shared/timezone"
)

func newAuthService(t *testing.T) (service.Auth, *userMocks.MockUser, *jwtMocks.MockJWT) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockUserRepo, cfg, mockOtel, mockJWT)

	return svc, mockUserRepo, mockJWT
}

func validTestUser(t *testing.T) userModel.User {
	t.Helper()

	hashed, err := password.Hash("password123")
	assert.NoError(t, err)

	return userModel.User{
		ID:       "user-id-123",
		Email:    "test@example.com",
		Password: hashed,
		Name:     "Test User",
		Role:     constant.RoleUser,
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  "system",
			ModifiedBy: "system",
		},
	}
}

func TestAuthService_Register(t *testing.T) {
	req := dto.RegisterRequest{
		Email:    "new@example.com",
		Password: "password123",
		Name:     "New User",
	}

	tests := []struct {
		name      string
		setupMock func(repo *userMocks.MockUser)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful registration",
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, user userModel.User) error {
						assert.Equal(t, req.Email, user.Email)
						assert.Equal(t, constant.RoleUser, user.Role)
						assert.NotEqual(t, req.Password, user.Password)
						assert.True(t, user.Active)
						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "email already registered",
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "repository error",
			setupMock: func(repo *userMocks.MockUser) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _ := newAuthService(t)
			tt.setupMock(mockRepo)

			err := svc.Register(context.Background(), req)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresIn:    900,
	}

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func(repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT, user userModel.User)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password123"},
			setupMock: func(repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT, user userModel.User) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(user, nil)
				jwtSvc.EXPECT().
					GenerateTokenPair(user.ID, user.Email, user.Role).
					Return(tokenPair, nil)
				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "wrong-password"},
			setupMock: func(repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT, user userModel.User) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(user, nil)
			},
			wantErr:  true,
			wantCode: 401,
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "missing@example.com", Password: "password123"},
			setupMock: func(repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT, user userModel.User) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{}, nil)
			},
			wantErr:  true,
			wantCode: 401,
		},
		{
			name: "deactivated account",
			req:  dto.LoginRequest{Email: "test@example.com", Password: "password123"},
			setupMock: func(repo *userMocks.MockUser, jwtSvc *jwtMocks.MockJWT, user userModel.User) {
				user.Active = false
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(user, nil)
			},
			wantErr:  true,
			wantCode: 403,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockJWT := newAuthService(t)
			tt.setupMock(mockRepo, mockJWT, validTestUser(t))

			res, err := svc.Login(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tokenPair.AccessToken, res.AccessToken)
				assert.Equal(t, tokenPair.RefreshToken, res.RefreshToken)
			}
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(jwtSvc *jwtMocks.MockJWT)
		wantErr   bool
	}{
		{
			name: "successful refresh",
			setupMock: func(jwtSvc *jwtMocks.MockJWT) {
				jwtSvc.EXPECT().
					RefreshTokens("valid-refresh-token").
					Return(&jwt.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)
			},
			wantErr: false,
		},
		{
			name: "invalid refresh token",
			setupMock: func(jwtSvc *jwtMocks.MockJWT) {
				jwtSvc.EXPECT().
					RefreshTokens("valid-refresh-token").
					Return(nil, errors.New("token expired"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, mockJWT := newAuthService(t)
			tt.setupMock(mockJWT)

			res, err := svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "valid-refresh-token"})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, 401, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "new-access", res.AccessToken)
			}
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.ChangePasswordRequest
		setupMock func(repo *userMocks.MockUser, user userModel.User)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful change",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "new-password-456"},
			setupMock: func(repo *userMocks.MockUser, user userModel.User) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(user, nil)
				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "wrong current password",
			req:  dto.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "new-password-456"},
			setupMock: func(repo *userMocks.MockUser, user userModel.User) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(user, nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "user not found",
			req:  dto.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "new-password-456"},
			setupMock: func(repo *userMocks.MockUser, user userModel.User) {
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _ := newAuthService(t)
			tt.setupMock(mockRepo, validTestUser(t))

			err := svc.ChangePassword(context.Background(), tt.req, "user-id-123")

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
