package service

import (
	"context"
	"testing"
	"time"

	"color-notes-be/internal/pkg/logger"
	"color-notes-be/internal/repository/memory"
	"color-notes-be/pkg/events"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(pub EventPublisher) IAuthService {
	return NewAuthService(
		memory.NewUserRepository(),
		memory.NewSessionRepository(time.Hour),
		"test-secret",
		time.Hour,
		pub,
		logger.NewNopLogger(),
	)
}

func TestAuthService_RegisterLoginAuthenticateLogout(t *testing.T) {
	ctx := context.Background()
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, eventOfType(events.TypeUserLogin)).Return(nil).Once()
	auth := newTestAuthService(pub)

	user, err := auth.Register(ctx, " Ann@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	session, err := auth.Login(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.Id.String(), session.UserId)
	assert.NotEmpty(t, session.Token)

	restored, err := auth.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.TokenId, restored.TokenId)

	require.NoError(t, auth.Logout(ctx, session.Token))
	_, err = auth.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	pub.AssertExpectations(t)
}

func TestAuthService_Failures(t *testing.T) {
	ctx := context.Background()
	auth := newTestAuthService(nil)

	_, err := auth.Register(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{
			name: "duplicate email",
			run: func() error {
				_, err := auth.Register(ctx, "ANN@example.com", "other")
				return err
			},
			want: ErrEmailTaken,
		},
		{
			name: "wrong password",
			run: func() error {
				_, err := auth.Login(ctx, "ann@example.com", "nope")
				return err
			},
			want: ErrInvalidCredentials,
		},
		{
			name: "unknown user",
			run: func() error {
				_, err := auth.Login(ctx, "bob@example.com", "secret1")
				return err
			},
			want: ErrInvalidCredentials,
		},
		{
			name: "garbage token",
			run: func() error {
				_, err := auth.Authenticate(ctx, "not-a-jwt")
				return err
			},
			want: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), tt.want)
		})
	}
}

func TestAuthService_RejectsForeignAndUnregisteredTokens(t *testing.T) {
	ctx := context.Background()
	auth := newTestAuthService(nil)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"jti":     "t1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Correctly signed, but never issued by this backend.
	unregistered, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"jti":     "t1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, unregistered)
	assert.ErrorIs(t, err, ErrInvalidToken)

	assert.NoError(t, auth.Logout(ctx, "garbage"))
}

func TestAuthGateway_SignUpSignOutRestore(t *testing.T) {
	ctx := context.Background()
	auth := newTestAuthService(nil)
	gateway := NewAuthGateway(auth)

	assert.False(t, gateway.HasUser())
	assert.Empty(t, gateway.UserId())

	require.NoError(t, gateway.SignUp(ctx, "ann@example.com", "secret1"))
	require.True(t, gateway.HasUser())
	session := gateway.CurrentSession()
	require.NotNil(t, session)
	assert.Equal(t, session.UserId, gateway.UserId())

	other := NewAuthGateway(auth)
	require.NoError(t, other.Restore(ctx, session.Token))
	assert.Equal(t, session.UserId, other.UserId())

	require.NoError(t, gateway.SignOut(ctx))
	assert.False(t, gateway.HasUser())
	assert.ErrorIs(t, NewAuthGateway(auth).Restore(ctx, session.Token), ErrInvalidToken)

	assert.NoError(t, gateway.SignOut(ctx))
}

func TestAuthGateway_FailedSignInKeepsNoSession(t *testing.T) {
	gateway := NewAuthGateway(newTestAuthService(nil))

	err := gateway.SignIn(context.Background(), "ghost@example.com", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, gateway.HasUser())
}

func TestNopAuthGateway(t *testing.T) {
	var gateway IAuthGateway = NopAuthGateway{}

	assert.False(t, gateway.HasUser())
	assert.Nil(t, gateway.CurrentSession())
	assert.ErrorIs(t, gateway.SignIn(context.Background(), "a", "b"), ErrBackendUnavailable)
	assert.NoError(t, gateway.SignOut(context.Background()))
}
