package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"color-notes-be/internal/entity"
	"color-notes-be/internal/pkg/logger"
	"color-notes-be/internal/repository/contract"
	"color-notes-be/pkg/events"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// EventPublisher is satisfied by *nats.Publisher; a nil publisher disables domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// IAuthService is the hosted authentication backend.
type IAuthService interface {
	Register(ctx context.Context, email, password string) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*entity.Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*entity.Session, error)
}

type authService struct {
	users          contract.UserRepository
	sessions       contract.SessionRepository
	secret         []byte
	sessionTTL     time.Duration
	eventPublisher EventPublisher
	logger         logger.ILogger
}

func NewAuthService(
	users contract.UserRepository,
	sessions contract.SessionRepository,
	jwtSecret string,
	sessionTTL time.Duration,
	eventPublisher EventPublisher,
	log logger.ILogger,
) IAuthService {
	if jwtSecret == "" {
		jwtSecret = "default_secret"
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &authService{
		users:          users,
		sessions:       sessions,
		secret:         []byte(jwtSecret),
		sessionTTL:     sessionTTL,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, email, password string) (*entity.User, error) {
	email = normalizeEmail(email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, backendErr("find user", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, contract.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, backendErr("create user", err)
	}

	s.logger.Info("AuthService", "User registered", map[string]interface{}{"user_id": user.Id.String()})
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*entity.Session, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, backendErr("find user", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	s.sessions.Save(session, s.sessionTTL)

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.UserLogin(session.UserId, session.Email)); err != nil {
			s.logger.Warn("AuthService", "Failed to publish USER_LOGIN event", map[string]interface{}{"error": err.Error()})
		}
	}

	return session, nil
}

func (s *authService) issue(user *entity.User) (*entity.Session, error) {
	tokenId := uuid.New().String()
	expiresAt := time.Now().Add(s.sessionTTL)

	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"email":   user.Email,
		"jti":     tokenId,
		"exp":     expiresAt.Unix(),
	}
	signedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &entity.Session{
		TokenId:   tokenId,
		Token:     signedToken,
		UserId:    user.Id.String(),
		Email:     user.Email,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout revokes the session behind token. Unknown or expired tokens are already logged out.
func (s *authService) Logout(ctx context.Context, token string) error {
	tokenId, err := s.tokenId(token)
	if err != nil {
		return nil
	}
	s.sessions.Delete(tokenId)
	return nil
}

// Authenticate accepts a token only while its signature, expiry and registry entry are all valid.
func (s *authService) Authenticate(ctx context.Context, token string) (*entity.Session, error) {
	tokenId, err := s.tokenId(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	session, ok := s.sessions.Get(tokenId)
	if !ok || session.Expired(time.Now()) || session.Token != token {
		return nil, ErrInvalidToken
	}
	return session, nil
}

func (s *authService) tokenId(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	tokenId, ok := claims["jti"].(string)
	if !ok || tokenId == "" {
		return "", ErrInvalidToken
	}
	return tokenId, nil
}
