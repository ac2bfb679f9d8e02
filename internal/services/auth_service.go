package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hisakawa/tsunagari/internal/entities"
	"github.com/hisakawa/tsunagari/internal/repositories"
)

// AuthServiceInterface defines the interface for registration and token handling
type AuthServiceInterface interface {
	Register(ctx context.Context, username string, email string, password string) (*entities.User, string, error)
	Login(ctx context.Context, email string, password string) (*entities.User, string, error)
	Authenticate(ctx context.Context, token string) (string, error)
}

// AuthService issues and validates bearer tokens and manages credentials.
// Usernames and emails are stored lowercase; passwords are bcrypt hashed.
type AuthService struct {
	userRepo repositories.UserRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.UserRepository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Register creates a new account and returns it with a signed token.
func (s *AuthService) Register(ctx context.Context, username string, email string, password string) (*entities.User, string, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("register: %w: username, email and password are required", entities.ErrInvalidArgument)
	}
	if len(password) < 6 {
		return nil, "", fmt.Errorf("register: %w: password must be at least 6 characters", entities.ErrInvalidArgument)
	}
	if !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("register: %w: invalid email address", entities.ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &entities.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Graph:        entities.NewUserGraph(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the account with a signed token.
// Unknown email and wrong password produce the same error, so callers cannot
// probe which emails are registered.
func (s *AuthService) Login(ctx context.Context, email string, password string) (*entities.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("login: %w: email and password are required", entities.ErrInvalidArgument)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, "", fmt.Errorf("login: %w: invalid email or password", entities.ErrInvalidArgument)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("login: %w: invalid email or password", entities.ErrInvalidArgument)
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate validates a bearer token and returns the caller's user id.
// The account must still exist; tokens for deleted accounts are rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	userID, err := s.parseToken(token)
	if err != nil {
		return "", fmt.Errorf("authenticate: %w: %v", entities.ErrInvalidArgument, err)
	}

	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("authenticate: %w: user %s", entities.ErrNotFound, userID)
	}
	return userID, nil
}

func (s *AuthService) signToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return sub, nil
}
