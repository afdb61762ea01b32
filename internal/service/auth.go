// Package service contains the business logic for the viaggio API.
// Services validate inputs, enforce business rules, and orchestrate repo
// and pipeline calls. No SQL lives here — services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mbenedetti/viaggio/internal/domain"
	"github.com/mbenedetti/viaggio/internal/repo"
)

const (
	minPasswordLen = 8
	tokenLifetime  = 24 * time.Hour
)

// AuthService implements account registration, login, and session tokens.
type AuthService struct {
	users     repo.UserRepo
	jwtSecret []byte
	now       func() time.Time
}

// NewAuthService constructs an AuthService over the given user repo and
// token signing secret.
func NewAuthService(users repo.UserRepo, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

// hashPassword returns hex(sha256(salt + ":" + password)).
func hashPassword(salt, password string) string {
	sum := sha256.Sum256([]byte(salt + ":" + password))
	return hex.EncodeToString(sum[:])
}

// newSalt returns a random per-user hex salt.
func newSalt() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

// Register creates a new account. Usernames are unique; a taken name
// surfaces as domain.ErrValidation from the repo.
func (s *AuthService) Register(ctx context.Context, username, password, email string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w: username is required", domain.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w: password must be at least %d characters",
			domain.ErrValidation, minPasswordLen)
	}

	salt, err := newSalt()
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Username:     username,
		PasswordHash: hashPassword(salt, password),
		Salt:         salt,
		Email:        strings.TrimSpace(email),
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	return user, nil
}

// Login verifies credentials and returns the user with a signed session
// token. Wrong username and wrong password both yield
// domain.ErrUnauthorized, indistinguishably.
func (s *AuthService) Login(ctx context.Context, username, password string) (domain.User, string, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
		}
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}

	computed := hashPassword(user.Salt, password)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(user.PasswordHash)) != 1 {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return user, token, nil
}

// issueToken signs an HS256 session token for the user.
func (s *AuthService) issueToken(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// VerifyToken parses and validates a session token, returning the user ID
// it was issued for. Any parse, signature, or expiry failure yields
// domain.ErrUnauthorized.
func (s *AuthService) VerifyToken(token string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return uuid.Nil, fmt.Errorf("service.AuthService.VerifyToken: %w", domain.ErrUnauthorized)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, fmt.Errorf("service.AuthService.VerifyToken: %w", domain.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.AuthService.VerifyToken: %w", domain.ErrUnauthorized)
	}
	return userID, nil
}
