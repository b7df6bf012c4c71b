package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/redmonkez12/account-api/internal/logging"
	"github.com/redmonkez12/account-api/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlocked     = errors.New("your account is blocked, please contact support")
)

const (
	minNameLen  = 1
	maxNameLen  = 100
	minEmailLen = 5
	maxEmailLen = 100
)

// LoginUser is the public part of the account returned on login
type LoginUser struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	LastLogin *time.Time `json:"last_login"`
}

// LoginResult is a freshly issued session
type LoginResult struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// Service handles registration and login
type Service struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenService
	logger *logging.Logger
	now    func() time.Time
}

func NewService(users UserStore, hasher PasswordHasher, tokens TokenService, logger *logging.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// Register creates a new active account
func (s *Service) Register(ctx context.Context, name, email, password string) (*user.User, error) {
	if err := validateRegistration(name, email, password); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, user.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// a concurrent registration can still win between the lookup and the
	// insert; the store reports that as ErrDuplicateEmail too
	newUser, err := s.users.Create(ctx, name, email, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			s.logger.Warn("duplicate email rejected by unique constraint", "email", email)
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return newUser, nil
}

// Login verifies credentials and issues a one-hour session token.
// Unknown email and wrong password both yield ErrInvalidCredentials. A blocked
// account yields ErrAccountBlocked before the password is looked at.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if existingUser.IsBlocked() {
		return nil, ErrAccountBlocked
	}

	if !s.hasher.Verify(password, existingUser.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLogin(ctx, existingUser.ID, s.now().UTC()); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// deleted between lookup and update
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}

	token, err := s.tokens.CreateToken(existingUser.ID, TokenValidity)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &LoginResult{
		Token: token,
		User: LoginUser{
			ID:        existingUser.ID,
			Name:      existingUser.Name,
			LastLogin: existingUser.LastLogin,
		},
	}, nil
}

func validateRegistration(name, email, password string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(name)); n < minNameLen || n > maxNameLen {
		return fmt.Errorf("%w: name must be between %d and %d characters", user.ErrInvalidInput, minNameLen, maxNameLen)
	}

	if n := len(email); n < minEmailLen || n > maxEmailLen {
		return fmt.Errorf("%w: email must be between %d and %d characters", user.ErrInvalidInput, minEmailLen, maxEmailLen)
	}
	if strings.Count(email, "@") != 1 || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		return fmt.Errorf("%w: email is not valid", user.ErrInvalidInput)
	}

	if password == "" {
		return fmt.Errorf("%w: password is required", user.ErrInvalidInput)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", user.ErrInvalidInput, MaxPasswordBytes)
	}

	return nil
}
