// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/platform/constants"
	"github.com/taibuivan/springfield/internal/platform/sec"
	"github.com/taibuivan/springfield/internal/platform/validate"
	"github.com/taibuivan/springfield/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - role: The role of the account.
	//   - timeToLive: The duration before the token expires.
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginInput accepts either an email address or a username in Login.
type LoginInput struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// identifier picks the first credential the client sent.
func (input LoginInput) identifier() string {
	for _, candidate := range []string{input.Login, input.Email, input.Username} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// Session is the result of a successful authentication.
type Session struct {
	User        *User     `json:"user"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
	logger         *slog.Logger
	now            func() time.Time
}

// NewService constructs a new auth [Service].
func NewService(userRepository UserRepository, tokenProvider TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		userRepository: userRepository,
		tokenProvider:  tokenProvider,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// # Registration Flow

/*
Register creates a member account and signs it in.

Description: Inputs are validated before anything is hashed; the email is
stored lowercased. Uniqueness of email and username is enforced by the store.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Session: the new user with an access token
  - error: ValidationError, DuplicateKey or internal failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Session, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Username = strings.TrimSpace(input.Username)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, UsernameMinLength).
		MaxLen(FieldUsername, input.Username, UsernameMaxLength)
	validator.Required(FieldPassword, input.Password).MinLen(FieldPassword, input.Password, PasswordMinLength)
	validator.Custom(FieldPassword, len(input.Password) > sec.PasswordMaxBytes, "Maximum 72 bytes")
	validator.MaxLen(FieldFirstName, input.FirstName, NameMaxLength)
	validator.MaxLen(FieldLastName, input.LastName, NameMaxLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := service.now()
	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_registered", slog.String("user_id", user.ID), slog.String("username", user.Username))
	return service.issue(user, now)
}

// # Authentication Flow

/*
Login verifies credentials and issues an access token.

Description: The identifier is tried as an email when it contains "@", as a
username otherwise. Unknown accounts and wrong passwords share one generic
error. A deactivated account is refused after the password check.

Returns:
  - *Session: the user with an access token
  - error: Unauthorized, Forbidden or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	identifier := input.identifier()

	validator := &validate.Validator{}
	validator.Required(FieldLogin, identifier)
	validator.Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.lookup(context, identifier)
	if apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}
	if err != nil {
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.logger.Warn("login_failed", slog.String("user_id", user.ID))
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	if !user.IsActive {
		return nil, apperr.Forbidden("This account has been deactivated")
	}

	now := service.now()
	if err := service.userRepository.TouchLastLogin(context, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	service.logger.Info("user_logged_in", slog.String("user_id", user.ID))
	return service.issue(user, now)
}

func (service *Service) lookup(context context.Context, identifier string) (*User, error) {
	if strings.Contains(identifier, "@") {
		return service.userRepository.FindByEmail(context, identifier)
	}
	return service.userRepository.FindByUsername(context, identifier)
}

func (service *Service) issue(user *User, now time.Time) (*Session, error) {
	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, string(user.Role()), constants.AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &Session{User: user, AccessToken: token, ExpiresAt: now.Add(constants.AccessTokenTTL)}, nil
}

// # Identity Reads

// Me returns the account behind an authenticated request.
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}

// AuthorName resolves the display name snapshotted onto news items.
func (service *Service) AuthorName(context context.Context, userID string) (string, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return "", err
	}
	return user.DisplayName(), nil
}
