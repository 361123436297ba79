// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/springfield/internal/platform/validate"
	"github.com/taibuivan/springfield/internal/users/auth"
)

// Service implements the account use cases.
type Service struct {
	repo   AccountRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs an account [Service].
func NewService(repo AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Profile returns the caller's own account.
func (service *Service) Profile(context context.Context, userID string) (*auth.User, error) {
	return service.repo.FindByID(context, userID)
}

/*
UpdateProfile applies a partial profile update.

Description: Names and bio are trimmed and bounded; the email, username and
flags cannot be changed through this path.

Returns:
  - *auth.User: the updated account
  - error: NotFound or ValidationError
*/
func (service *Service) UpdateProfile(context context.Context, userID string, patch ProfilePatch) (*auth.User, error) {
	user, err := service.repo.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	patch.Apply(user)
	user.FirstName = strings.TrimSpace(user.FirstName)
	user.LastName = strings.TrimSpace(user.LastName)
	user.Bio = strings.TrimSpace(user.Bio)

	validator := &validate.Validator{}
	validator.MaxLen(auth.FieldFirstName, user.FirstName, auth.NameMaxLength)
	validator.MaxLen(auth.FieldLastName, user.LastName, auth.NameMaxLength)
	validator.MaxLen(auth.FieldBio, user.Bio, auth.BioMaxLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user.UpdatedAt = service.now()
	if err := service.repo.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("profile_updated", slog.String("user_id", userID))
	return user, nil
}
