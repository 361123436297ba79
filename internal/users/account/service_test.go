// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/springfield/internal/platform/apperr"
	"github.com/taibuivan/springfield/internal/users/account"
	"github.com/taibuivan/springfield/internal/users/auth"
	"github.com/taibuivan/springfield/pkg/pointer"
	"github.com/taibuivan/springfield/pkg/uuid"
)

func newService(t *testing.T) (*account.Service, *auth.User) {
	t.Helper()

	repo := auth.NewMemoryUserRepository()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	user := &auth.User{
		ID:        uuid.New(),
		Email:     "ned@springfield.com",
		Username:  "ned",
		FirstName: "Ned",
		LastName:  "Flanders",
		IsActive:  true,
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, repo.Create(context.Background(), user))

	return account.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), user
}

func TestUpdateProfile(t *testing.T) {
	service, user := newService(t)

	updated, err := service.UpdateProfile(context.Background(), user.ID, account.ProfilePatch{
		Bio: pointer.To("  Hi-diddly-ho, neighborino!  "),
	})
	require.NoError(t, err)

	assert.Equal(t, "Hi-diddly-ho, neighborino!", updated.Bio)
	assert.Equal(t, "Ned", updated.FirstName)
	assert.Equal(t, "ned@springfield.com", updated.Email)
	assert.True(t, updated.UpdatedAt.After(user.UpdatedAt))

	profile, err := service.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Bio, profile.Bio)
}

func TestUpdateProfile_Rejects(t *testing.T) {
	service, user := newService(t)

	_, err := service.UpdateProfile(context.Background(), user.ID, account.ProfilePatch{
		FirstName: pointer.To(strings.Repeat("n", auth.NameMaxLength+1)),
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	profile, err := service.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ned", profile.FirstName)

	_, err = service.UpdateProfile(context.Background(), uuid.New(), account.ProfilePatch{})
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
