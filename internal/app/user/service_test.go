package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maumlog/maum-api/internal/adapters/storage/memory"
	"github.com/maumlog/maum-api/internal/app/user"
	"github.com/maumlog/maum-api/internal/domain"
)

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	require.NoError(t, users.Save(ctx, &domain.User{ID: "u1", Email: "u1@example.com"}))

	svc := user.NewService(users)

	before, err := svc.Profile(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, before.HasProfile())

	updated, err := svc.UpdateProfile(ctx, "u1", "intj", "male")
	require.NoError(t, err)
	assert.Equal(t, domain.MBTI("INTJ"), updated.MBTI)
	assert.Equal(t, domain.GenderMale, updated.Gender)
	assert.True(t, updated.HasProfile())

	_, err = svc.UpdateProfile(ctx, "u1", "ABCD", "male")
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateProfile(ctx, "u1", "INTJ", "other")
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Profile(ctx, "ghost")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
