package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maumlog/maum-api/internal/adapters/storage/memory"
	"github.com/maumlog/maum-api/internal/domain"
)

func TestConsultRepositoryRoundTrip(t *testing.T) {
	repo := memory.NewConsultRepository()
	ctx := context.Background()

	session, err := domain.NewConsultSession("s1", "u1", "INTJ", domain.GenderMale, time.Now())
	require.NoError(t, err)

	roles := []domain.Role{domain.RoleUser, domain.RoleAssistant}
	for i := 0; i < 7; i++ {
		msg, err := domain.NewMessage(roles[i%2], fmt.Sprintf("message %d", i), time.Now())
		require.NoError(t, err)
		session.AddMessage(msg)
	}

	require.NoError(t, repo.Save(ctx, session))

	loaded, err := repo.FindByID(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, session.UserID(), loaded.UserID())
	assert.Equal(t, session.MBTI(), loaded.MBTI())
	assert.Equal(t, session.Gender(), loaded.Gender())
	assert.Equal(t, session.UserTurnCount(), loaded.UserTurnCount())

	want := session.Messages()
	got := loaded.Messages()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Role, got[i].Role, "role at %d", i)
		assert.Equal(t, want[i].Content, got[i].Content, "content at %d", i)
	}
}

func TestConsultRepositoryAbsent(t *testing.T) {
	repo := memory.NewConsultRepository()

	loaded, err := repo.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestConsultRepositorySaveIsFullReplace(t *testing.T) {
	repo := memory.NewConsultRepository()
	ctx := context.Background()

	session, err := domain.NewConsultSession("s1", "u1", "INTJ", domain.GenderMale, time.Now())
	require.NoError(t, err)
	msg, err := domain.NewMessage(domain.RoleUser, "first", time.Now())
	require.NoError(t, err)
	session.AddMessage(msg)
	require.NoError(t, repo.Save(ctx, session))

	// Mutations after save are invisible until the next save.
	msg2, err := domain.NewMessage(domain.RoleUser, "second", time.Now())
	require.NoError(t, err)
	session.AddMessage(msg2)

	loaded, err := repo.FindByID(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, loaded.Messages(), 1)

	require.NoError(t, repo.Save(ctx, session))
	loaded, err = repo.FindByID(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, loaded.Messages(), 2)
}
