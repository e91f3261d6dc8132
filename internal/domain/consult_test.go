package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maumlog/maum-api/internal/domain"
)

func newTestSession(t *testing.T) *domain.ConsultSession {
	t.Helper()
	s, err := domain.NewConsultSession("sess-1", "u1", "INTJ", domain.GenderMale, time.Now())
	require.NoError(t, err)
	return s
}

func mustMessage(t *testing.T, role domain.Role, content string) domain.Message {
	t.Helper()
	m, err := domain.NewMessage(role, content, time.Time{})
	require.NoError(t, err)
	return m
}

func TestNewConsultSessionValidation(t *testing.T) {
	cases := []struct {
		name   string
		id     domain.SessionID
		userID domain.UserID
		mbti   domain.MBTI
		gender domain.Gender
	}{
		{"empty id", "", "u1", "INTJ", domain.GenderMale},
		{"empty user id", "s1", "", "INTJ", domain.GenderMale},
		{"missing mbti", "s1", "u1", "", domain.GenderMale},
		{"missing gender", "s1", "u1", "INTJ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.NewConsultSession(tc.id, tc.userID, tc.mbti, tc.gender, time.Now())
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestUserTurnCountMatchesUserMessages(t *testing.T) {
	s := newTestSession(t)
	require.Equal(t, 0, s.UserTurnCount())

	s.AddMessage(mustMessage(t, domain.RoleAssistant, "greeting"))
	require.Equal(t, 0, s.UserTurnCount())

	for i := 1; i <= 3; i++ {
		s.AddMessage(mustMessage(t, domain.RoleUser, "hello"))
		s.AddMessage(mustMessage(t, domain.RoleAssistant, "reply"))
		require.Equal(t, i, s.UserTurnCount())
	}
}

func TestCompletionBoundary(t *testing.T) {
	s := newTestSession(t)
	for i := 0; i < domain.MaxUserTurns; i++ {
		assert.False(t, s.IsCompleted(), "not completed at %d turns", i)
		s.AddMessage(mustMessage(t, domain.RoleUser, "turn"))
	}
	assert.True(t, s.IsCompleted())
	assert.Equal(t, 0, s.RemainingTurns())

	// Past the boundary the predicate stays true.
	s.AddMessage(mustMessage(t, domain.RoleUser, "extra"))
	assert.True(t, s.IsCompleted())
	assert.Equal(t, 0, s.RemainingTurns())
}

func TestMessagesReturnsDefensiveCopy(t *testing.T) {
	s := newTestSession(t)
	s.AddMessage(mustMessage(t, domain.RoleUser, "original"))

	msgs := s.Messages()
	msgs[0].Content = "mutated"

	require.Equal(t, "original", s.Messages()[0].Content)
}

func TestNewMessageValidation(t *testing.T) {
	_, err := domain.NewMessage(domain.RoleUser, "", time.Time{})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = domain.NewMessage("narrator", "hi", time.Time{})
	require.ErrorIs(t, err, domain.ErrValidation)

	m, err := domain.NewMessage(domain.RoleUser, "hi", time.Time{})
	require.NoError(t, err)
	assert.False(t, m.Timestamp.IsZero(), "timestamp should default to now")
}

func TestParseMBTI(t *testing.T) {
	m, err := domain.ParseMBTI(" intj ")
	require.NoError(t, err)
	assert.Equal(t, domain.MBTI("INTJ"), m)
	assert.Equal(t, byte('I'), m.Energy())
	assert.Equal(t, byte('N'), m.Information())
	assert.Equal(t, byte('T'), m.Decision())
	assert.Equal(t, byte('J'), m.Lifestyle())

	for _, bad := range []string{"", "INT", "XNTJ", "INTJP", "ABCD"} {
		_, err := domain.ParseMBTI(bad)
		assert.ErrorIs(t, err, domain.ErrValidation, "input %q", bad)
	}
}

func TestParseGender(t *testing.T) {
	g, err := domain.ParseGender("male")
	require.NoError(t, err)
	assert.Equal(t, domain.GenderMale, g)

	_, err = domain.ParseGender("unknown")
	require.ErrorIs(t, err, domain.ErrValidation)
}
