package consult_test

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maumlog/maum-api/internal/adapters/llm"
	"github.com/maumlog/maum-api/internal/adapters/storage/memory"
	"github.com/maumlog/maum-api/internal/app/consult"
	"github.com/maumlog/maum-api/internal/domain"
)

func newTestService(t *testing.T, counselor domain.Counselor) (*consult.Service, *memory.ConsultRepository) {
	t.Helper()

	users := memory.NewUserRepository()
	require.NoError(t, users.Save(context.Background(), &domain.User{
		ID: "u1", Email: "u1@example.com", MBTI: "INTJ", Gender: domain.GenderMale,
	}))
	require.NoError(t, users.Save(context.Background(), &domain.User{
		ID: "u2", Email: "u2@example.com", MBTI: "ENFP", Gender: domain.GenderFemale,
	}))
	require.NoError(t, users.Save(context.Background(), &domain.User{
		ID: "no-profile", Email: "np@example.com",
	}))

	sessions := memory.NewConsultRepository()
	return consult.NewService(counselor, sessions, users), sessions
}

func TestStartConsult(t *testing.T) {
	svc, sessions := newTestService(t, llm.NewFakeCounselor())

	out, err := svc.Start(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, out.SessionID)
	assert.NotEmpty(t, out.Greeting)

	saved, err := sessions.FindByID(context.Background(), out.SessionID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, domain.UserID("u1"), saved.UserID())
	assert.Empty(t, saved.Messages())
	assert.False(t, saved.IsCompleted())
}

func TestStartConsultRequiresProfile(t *testing.T) {
	svc, _ := newTestService(t, llm.NewFakeCounselor())

	_, err := svc.Start(context.Background(), "no-profile")
	require.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = svc.Start(context.Background(), "nobody")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFiveTurnConsultation(t *testing.T) {
	svc, sessions := newTestService(t, llm.NewFakeCounselor())

	out, err := svc.Start(context.Background(), "u1")
	require.NoError(t, err)

	in := consult.SendMessageInput{SessionID: out.SessionID, UserID: "u1", Content: "안녕"}

	for want := domain.MaxUserTurns - 1; want >= 0; want-- {
		reply, err := svc.SendMessage(context.Background(), in)
		require.NoError(t, err)
		assert.NotEmpty(t, reply.Response)
		assert.Equal(t, want, reply.RemainingTurns)
	}

	session, err := sessions.FindByID(context.Background(), out.SessionID)
	require.NoError(t, err)
	assert.True(t, session.IsCompleted())
	assert.Len(t, session.Messages(), 2*domain.MaxUserTurns)

	// The sixth send is rejected and leaves the log untouched.
	_, err = svc.SendMessage(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrInvalidState)

	after, err := sessions.FindByID(context.Background(), out.SessionID)
	require.NoError(t, err)
	assert.Len(t, after.Messages(), 2*domain.MaxUserTurns)
}

func TestSendMessageNotFound(t *testing.T) {
	svc, _ := newTestService(t, llm.NewFakeCounselor())

	_, err := svc.SendMessage(context.Background(), consult.SendMessageInput{
		SessionID: "never-created", UserID: "u1", Content: "안녕",
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSendMessageForbidden(t *testing.T) {
	svc, sessions := newTestService(t, llm.NewFakeCounselor())

	out, err := svc.Start(context.Background(), "u1")
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), consult.SendMessageInput{
		SessionID: out.SessionID, UserID: "u2", Content: "안녕",
	})
	require.ErrorIs(t, err, domain.ErrForbidden)

	// State untouched.
	session, err := sessions.FindByID(context.Background(), out.SessionID)
	require.NoError(t, err)
	assert.Empty(t, session.Messages())
}

// failingCounselor fails every operation, standing in for an upstream outage.
type failingCounselor struct{}

func (failingCounselor) GenerateGreeting(ctx context.Context, mbti domain.MBTI, gender domain.Gender) (string, error) {
	return "", errors.New("upstream timeout")
}

func (failingCounselor) GenerateResponse(ctx context.Context, s *domain.ConsultSession, m string) (string, error) {
	return "", errors.New("upstream timeout")
}

func (failingCounselor) GenerateResponseStream(ctx context.Context, s *domain.ConsultSession, m string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		yield("", errors.New("upstream timeout"))
	}
}

func TestCapabilityFailurePropagates(t *testing.T) {
	svc, _ := newTestService(t, failingCounselor{})

	_, err := svc.Start(context.Background(), "u1")
	require.ErrorIs(t, err, domain.ErrCapability)
	require.NotErrorIs(t, err, domain.ErrValidation)
}

func TestStreamMessage(t *testing.T) {
	svc, sessions := newTestService(t, llm.NewFakeCounselor())

	out, err := svc.Start(context.Background(), "u1")
	require.NoError(t, err)

	var fragments []string
	err = svc.StreamMessage(context.Background(), consult.SendMessageInput{
		SessionID: out.SessionID, UserID: "u1", Content: "요즘 고민이 많아",
	}, func(fragment string) error {
		fragments = append(fragments, fragment)
		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, fragments)

	session, err := sessions.FindByID(context.Background(), out.SessionID)
	require.NoError(t, err)
	msgs := session.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, domain.RoleAssistant, msgs[1].Role)

	// The persisted assistant message is the concatenation of the fragments.
	var joined string
	for _, f := range fragments {
		joined += f
	}
	assert.Equal(t, joined, msgs[1].Content)
}

func TestStreamMessageConsumerGone(t *testing.T) {
	svc, sessions := newTestService(t, llm.NewFakeCounselor())

	out, err := svc.Start(context.Background(), "u1")
	require.NoError(t, err)

	err = svc.StreamMessage(context.Background(), consult.SendMessageInput{
		SessionID: out.SessionID, UserID: "u1", Content: "안녕",
	}, func(string) error {
		return errors.New("client disconnected")
	})
	require.NoError(t, err)

	// The user turn was persisted before streaming; no assistant message was.
	session, err := sessions.FindByID(context.Background(), out.SessionID)
	require.NoError(t, err)
	msgs := session.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
}

// emptyStreamCounselor greets normally but its stream exhausts without
// yielding any content.
type emptyStreamCounselor struct{ domain.Counselor }

func (emptyStreamCounselor) GenerateResponseStream(ctx context.Context, s *domain.ConsultSession, m string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {}
}

func TestStreamMessageEmptyResponse(t *testing.T) {
	svc, sessions := newTestService(t, emptyStreamCounselor{llm.NewFakeCounselor()})

	out, err := svc.Start(context.Background(), "u1")
	require.NoError(t, err)

	err = svc.StreamMessage(context.Background(), consult.SendMessageInput{
		SessionID: out.SessionID, UserID: "u1", Content: "안녕",
	}, func(string) error { return nil })
	require.ErrorIs(t, err, domain.ErrCapability)
	require.NotErrorIs(t, err, domain.ErrValidation)

	// The user turn stays persisted; no assistant message was added.
	session, err := sessions.FindByID(context.Background(), out.SessionID)
	require.NoError(t, err)
	msgs := session.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
}

func TestStreamMessagePreconditions(t *testing.T) {
	svc, _ := newTestService(t, llm.NewFakeCounselor())

	out, err := svc.Start(context.Background(), "u1")
	require.NoError(t, err)

	err = svc.StreamMessage(context.Background(), consult.SendMessageInput{
		SessionID: out.SessionID, UserID: "u2", Content: "안녕",
	}, func(string) error {
		t.Fatal("sink must not be called when preconditions fail")
		return nil
	})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTimelineOwnership(t *testing.T) {
	svc, _ := newTestService(t, llm.NewFakeCounselor())

	out, err := svc.Start(context.Background(), "u1")
	require.NoError(t, err)

	_, err = svc.Timeline(context.Background(), out.SessionID, "u2")
	require.ErrorIs(t, err, domain.ErrForbidden)

	session, err := svc.Timeline(context.Background(), out.SessionID, "u1")
	require.NoError(t, err)
	assert.Equal(t, out.SessionID, session.ID())
}
