package domain

import (
	"context"
	"iter"
)

// Counselor defines how the core interacts with the AI counselor service.
// Implementations adapt their tone to the user's MBTI and gender and vary the
// response strategy by turn index; the final turn closes the conversation
// without asking further questions.
type Counselor interface {
	// GenerateGreeting produces the opening message of a new session. No
	// conversation history exists yet.
	GenerateGreeting(ctx context.Context, mbti MBTI, gender Gender) (string, error)

	// GenerateResponse produces a full reply conditioned on the session's
	// complete ordered history, including the newest user message.
	GenerateResponse(ctx context.Context, session *ConsultSession, userMessage string) (string, error)

	// GenerateResponseStream is GenerateResponse delivered as a finite,
	// non-restartable sequence of text fragments.
	GenerateResponseStream(ctx context.Context, session *ConsultSession, userMessage string) iter.Seq2[string, error]
}

// ConsultRepository persists the ConsultSession aggregate.
type ConsultRepository interface {
	// Save is an idempotent full replace of the session and its message log.
	Save(ctx context.Context, session *ConsultSession) error

	// FindByID returns (nil, nil) when the session does not exist.
	FindByID(ctx context.Context, id SessionID) (*ConsultSession, error)
}

// UserRepository is the profile store. FindByID returns (nil, nil) when the
// user does not exist.
type UserRepository interface {
	FindByID(ctx context.Context, id UserID) (*User, error)
	Save(ctx context.Context, user *User) error
}

// AuthSessionStore resolves an opaque auth token to the owning user.
// FindUserID returns "" when the token is unknown or expired.
type AuthSessionStore interface {
	FindUserID(ctx context.Context, token string) (UserID, error)
}

// Analyzer turns raw concern text into a validated structured analysis.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*ConcernAnalysis, error)
}

// CounselingGenerator produces the structured advice answer for the one-shot
// consult flow, conditioned on the text and its analysis.
type CounselingGenerator interface {
	Generate(ctx context.Context, text string, analysis *ConcernAnalysis) (string, error)
}

// AnalysisRepository persists one-shot consult records. Save assigns the id
// and returns the stored record.
type AnalysisRepository interface {
	Save(ctx context.Context, history *ConsultHistory) (*ConsultHistory, error)
}
