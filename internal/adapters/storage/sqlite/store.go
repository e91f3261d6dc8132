package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/maumlog/maum-api/internal/domain"
)

// Store is a SQLite-backed implementation of domain.ConsultRepository,
// domain.UserRepository and domain.AnalysisRepository. One store, three
// interfaces.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS consult_sessions (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	mbti       TEXT NOT NULL,
	gender     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS consult_messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL REFERENCES consult_sessions(id),
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_consult_messages_session ON consult_messages(session_id);
CREATE TABLE IF NOT EXISTS users (
	id     TEXT PRIMARY KEY,
	email  TEXT NOT NULL,
	mbti   TEXT,
	gender TEXT
);
CREATE TABLE IF NOT EXISTS consult_histories (
	id            TEXT PRIMARY KEY,
	user_id       TEXT,
	original_text TEXT NOT NULL,
	analysis      TEXT NOT NULL,
	answer        TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL
);
`

// NewStore opens (or creates) the database at path and ensures the schema.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sqlite schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save implements domain.ConsultRepository as a full replace: the session row
// is upserted and the message log is deleted and reinserted in order, all in
// one transaction.
func (s *Store) Save(ctx context.Context, session *domain.ConsultSession) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO consult_sessions (id, user_id, mbti, gender, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			mbti = excluded.mbti,
			gender = excluded.gender,
			created_at = excluded.created_at`,
		string(session.ID()), string(session.UserID()),
		string(session.MBTI()), string(session.Gender()), session.CreatedAt())
	if err != nil {
		return fmt.Errorf("sqlite save session: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM consult_messages WHERE session_id = ?`, string(session.ID())); err != nil {
		return fmt.Errorf("sqlite clear messages: %w", err)
	}

	for _, m := range session.Messages() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO consult_messages (session_id, role, content, created_at)
			VALUES (?, ?, ?, ?)`,
			string(session.ID()), string(m.Role), m.Content, m.Timestamp); err != nil {
			return fmt.Errorf("sqlite save message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite commit: %w", err)
	}
	return nil
}

// FindByID implements domain.ConsultRepository. Messages load in insertion
// order via the autoincrement id.
func (s *Store) FindByID(ctx context.Context, id domain.SessionID) (*domain.ConsultSession, error) {
	var (
		userID, mbti, gender string
		createdAt            time.Time
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, mbti, gender, created_at
		FROM consult_sessions WHERE id = ?`, string(id)).
		Scan(&userID, &mbti, &gender, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite find session: %w", err)
	}

	session, err := domain.NewConsultSession(
		id, domain.UserID(userID), domain.MBTI(mbti), domain.Gender(gender), createdAt)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT role, content, created_at
		FROM consult_messages WHERE session_id = ? ORDER BY id`, string(id))
	if err != nil {
		return nil, fmt.Errorf("sqlite load messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			role, content string
			ts            time.Time
		)
		if err := rows.Scan(&role, &content, &ts); err != nil {
			return nil, fmt.Errorf("sqlite scan message: %w", err)
		}
		session.AddMessage(domain.Message{Role: domain.Role(role), Content: content, Timestamp: ts})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite iterate messages: %w", err)
	}
	return session, nil
}

func (s *Store) findUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	var (
		email        string
		mbti, gender sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT email, mbti, gender FROM users WHERE id = ?`, string(id)).
		Scan(&email, &mbti, &gender)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite find user: %w", err)
	}
	return &domain.User{
		ID:     id,
		Email:  email,
		MBTI:   domain.MBTI(mbti.String),
		Gender: domain.Gender(gender.String),
	}, nil
}

func (s *Store) saveUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, mbti, gender)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			mbti = excluded.mbti,
			gender = excluded.gender`,
		string(user.ID), user.Email, string(user.MBTI), string(user.Gender))
	if err != nil {
		return fmt.Errorf("sqlite save user: %w", err)
	}
	return nil
}

// Users returns the store viewed as a domain.UserRepository.
func (s *Store) Users() domain.UserRepository {
	return userRepo{s}
}

type userRepo struct{ s *Store }

func (r userRepo) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return r.s.findUser(ctx, id)
}

func (r userRepo) Save(ctx context.Context, user *domain.User) error {
	return r.s.saveUser(ctx, user)
}

// Histories returns the store viewed as a domain.AnalysisRepository.
func (s *Store) Histories() domain.AnalysisRepository {
	return historyRepo{s}
}

type historyRepo struct{ s *Store }

func (r historyRepo) Save(ctx context.Context, history *domain.ConsultHistory) (*domain.ConsultHistory, error) {
	if history.ID == "" {
		history.ID = ulid.Make().String()
	}

	analysisJSON, err := json.Marshal(history.Analysis)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}

	_, err = r.s.db.ExecContext(ctx, `
		INSERT INTO consult_histories (id, user_id, original_text, analysis, answer, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		history.ID, string(history.UserID), history.OriginalText,
		string(analysisJSON), history.Answer, history.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("sqlite save history: %w", err)
	}
	return history, nil
}
