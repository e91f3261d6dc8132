package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/maumlog/maum-api/internal/domain"
)

// Store is a Firestore implementation of domain.ConsultRepository and
// domain.UserRepository. One store, two interfaces.
type Store struct {
	client *firestore.Client
}

func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection("consult_sessions")
}

func (s *Store) sessionDoc(id domain.SessionID) *firestore.DocumentRef {
	return s.sessionsCol().Doc(string(id))
}

func (s *Store) messagesCol(sessionID domain.SessionID) *firestore.CollectionRef {
	return s.sessionDoc(sessionID).Collection("messages")
}

func (s *Store) usersCol() *firestore.CollectionRef {
	return s.client.Collection("users")
}

type sessionDoc struct {
	UserID    string    `firestore:"user_id"`
	MBTI      string    `firestore:"mbti"`
	Gender    string    `firestore:"gender"`
	CreatedAt time.Time `firestore:"created_at"`
}

type messageDoc struct {
	Index     int       `firestore:"index"`
	Role      string    `firestore:"role"`
	Content   string    `firestore:"content"`
	CreatedAt time.Time `firestore:"created_at"`
}

type userDoc struct {
	Email  string `firestore:"email"`
	MBTI   string `firestore:"mbti"`
	Gender string `firestore:"gender"`
}

// Save implements domain.ConsultRepository as a full replace: the session doc
// is set and the messages subcollection is rewritten with index-keyed docs so
// conversation order survives the round-trip.
func (s *Store) Save(ctx context.Context, session *domain.ConsultSession) error {
	doc := sessionDoc{
		UserID:    string(session.UserID()),
		MBTI:      string(session.MBTI()),
		Gender:    string(session.Gender()),
		CreatedAt: session.CreatedAt(),
	}
	if _, err := s.sessionDoc(session.ID()).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore save session: %w", err)
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(session.Messages()))
	for i, m := range session.Messages() {
		ref := s.messagesCol(session.ID()).Doc(fmt.Sprintf("%06d", i))
		job, err := bw.Set(ref, messageDoc{
			Index:     i,
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.Timestamp,
		})
		if err != nil {
			return fmt.Errorf("firestore save message: %w", err)
		}
		jobs = append(jobs, job)
	}
	bw.End()

	// BulkWriter.Set only validates arguments; server-side write failures
	// surface through each job's Results.
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return fmt.Errorf("firestore save message: %w", err)
		}
	}
	return nil
}

// FindByID implements domain.ConsultRepository.
func (s *Store) FindByID(ctx context.Context, id domain.SessionID) (*domain.ConsultSession, error) {
	snap, err := s.sessionDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("firestore get session: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore decode session: %w", err)
	}

	session, err := domain.NewConsultSession(
		id,
		domain.UserID(doc.UserID),
		domain.MBTI(doc.MBTI),
		domain.Gender(doc.Gender),
		doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	iter := s.messagesCol(id).OrderBy("index", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	for {
		msnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore list messages: %w", err)
		}

		var mdoc messageDoc
		if err := msnap.DataTo(&mdoc); err != nil {
			return nil, fmt.Errorf("firestore decode message: %w", err)
		}
		session.AddMessage(domain.Message{
			Role:      domain.Role(mdoc.Role),
			Content:   mdoc.Content,
			Timestamp: mdoc.CreatedAt,
		})
	}
	return session, nil
}

// Users returns the store viewed as a domain.UserRepository.
func (s *Store) Users() domain.UserRepository {
	return userRepo{s}
}

type userRepo struct{ s *Store }

func (r userRepo) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	snap, err := r.s.usersCol().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("firestore get user: %w", err)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore decode user: %w", err)
	}
	return &domain.User{
		ID:     id,
		Email:  doc.Email,
		MBTI:   domain.MBTI(doc.MBTI),
		Gender: domain.Gender(doc.Gender),
	}, nil
}

func (r userRepo) Save(ctx context.Context, user *domain.User) error {
	doc := userDoc{
		Email:  user.Email,
		MBTI:   string(user.MBTI),
		Gender: string(user.Gender),
	}
	if _, err := r.s.usersCol().Doc(string(user.ID)).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore save user: %w", err)
	}
	return nil
}
