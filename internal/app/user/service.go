package user

import (
	"context"
	"fmt"

	"github.com/maumlog/maum-api/internal/domain"
	"github.com/maumlog/maum-api/internal/observability"
)

// Service exposes profile reads and MBTI/gender upserts for the authenticated
// user.
type Service struct {
	users domain.UserRepository
}

func NewService(users domain.UserRepository) *Service {
	return &Service{users: users}
}

func (s *Service) Profile(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %q", domain.ErrNotFound, userID)
	}
	return u, nil
}

// UpdateProfile validates and stores the user's MBTI and gender.
func (s *Service) UpdateProfile(ctx context.Context, userID domain.UserID, rawMBTI, rawGender string) (*domain.User, error) {
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	mbti, err := domain.ParseMBTI(rawMBTI)
	if err != nil {
		return nil, err
	}
	gender, err := domain.ParseGender(rawGender)
	if err != nil {
		return nil, err
	}

	u.MBTI = mbti
	u.Gender = gender
	if err := s.users.Save(ctx, u); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to save profile", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return u, nil
}
