package service

import (
	"context"
	"errors"

	"threadnest/internal/model"

	"gorm.io/gorm"
)

var ErrUsernameTaken = errors.New("username already taken")

type UserStore interface {
	Upsert(ctx context.Context, user *model.User) error
	FindBySubject(ctx context.Context, subjectID string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

type UserService struct {
	repo UserStore
}

func NewUserService(repo UserStore) *UserService {
	return &UserService{repo: repo}
}

// Fetch returns the local record for a provider subject, or nil when the
// user has never onboarded. Callers treat nil as "not onboarded".
func (s *UserService) Fetch(ctx context.Context, subjectID string) (*model.User, error) {
	user, err := s.repo.FindBySubject(ctx, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// Onboard 幂等写入用户资料: repeated submits overwrite the profile and keep
// the onboarded flag set.
func (s *UserService) Onboard(ctx context.Context, subjectID, username, name, bio, image string) (*model.User, error) {
	if username == "" || name == "" {
		return nil, errors.New("username and name required")
	}

	// the unique index on username is the backstop; this check turns the
	// common case into a friendly error instead of a duplicate-key failure
	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil && existing.SubjectID != subjectID {
		return nil, ErrUsernameTaken
	}

	user := &model.User{
		SubjectID: subjectID,
		Username:  username,
		Name:      name,
		Bio:       bio,
		Image:     image,
		Onboarded: true,
	}
	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
