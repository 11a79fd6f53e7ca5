package service

import (
	"context"
	"errors"

	"threadnest/internal/model"

	"gorm.io/gorm"
)

var (
	ErrThreadNotFound = errors.New("thread not found")
	ErrNotMember      = errors.New("not a member")
)

type ThreadStore interface {
	Create(ctx context.Context, thread *model.Thread) error
	FindByID(ctx context.Context, id uint64) (*model.Thread, error)
	ListTopLevel(ctx context.Context, offset, limit int) ([]model.Thread, int64, error)
	ListReplies(ctx context.Context, parentID uint64) ([]model.Thread, error)
}

type ThreadService struct {
	repo       ThreadStore
	comRepo    CommunityStore
	memberRepo MemberStore
}

func NewThreadService(repo ThreadStore, comRepo CommunityStore, memberRepo MemberStore) *ThreadService {
	return &ThreadService{
		repo:       repo,
		comRepo:    comRepo,
		memberRepo: memberRepo,
	}
}

// Create posts a thread or, when parentID is set, a reply. Posting into a
// community requires membership.
func (s *ThreadService) Create(ctx context.Context, authorID, text string, orgID *string, parentID *uint64) (*model.Thread, error) {
	if text == "" {
		return nil, errors.New("text required")
	}

	if parentID != nil {
		parent, err := s.repo.FindByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrThreadNotFound
			}
			return nil, err
		}
		// replies live in the parent's community
		orgID = parent.OrgID
	}

	if orgID != nil && parentID == nil {
		community, err := s.comRepo.FindByOrgID(ctx, *orgID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommunityNotFound
			}
			return nil, err
		}
		// 判断是否是 community 成员
		ok, err := s.memberRepo.IsMember(ctx, community.ID, authorID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNotMember
		}
	}

	thread := &model.Thread{
		AuthorID: authorID,
		Text:     text,
		OrgID:    orgID,
		ParentID: parentID,
	}
	if err := s.repo.Create(ctx, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

// List pages through top-level threads, newest first.
func (s *ThreadService) List(ctx context.Context, page, size int) ([]model.Thread, bool, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 30
	}

	offset := (page - 1) * size
	list, total, err := s.repo.ListTopLevel(ctx, offset, size)
	if err != nil {
		return nil, false, err
	}
	hasNext := total > int64(offset+len(list))
	return list, hasNext, nil
}

// Get loads one thread with its direct replies.
func (s *ThreadService) Get(ctx context.Context, id uint64) (*model.Thread, []model.Thread, error) {
	thread, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrThreadNotFound
		}
		return nil, nil, err
	}
	replies, err := s.repo.ListReplies(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return thread, replies, nil
}
