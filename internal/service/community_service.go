package service

import (
	"context"
	"encoding/json"
	"errors"

	"threadnest/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var ErrCommunityNotFound = errors.New("community not found")

type CommunityStore interface {
	Upsert(ctx context.Context, c *model.Community) error
	FindByOrgID(ctx context.Context, orgID string) (*model.Community, error)
	UpdateInfo(ctx context.Context, orgID, name, slug, image string) error
	List(ctx context.Context, offset, limit int, search string) ([]model.Community, int64, error)
	DeleteByOrgID(ctx context.Context, orgID string) error
}

type MemberStore interface {
	AddMember(ctx context.Context, member *model.CommunityMember) error
	RemoveMember(ctx context.Context, communityID uint64, memberID string) error
	IsMember(ctx context.Context, communityID uint64, memberID string) (bool, error)
	ListMemberIDs(ctx context.Context, communityID uint64) ([]string, error)
	CountMembers(ctx context.Context, communityID uint64) (int64, error)
}

// CommunitySummary is one row of the communities page: the community plus
// its member count.
type CommunitySummary struct {
	model.Community
	MemberCount int64 `json:"member_count"`
}

type OutboxStore interface {
	Append(ctx context.Context, row *model.CommunityOutbox) error
	ListPending(ctx context.Context, limit int) ([]model.CommunityOutbox, error)
	MarkSent(ctx context.Context, id uint64) error
	MarkFailed(ctx context.Context, id uint64) error
}

type CommunityService struct {
	repo       CommunityStore
	memberRepo MemberStore
	outbox     OutboxStore
}

func NewCommunityService(repo CommunityStore, memberRepo MemberStore, outbox OutboxStore) *CommunityService {
	return &CommunityService{
		repo:       repo,
		memberRepo: memberRepo,
		outbox:     outbox,
	}
}

// CreateFromOrg mirrors organization.created. The upsert makes redelivery
// safe; the creator joins idempotently, same as a membership event would.
func (s *CommunityService) CreateFromOrg(ctx context.Context, orgID, name, slug, image, createdBy string) (*model.Community, error) {
	community := &model.Community{
		OrgID:     orgID,
		Name:      name,
		Slug:      slug,
		Image:     image,
		CreatedBy: createdBy,
	}
	if err := s.repo.Upsert(ctx, community); err != nil {
		return nil, err
	}

	// reload: on conflict the insert does not backfill the existing row's id
	community, err := s.repo.FindByOrgID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if err := s.memberRepo.AddMember(ctx, &model.CommunityMember{
		CommunityID: community.ID,
		MemberID:    createdBy,
	}); err != nil {
		return nil, err
	}

	s.record(ctx, "community.created", orgID, community)
	return community, nil
}

// UpdateFromOrg mirrors organization.updated: fields are assigned
// unconditionally, an unknown org is a no-op.
func (s *CommunityService) UpdateFromOrg(ctx context.Context, orgID, name, slug, image string) error {
	if err := s.repo.UpdateInfo(ctx, orgID, name, slug, image); err != nil {
		return err
	}
	s.record(ctx, "community.updated", orgID, map[string]string{
		"name": name, "slug": slug, "image": image,
	})
	return nil
}

// DeleteByOrg mirrors organization.deleted. Deleting an unknown org succeeds.
func (s *CommunityService) DeleteByOrg(ctx context.Context, orgID string) error {
	if err := s.repo.DeleteByOrgID(ctx, orgID); err != nil {
		return err
	}
	s.record(ctx, "community.deleted", orgID, nil)
	return nil
}

// AddMember mirrors organizationMembership.created. A membership event for
// an org we have not seen yet is skipped; the org's created event will add
// the creator and redelivered membership events remain safe.
func (s *CommunityService) AddMember(ctx context.Context, orgID, memberID string) error {
	community, err := s.repo.FindByOrgID(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Str("org_id", orgID).Msg("membership event for unknown community, skipping")
			return nil
		}
		return err
	}

	if err := s.memberRepo.AddMember(ctx, &model.CommunityMember{
		CommunityID: community.ID,
		MemberID:    memberID,
	}); err != nil {
		return err
	}
	s.record(ctx, "member.added", orgID, map[string]string{"member_id": memberID})
	return nil
}

// RemoveMember mirrors organizationMembership.deleted. Removing a non-member
// or a member of an unknown org is a no-op.
func (s *CommunityService) RemoveMember(ctx context.Context, orgID, memberID string) error {
	community, err := s.repo.FindByOrgID(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Str("org_id", orgID).Msg("membership event for unknown community, skipping")
			return nil
		}
		return err
	}

	if err := s.memberRepo.RemoveMember(ctx, community.ID, memberID); err != nil {
		return err
	}
	s.record(ctx, "member.removed", orgID, map[string]string{"member_id": memberID})
	return nil
}

// List returns one page of communities with member counts and whether
// another page exists. search is a case-insensitive substring match on
// name/slug.
func (s *CommunityService) List(ctx context.Context, page, size int, search string) ([]CommunitySummary, bool, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 25
	}

	offset := (page - 1) * size
	list, total, err := s.repo.List(ctx, offset, size, search)
	if err != nil {
		return nil, false, err
	}

	summaries := make([]CommunitySummary, 0, len(list))
	for _, community := range list {
		count, err := s.memberRepo.CountMembers(ctx, community.ID)
		if err != nil {
			return nil, false, err
		}
		summaries = append(summaries, CommunitySummary{Community: community, MemberCount: count})
	}

	hasNext := total > int64(offset+len(list))
	return summaries, hasNext, nil
}

func (s *CommunityService) Detail(ctx context.Context, orgID string) (*model.Community, []string, error) {
	community, err := s.repo.FindByOrgID(ctx, orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCommunityNotFound
		}
		return nil, nil, err
	}
	members, err := s.memberRepo.ListMemberIDs(ctx, community.ID)
	if err != nil {
		return nil, nil, err
	}
	return community, members, nil
}

// record appends an outbox row for the relayer. Outbox problems must not
// undo an applied mutation, so failures are only logged.
func (s *CommunityService) record(ctx context.Context, eventType, orgID string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		body = []byte("{}")
	}
	row := &model.CommunityOutbox{
		EventType: eventType,
		OrgID:     orgID,
		Payload:   string(body),
	}
	if err := s.outbox.Append(ctx, row); err != nil {
		log.Error().Err(err).Str("event", eventType).Str("org_id", orgID).Msg("outbox append failed")
	}
}
