package service

import (
	"context"
	"slices"

	"threadnest/internal/model"

	"gorm.io/gorm"
)

// fakeCommunityStore keeps communities in memory, mirroring the repository
// contract: upsert keyed on org id, tolerant update/delete.
type fakeCommunityStore struct {
	byOrg   map[string]*model.Community
	nextID  uint64
	listErr error
}

func newFakeCommunityStore() *fakeCommunityStore {
	return &fakeCommunityStore{byOrg: map[string]*model.Community{}}
}

func (f *fakeCommunityStore) Upsert(_ context.Context, c *model.Community) error {
	if existing, ok := f.byOrg[c.OrgID]; ok {
		c.ID = existing.ID
	} else {
		f.nextID++
		c.ID = f.nextID
	}
	clone := *c
	f.byOrg[c.OrgID] = &clone
	return nil
}

func (f *fakeCommunityStore) FindByOrgID(_ context.Context, orgID string) (*model.Community, error) {
	c, ok := f.byOrg[orgID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeCommunityStore) UpdateInfo(_ context.Context, orgID, name, slug, image string) error {
	if c, ok := f.byOrg[orgID]; ok {
		c.Name, c.Slug, c.Image = name, slug, image
	}
	return nil
}

func (f *fakeCommunityStore) List(_ context.Context, offset, limit int, search string) ([]model.Community, int64, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	all := make([]model.Community, 0, len(f.byOrg))
	for _, c := range f.byOrg {
		all = append(all, *c)
	}
	slices.SortFunc(all, func(a, b model.Community) int { return int(a.ID) - int(b.ID) })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeCommunityStore) DeleteByOrgID(_ context.Context, orgID string) error {
	delete(f.byOrg, orgID)
	return nil
}

// fakeMemberStore mirrors the unique-index semantics of the member table.
type fakeMemberStore struct {
	members map[uint64][]string
}

func newFakeMemberStore() *fakeMemberStore {
	return &fakeMemberStore{members: map[uint64][]string{}}
}

func (f *fakeMemberStore) AddMember(_ context.Context, m *model.CommunityMember) error {
	if slices.Contains(f.members[m.CommunityID], m.MemberID) {
		return nil
	}
	f.members[m.CommunityID] = append(f.members[m.CommunityID], m.MemberID)
	return nil
}

func (f *fakeMemberStore) RemoveMember(_ context.Context, communityID uint64, memberID string) error {
	f.members[communityID] = slices.DeleteFunc(f.members[communityID], func(id string) bool {
		return id == memberID
	})
	return nil
}

func (f *fakeMemberStore) IsMember(_ context.Context, communityID uint64, memberID string) (bool, error) {
	return slices.Contains(f.members[communityID], memberID), nil
}

func (f *fakeMemberStore) ListMemberIDs(_ context.Context, communityID uint64) ([]string, error) {
	return slices.Clone(f.members[communityID]), nil
}

func (f *fakeMemberStore) CountMembers(_ context.Context, communityID uint64) (int64, error) {
	return int64(len(f.members[communityID])), nil
}

type fakeOutboxStore struct {
	rows []model.CommunityOutbox
}

func (f *fakeOutboxStore) Append(_ context.Context, row *model.CommunityOutbox) error {
	row.ID = uint64(len(f.rows) + 1)
	f.rows = append(f.rows, *row)
	return nil
}

func (f *fakeOutboxStore) ListPending(_ context.Context, limit int) ([]model.CommunityOutbox, error) {
	var pending []model.CommunityOutbox
	for _, row := range f.rows {
		if row.Status == 0 {
			pending = append(pending, row)
		}
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (f *fakeOutboxStore) MarkSent(_ context.Context, id uint64) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Status = 1
		}
	}
	return nil
}

func (f *fakeOutboxStore) MarkFailed(_ context.Context, id uint64) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Retry++
		}
	}
	return nil
}

// fakeThreadStore backs the thread service tests.
type fakeThreadStore struct {
	threads map[uint64]*model.Thread
	nextID  uint64
}

func newFakeThreadStore() *fakeThreadStore {
	return &fakeThreadStore{threads: map[uint64]*model.Thread{}}
}

func (f *fakeThreadStore) Create(_ context.Context, thread *model.Thread) error {
	f.nextID++
	thread.ID = f.nextID
	clone := *thread
	f.threads[thread.ID] = &clone
	return nil
}

func (f *fakeThreadStore) FindByID(_ context.Context, id uint64) (*model.Thread, error) {
	t, ok := f.threads[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (f *fakeThreadStore) ListTopLevel(_ context.Context, offset, limit int) ([]model.Thread, int64, error) {
	var top []model.Thread
	for _, t := range f.threads {
		if t.ParentID == nil {
			top = append(top, *t)
		}
	}
	slices.SortFunc(top, func(a, b model.Thread) int { return int(b.ID) - int(a.ID) })

	total := int64(len(top))
	if offset >= len(top) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(top) {
		end = len(top)
	}
	return top[offset:end], total, nil
}

func (f *fakeThreadStore) ListReplies(_ context.Context, parentID uint64) ([]model.Thread, error) {
	var replies []model.Thread
	for _, t := range f.threads {
		if t.ParentID != nil && *t.ParentID == parentID {
			replies = append(replies, *t)
		}
	}
	slices.SortFunc(replies, func(a, b model.Thread) int { return int(a.ID) - int(b.ID) })
	return replies, nil
}
