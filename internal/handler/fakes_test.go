package handler

import (
	"context"
	"errors"
	"slices"

	"threadnest/internal/model"
	"threadnest/internal/service"
)

var errStoreDown = errors.New("store down")

// fakeCommunitySvc mimics CommunityService semantics closely enough to
// observe idempotency through the webhook handler: upsert keyed on org id,
// set-valued membership, tolerant delete.
type fakeCommunitySvc struct {
	communities map[string]*model.Community
	members     map[string][]string
	nextID      uint64
	fail        bool
	mutations   int
}

func newFakeCommunitySvc() *fakeCommunitySvc {
	return &fakeCommunitySvc{
		communities: map[string]*model.Community{},
		members:     map[string][]string{},
	}
}

func (f *fakeCommunitySvc) CreateFromOrg(_ context.Context, orgID, name, slug, image, createdBy string) (*model.Community, error) {
	if f.fail {
		return nil, errStoreDown
	}
	f.mutations++
	c, ok := f.communities[orgID]
	if !ok {
		f.nextID++
		c = &model.Community{ID: f.nextID, OrgID: orgID}
		f.communities[orgID] = c
	}
	c.Name, c.Slug, c.Image, c.CreatedBy = name, slug, image, createdBy
	f.addMember(orgID, createdBy)
	return c, nil
}

func (f *fakeCommunitySvc) UpdateFromOrg(_ context.Context, orgID, name, slug, image string) error {
	if f.fail {
		return errStoreDown
	}
	f.mutations++
	if c, ok := f.communities[orgID]; ok {
		c.Name, c.Slug, c.Image = name, slug, image
	}
	return nil
}

func (f *fakeCommunitySvc) DeleteByOrg(_ context.Context, orgID string) error {
	if f.fail {
		return errStoreDown
	}
	f.mutations++
	delete(f.communities, orgID)
	delete(f.members, orgID)
	return nil
}

func (f *fakeCommunitySvc) AddMember(_ context.Context, orgID, memberID string) error {
	if f.fail {
		return errStoreDown
	}
	f.mutations++
	if _, ok := f.communities[orgID]; !ok {
		return nil
	}
	f.addMember(orgID, memberID)
	return nil
}

func (f *fakeCommunitySvc) RemoveMember(_ context.Context, orgID, memberID string) error {
	if f.fail {
		return errStoreDown
	}
	f.mutations++
	f.members[orgID] = slices.DeleteFunc(f.members[orgID], func(id string) bool {
		return id == memberID
	})
	return nil
}

func (f *fakeCommunitySvc) addMember(orgID, memberID string) {
	if slices.Contains(f.members[orgID], memberID) {
		return
	}
	f.members[orgID] = append(f.members[orgID], memberID)
}

// fakeDeliveryLog remembers seen message ids in memory.
type fakeDeliveryLog struct {
	seen map[string]bool
	err  error
}

func newFakeDeliveryLog() *fakeDeliveryLog {
	return &fakeDeliveryLog{seen: map[string]bool{}}
}

func (f *fakeDeliveryLog) FirstDelivery(_ context.Context, messageID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.seen[messageID] {
		return false, nil
	}
	f.seen[messageID] = true
	return true, nil
}

func (f *fakeDeliveryLog) Release(_ context.Context, messageID string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.seen, messageID)
	return nil
}

// fakeUserSvc backs the page-handler onboarding gate.
type fakeUserSvc struct {
	users map[string]*model.User
	err   error
}

func newFakeUserSvc() *fakeUserSvc {
	return &fakeUserSvc{users: map[string]*model.User{}}
}

func (f *fakeUserSvc) Fetch(_ context.Context, subjectID string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[subjectID], nil
}

func (f *fakeUserSvc) Onboard(_ context.Context, subjectID, username, name, bio, image string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for subject, u := range f.users {
		if u.Username == username && subject != subjectID {
			return nil, service.ErrUsernameTaken
		}
	}
	user := &model.User{
		ID:        uint64(len(f.users) + 1),
		SubjectID: subjectID,
		Username:  username,
		Name:      name,
		Bio:       bio,
		Image:     image,
		Onboarded: true,
	}
	f.users[subjectID] = user
	return user, nil
}

// fakeThreadSvc serves a fixed page of threads.
type fakeThreadSvc struct {
	threads []model.Thread
	isNext  bool
	err     error
}

func (f *fakeThreadSvc) Create(_ context.Context, authorID, text string, orgID *string, parentID *uint64) (*model.Thread, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.Thread{ID: 1, AuthorID: authorID, Text: text, OrgID: orgID, ParentID: parentID}, nil
}

func (f *fakeThreadSvc) List(_ context.Context, page, size int) ([]model.Thread, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	return f.threads, f.isNext, nil
}

func (f *fakeThreadSvc) Get(_ context.Context, id uint64) (*model.Thread, []model.Thread, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return &model.Thread{ID: id, AuthorID: "user_1", Text: "hello"}, nil, nil
}

// fakeCommunityLister serves a fixed page of communities.
type fakeCommunityLister struct {
	communities []service.CommunitySummary
	isNext      bool
	lastSearch  string
	err         error
}

func (f *fakeCommunityLister) List(_ context.Context, page, size int, search string) ([]service.CommunitySummary, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	f.lastSearch = search
	return f.communities, f.isNext, nil
}

func (f *fakeCommunityLister) Detail(_ context.Context, orgID string) (*model.Community, []string, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	c, ok := map[string]*model.Community{"org_1": {ID: 1, OrgID: "org_1", Name: "Gophers"}}[orgID]
	if !ok {
		return nil, nil, service.ErrCommunityNotFound
	}
	return c, []string{"user_1"}, nil
}
