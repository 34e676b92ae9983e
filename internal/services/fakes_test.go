package services

import (
	"context"
	"errors"
	"io"
	"sync"

	"vkinder-bot/internal/models"
)

var errNotFound = errors.New("not found")

type fakeUsers struct {
	mu    sync.Mutex
	users map[int64]*models.UserProfile
	order []int64
}

func newFakeUsers(profiles ...*models.UserProfile) *fakeUsers {
	f := &fakeUsers{users: map[int64]*models.UserProfile{}}
	for _, p := range profiles {
		f.users[p.ID] = p
		f.order = append(f.order, p.ID)
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *models.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; ok {
		return nil
	}
	f.users[user.ID] = user
	f.order = append(f.order, user.ID)
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, errNotFound
	}
	return u, nil
}

func (f *fakeUsers) Exists(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUsers) ListIDs(context.Context) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.order...), nil
}

type pairKey struct{ user, partner int64 }

type fakePartners struct {
	mu       sync.Mutex
	partners map[int64]*models.Partner
	rels     map[pairKey]*models.Relationship
	order    []pairKey
}

func newFakePartners() *fakePartners {
	return &fakePartners{
		partners: map[int64]*models.Partner{},
		rels:     map[pairKey]*models.Relationship{},
	}
}

func (f *fakePartners) Exists(_ context.Context, partnerID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.partners[partnerID]
	return ok, nil
}

func (f *fakePartners) RelationshipExists(_ context.Context, userID, partnerID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rels[pairKey{userID, partnerID}]
	return ok, nil
}

func (f *fakePartners) IsIgnored(_ context.Context, userID, partnerID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rel, ok := f.rels[pairKey{userID, partnerID}]
	return ok && rel.Ignore, nil
}

func (f *fakePartners) CreateRelationship(_ context.Context, rel *models.Relationship) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addRel(rel)
	return nil
}

func (f *fakePartners) CreateWithRelationship(_ context.Context, partner *models.Partner, rel *models.Relationship) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.partners[partner.ID]; !ok {
		f.partners[partner.ID] = partner
	}
	f.addRel(rel)
	return nil
}

func (f *fakePartners) addRel(rel *models.Relationship) {
	key := pairKey{rel.UserID, rel.PartnerID}
	if _, ok := f.rels[key]; ok {
		return
	}
	f.rels[key] = rel
	f.order = append(f.order, key)
}

func (f *fakePartners) ListFavorites(_ context.Context, userID int64) ([]*models.Partner, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Partner
	for _, key := range f.order {
		if key.user == userID && !f.rels[key].Ignore {
			out = append(out, f.partners[key.partner])
		}
	}
	return out, nil
}

func (f *fakePartners) relCount(userID, partnerID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, key := range f.order {
		if key == (pairKey{userID, partnerID}) {
			n++
		}
	}
	return n
}

type fakeGenders map[string]models.Sex

func (f fakeGenders) GetSex(_ context.Context, name string) (models.Sex, error) {
	return f[name], nil
}

type fakeProfiles map[int64]*models.RawProfile

func (f fakeProfiles) GetProfile(_ context.Context, userID int64) (*models.RawProfile, error) {
	p, ok := f[userID]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

type sliceStream struct {
	items  []models.RawCandidate
	pos    int
	closed bool
}

func (s *sliceStream) Next(context.Context) (*models.RawCandidate, error) {
	if s.closed || s.pos >= len(s.items) {
		return nil, io.EOF
	}
	c := s.items[s.pos]
	s.pos++
	return &c, nil
}

func (s *sliceStream) Close() { s.closed = true }

type fakeSource struct {
	candidates []models.RawCandidate
	photos     map[int64][]models.Photo
	filters    []models.SearchFilter
	streams    []*sliceStream
	photoErr   error
}

func (f *fakeSource) SearchCandidates(_ context.Context, filter models.SearchFilter) CandidateStream {
	f.filters = append(f.filters, filter)
	s := &sliceStream{items: f.candidates}
	f.streams = append(f.streams, s)
	return s
}

func (f *fakeSource) GetPhotos(_ context.Context, ownerID int64) ([]models.Photo, error) {
	if f.photoErr != nil {
		return nil, f.photoErr
	}
	return append([]models.Photo(nil), f.photos[ownerID]...), nil
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []*models.OutgoingMessage
	err  error
}

func (f *fakeMessenger) Send(_ context.Context, msg *models.OutgoingMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMessenger) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.Text)
	}
	return out
}

func (f *fakeMessenger) last() *models.OutgoingMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeMessenger) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}
