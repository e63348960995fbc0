package services

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// DraftStore keeps open quotation drafts in memory, keyed by a generated id.
// Drafts are not persisted; a restart discards them.
type DraftStore struct {
	mu         sync.Mutex
	drafts     map[string]*QuotationDraft
	submitting map[string]bool
}

func NewDraftStore() *DraftStore {
	return &DraftStore{
		drafts:     make(map[string]*QuotationDraft),
		submitting: make(map[string]bool),
	}
}

// NewID returns a fresh draft id.
func (s *DraftStore) NewID() string {
	return uuid.NewString()
}

// Put stores d under d.ID, assigning an id when it has none.
func (s *DraftStore) Put(d *QuotationDraft) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	s.drafts[d.ID] = d
	return d.ID
}

// Get returns the draft with id or ErrDraftNotFound.
func (s *DraftStore) Get(id string) (*QuotationDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return d, nil
}

// Update runs fn on the draft while holding the store lock, so concurrent
// edits to the same draft are applied one at a time.
func (s *DraftStore) Update(id string, fn func(d *QuotationDraft) error) (*QuotationDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	if s.submitting[id] {
		return d, ErrSubmitInFlight
	}
	if err := fn(d); err != nil {
		return d, err
	}
	return d, nil
}

// View runs fn on the draft under the store lock without changing it. It
// works while a submission is in flight.
func (s *DraftStore) View(id string, fn func(d *QuotationDraft)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return ErrDraftNotFound
	}
	fn(d)
	return nil
}

// Delete drops a draft. Deleting an unknown id is not an error.
func (s *DraftStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	delete(s.submitting, id)
}

// List returns all open drafts, newest first.
func (s *DraftStore) List() []*QuotationDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*QuotationDraft, 0, len(s.drafts))
	for _, d := range s.drafts {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// BeginSubmit marks the draft as being submitted. Only one submission per
// draft may be outstanding; a second caller gets ErrSubmitInFlight.
func (s *DraftStore) BeginSubmit(id string) (*QuotationDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	if s.submitting[id] {
		return nil, ErrSubmitInFlight
	}
	s.submitting[id] = true
	return d, nil
}

// EndSubmit clears the in-flight mark. On success the draft is dropped.
func (s *DraftStore) EndSubmit(id string, submitted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.submitting, id)
	if submitted {
		delete(s.drafts, id)
	}
}
