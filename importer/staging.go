package importer

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"household-budget-go-be/csvparse"
)

// DefaultStagingTTL is how long a previewed import waits for confirmation
// before it is evicted.
const DefaultStagingTTL = 30 * time.Minute

// StagedTransaction is a parsed row plus the rule engine's category
// suggestion, held between preview and confirm.
type StagedTransaction struct {
	csvparse.ParsedTransaction
	SuggestedCategoryID *uuid.UUID `json:"suggested_category_id,omitempty"`
}

// StagedImport is everything Confirm needs from a completed Preview.
type StagedImport struct {
	HouseholdID  uuid.UUID
	EntityID     uuid.UUID
	AccountID    *uuid.UUID
	Transactions []StagedTransaction
	createdAt    time.Time
}

// Store holds staged imports between the preview and confirm steps, keyed by
// an opaque session id returned to the client. Entries are evicted after the
// TTL; data is lost on restart, which only costs the user a re-upload.
// Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*StagedImport
	now      func() time.Time
}

// NewStore creates a staging store with the given TTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultStagingTTL
	}
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*StagedImport),
		now:      time.Now,
	}
}

// Put stages an import and returns its session id.
func (s *Store) Put(staged *StagedImport) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	id := uuid.NewString()
	copied := *staged
	copied.createdAt = s.now()
	s.sessions[id] = &copied
	return id
}

// Get returns the staged import for a session, if it exists and has not
// expired.
func (s *Store) Get(sessionID string) (*StagedImport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	staged, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	copied := *staged
	return &copied, true
}

// Delete removes a staged import.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// sweepLocked evicts expired sessions. Caller must hold the lock.
func (s *Store) sweepLocked() {
	cutoff := s.now().Add(-s.ttl)
	for id, staged := range s.sessions {
		if staged.createdAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
