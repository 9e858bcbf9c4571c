package app

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"market_monitor/internal/domain"
)

// Tracker owns the action-id -> acknowledgment mapping for interactive chat
// posts. State is process-lifetime only: a restart forgets every posted id.
// Policy for repeated acknowledgments: first write wins; repeats are ignored
// and the existing record is returned so the caller can name the original
// acknowledger.
type Tracker struct {
	mu   sync.RWMutex
	recs map[string]*domain.AckRecord
}

func NewTracker() *Tracker {
	return &Tracker{recs: make(map[string]*domain.AckRecord)}
}

// Register creates a fresh opaque action id for a posted review. The uuid
// keeps concurrent posts from the same source collision-free.
func (t *Tracker) Register(rv domain.Review) string {
	id := fmt.Sprintf("%s-%s", strings.ToLower(string(rv.Source)), uuid.NewString())
	t.mu.Lock()
	t.recs[id] = &domain.AckRecord{ActionID: id, Review: rv, PostedAt: time.Now().UTC()}
	t.mu.Unlock()
	return id
}

// Acknowledge transitions an id to its terminal state. It returns the record
// and whether this call performed the transition. Unknown ids return
// domain.ErrUnknownAction without mutating anything.
func (t *Tracker) Acknowledge(id, userRef string, at time.Time) (domain.AckRecord, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.recs[id]
	if !ok {
		return domain.AckRecord{}, false, domain.ErrUnknownAction
	}
	if rec.Acknowledged() {
		return *rec, false, nil
	}
	rec.AcknowledgedBy = userRef
	rec.AcknowledgedAt = at
	return *rec, true, nil
}

// Get looks an id up without mutating it.
func (t *Tracker) Get(id string) (domain.AckRecord, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.recs[id]
	if !ok {
		return domain.AckRecord{}, false
	}
	return *rec, true
}

// Len reports how many posts are currently tracked.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.recs)
}
