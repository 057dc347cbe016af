package attendance

import (
	"strings"
	"sync"
	"time"
)

// Register holds the scanned records of the current session, most recent scan first.
// It is volatile: nothing is persisted.
type Register struct {
	mu      sync.Mutex
	records []Record
	now     func() time.Time
}

// NewRegister creates an empty register using the wall clock.
func NewRegister() *Register {
	return &Register{now: time.Now}
}

// Scan records a card swipe. A new identifier is prepended as Present; a known
// one keeps its position, gets a fresh time and is forced back to Present.
func (r *Register) Scan(raw string) (Record, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return Record{}, &ValidationError{Msg: "card id required"}
	}

	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.records {
		if r.records[i].ID == id {
			r.records[i].ScannedAt = now
			r.records[i].Time = now.Format(TimeLayout)
			r.records[i].Status = StatusPresent
			return r.records[i], nil
		}
	}

	rec := Record{
		ID:        id,
		Name:      DisplayName(id),
		Time:      now.Format(TimeLayout),
		Status:    StatusPresent,
		ScannedAt: now,
	}
	r.records = append([]Record{rec}, r.records...)
	return rec, nil
}

// ToggleStatus flips Present/Absent for id. Unknown ids leave the register
// untouched and report false.
func (r *Register) ToggleStatus(id string) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID == id {
			r.records[i].Status = r.records[i].Status.toggled()
			return r.records[i], true
		}
	}
	return Record{}, false
}

// Clear drops every record.
func (r *Register) Clear() {
	r.mu.Lock()
	r.records = nil
	r.mu.Unlock()
}

// Records returns a copy of the register in display order.
func (r *Register) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Len reports the number of records.
func (r *Register) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
