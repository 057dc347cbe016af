package portal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Library lists catalog documents plus those uploaded since the process started.
type Library struct {
	catalog Catalog

	mu       sync.RWMutex
	uploaded []Document
	now      func() time.Time
}

// NewLibrary creates a library over catalog.
func NewLibrary(catalog Catalog) *Library {
	return &Library{catalog: catalog, now: time.Now}
}

// Search returns uploaded documents first, then catalog ones, filtered by q.
func (l *Library) Search(ctx context.Context, q string) ([]Document, error) {
	base, err := l.catalog.Documents(ctx)
	if err != nil {
		return nil, err
	}
	q = strings.TrimSpace(q)

	l.mu.RLock()
	all := make([]Document, 0, len(l.uploaded)+len(base))
	all = append(all, l.uploaded...)
	l.mu.RUnlock()
	all = append(all, base...)

	out := all[:0]
	for _, d := range all {
		if matches(d, q) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Add registers an uploaded document and returns it with an id and date.
func (l *Library) Add(d Document) Document {
	d.ID = uuid.NewString()
	if d.Date == "" {
		d.Date = l.now().UTC().Format("2006-01-02")
	}
	if d.Status == "" {
		d.Status = "Active"
	}
	if d.Type == "" {
		d.Type = "Upload"
	}
	l.mu.Lock()
	l.uploaded = append([]Document{d}, l.uploaded...)
	l.mu.Unlock()
	return d
}

// HumanSize formats a byte count the way document sizes are listed.
func HumanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
