package attendance

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Transport delivers a JSON body to a webhook. Only a failure to reach the
// endpoint is reported; what the endpoint answers is not observable.
type Transport interface {
	Post(ctx context.Context, url string, body []byte) error
}

// SyncPayload is the body sent to the webhook.
type SyncPayload struct {
	Timestamp  string   `json:"timestamp"`
	ClassGrade any      `json:"class_grade"`
	Records    []Record `json:"records"`
	Source     string   `json:"source"`
}

// Syncer forwards register snapshots to a webhook, one request at a time.
type Syncer struct {
	transport Transport
	timeout   time.Duration
	inFlight  atomic.Bool
	now       func() time.Time
}

// NewSyncer creates a syncer. A zero timeout lets the request run until it settles.
func NewSyncer(t Transport, timeout time.Duration) *Syncer {
	return &Syncer{transport: t, timeout: timeout, now: time.Now}
}

// InFlight reports whether a sync is outstanding.
func (s *Syncer) InFlight() bool { return s.inFlight.Load() }

// Sync posts records to webhookURL. Checks run in order: missing URL, empty
// register, sync already outstanding. The caller's cancellation does not abort
// a request once sent.
func (s *Syncer) Sync(ctx context.Context, webhookURL, classLabel, source string, records []Record) error {
	webhookURL = strings.TrimSpace(webhookURL)
	if webhookURL == "" {
		return &ConfigError{Msg: "webhook required"}
	}
	if len(records) == 0 {
		return ErrNoRecords
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrSyncInFlight
	}
	defer s.inFlight.Store(false)

	body, err := json.Marshal(s.payload(classLabel, source, records))
	if err != nil {
		return err
	}

	ctx = context.WithoutCancel(ctx)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := s.transport.Post(ctx, webhookURL, body); err != nil {
		return &SyncError{Err: err}
	}
	return nil
}

func (s *Syncer) payload(classLabel, source string, records []Record) SyncPayload {
	return SyncPayload{
		Timestamp:  s.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		ClassGrade: classGrade(classLabel),
		Records:    records,
		Source:     source,
	}
}

// classGrade keeps numeric grades numeric in the payload and sends null when
// no class is selected.
func classGrade(label string) any {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil
	}
	if n, err := strconv.Atoi(label); err == nil {
		return n
	}
	return label
}
