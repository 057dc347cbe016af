package attendance

import (
	"context"
	"errors"
	"io"
	"time"
)

// Live event names published after register changes.
const (
	EventScanRecorded    = "SCAN_RECORDED"
	EventStatusToggled   = "STATUS_TOGGLED"
	EventRegisterCleared = "REGISTER_CLEARED"
	EventSyncSettled     = "SYNC_SETTLED"
)

// Publisher fans register changes out to connected dashboards.
type Publisher interface {
	Publish(event string, data any)
}

// Recorder counts operation outcomes.
type Recorder interface {
	Record(op, outcome string)
}

// Service coordinates the register, exports and webhook sync.
type Service struct {
	register *Register
	syncer   *Syncer
	pub      Publisher
	rec      Recorder
	now      func() time.Time
}

// NewService creates a service. pub and rec may be nil.
func NewService(register *Register, syncer *Syncer, pub Publisher, rec Recorder) *Service {
	if pub == nil {
		pub = nopPublisher{}
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Service{register: register, syncer: syncer, pub: pub, rec: rec, now: time.Now}
}

// Scan records a swipe and returns the success notice naming the student.
func (s *Service) Scan(raw string) (Record, Notice, error) {
	rec, err := s.register.Scan(raw)
	if err != nil {
		s.rec.Record("scan", "invalid")
		return Record{}, NoticeFor(err), err
	}
	s.rec.Record("scan", "ok")
	s.pub.Publish(EventScanRecorded, rec)
	return rec, Notice{
		Title:       "Scan recorded",
		Description: "Marked " + rec.Name + " present.",
		Variant:     VariantDefault,
	}, nil
}

// ToggleStatus flips a record's status. It reports false for unknown ids.
func (s *Service) ToggleStatus(id string) (Record, bool) {
	rec, ok := s.register.ToggleStatus(id)
	if !ok {
		s.rec.Record("toggle", "missing")
		return Record{}, false
	}
	s.rec.Record("toggle", "ok")
	s.pub.Publish(EventStatusToggled, rec)
	return rec, true
}

// Clear empties the register.
func (s *Service) Clear() {
	s.register.Clear()
	s.rec.Record("clear", "ok")
	s.pub.Publish(EventRegisterCleared, nil)
}

// Records returns the register in display order.
func (s *Service) Records() []Record {
	return s.register.Records()
}

// Syncing reports whether a webhook sync is outstanding.
func (s *Service) Syncing() bool {
	return s.syncer.InFlight()
}

// Export writes the register as CSV and returns the download filename.
func (s *Service) Export(w io.Writer, classLabel string) (string, error) {
	if err := WriteCSV(w, classLabel, s.register.Records()); err != nil {
		s.rec.Record("export", "error")
		return "", err
	}
	s.rec.Record("export", "ok")
	return ExportFilename(classLabel, s.now()), nil
}

// Sync forwards the current register to webhookURL. A nil error means the
// request was sent, not that it was delivered.
func (s *Service) Sync(ctx context.Context, webhookURL, classLabel, source string) (Notice, error) {
	records := s.register.Records()
	err := s.syncer.Sync(ctx, webhookURL, classLabel, source, records)
	if err != nil {
		s.rec.Record("sync", syncOutcome(err))
		var serr *SyncError
		if errors.As(err, &serr) {
			s.pub.Publish(EventSyncSettled, map[string]any{"sent": false})
		}
		return NoticeFor(err), err
	}
	s.rec.Record("sync", "sent")
	s.pub.Publish(EventSyncSettled, map[string]any{"sent": true, "records": len(records)})
	return Notice{
		Title:       "Request sent",
		Description: "Check your webhook's history to confirm the data was received.",
		Variant:     VariantDefault,
	}, nil
}

func syncOutcome(err error) string {
	var (
		cerr *ConfigError
		serr *SyncError
	)
	switch {
	case errors.As(err, &cerr):
		return "config_error"
	case errors.Is(err, ErrNoRecords):
		return "no_records"
	case errors.Is(err, ErrSyncInFlight):
		return "in_flight"
	case errors.As(err, &serr):
		return "sync_error"
	default:
		return "error"
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, any) {}

type nopRecorder struct{}

func (nopRecorder) Record(string, string) {}
