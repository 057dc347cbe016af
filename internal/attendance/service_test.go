package attendance

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(event string, _ any) {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
}

type countingRecorder struct {
	counts map[string]int
}

func (c *countingRecorder) Record(op, outcome string) {
	c.counts[op+"/"+outcome]++
}

func newTestService(tr Transport) (*Service, *recordingPublisher, *countingRecorder) {
	pub := &recordingPublisher{}
	rec := &countingRecorder{counts: map[string]int{}}
	svc := NewService(newTestRegister(), NewSyncer(tr, 0), pub, rec)
	svc.now = func() time.Time { return time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC) }
	return svc, pub, rec
}

func TestService_ScanNotice(t *testing.T) {
	svc, pub, rec := newTestService(&fakeTransport{})

	r, notice, err := svc.Scan("1234567890")
	require.NoError(t, err)
	assert.Equal(t, "Student 890", r.Name)
	assert.Equal(t, "Scan recorded", notice.Title)
	assert.Equal(t, "Marked Student 890 present.", notice.Description)
	assert.Equal(t, []string{EventScanRecorded}, pub.events)

	_, notice, err = svc.Scan("  ")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, VariantDestructive, notice.Variant)
	assert.Equal(t, "Scan required", notice.Title)
	assert.Len(t, pub.events, 1)
	assert.Equal(t, 1, rec.counts["scan/ok"])
	assert.Equal(t, 1, rec.counts["scan/invalid"])
}

func TestService_ToggleAndClear(t *testing.T) {
	svc, pub, _ := newTestService(&fakeTransport{})
	_, _, _ = svc.Scan("77")

	_, ok := svc.ToggleStatus("nonexistent-999")
	assert.False(t, ok)
	r, ok := svc.ToggleStatus("77")
	require.True(t, ok)
	assert.Equal(t, StatusAbsent, r.Status)

	svc.Clear()
	assert.Empty(t, svc.Records())
	assert.Equal(t, []string{EventScanRecorded, EventStatusToggled, EventRegisterCleared}, pub.events)
}

func TestService_Export(t *testing.T) {
	svc, _, _ := newTestService(&fakeTransport{})
	_, _, _ = svc.Scan("1")

	var buf bytes.Buffer
	name, err := svc.Export(&buf, "4")
	require.NoError(t, err)
	assert.Equal(t, "attendance_grade_4_2024-05-02.csv", name)
	assert.Contains(t, buf.String(), `"4","1","Student 001"`)
	assert.Len(t, svc.Records(), 1)
}

func TestService_Sync(t *testing.T) {
	tests := []struct {
		name      string
		scan      bool
		url       string
		transport *fakeTransport
		wantErr   func(error) bool
		wantTitle string
		wantCalls int
	}{
		{
			name: "missing webhook", scan: true, url: "",
			transport: &fakeTransport{},
			wantErr:   func(err error) bool { var e *ConfigError; return errors.As(err, &e) },
			wantTitle: "Webhook required",
		},
		{
			name: "no records", url: "http://hook",
			transport: &fakeTransport{},
			wantErr:   func(err error) bool { return errors.Is(err, ErrNoRecords) },
			wantTitle: "No records",
		},
		{
			name: "network failure", scan: true, url: "http://hook",
			transport: &fakeTransport{err: errors.New("no such host")},
			wantErr:   func(err error) bool { var e *SyncError; return errors.As(err, &e) },
			wantTitle: "Error",
			wantCalls: 1,
		},
		{
			name: "sent", scan: true, url: "http://hook",
			transport: &fakeTransport{},
			wantTitle: "Request sent",
			wantCalls: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(tt.transport)
			if tt.scan {
				_, _, _ = svc.Scan("123")
			}
			notice, err := svc.Sync(context.Background(), tt.url, "9", "http://portal")
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, tt.wantErr(err), "unexpected error %v", err)
			}
			assert.Equal(t, tt.wantTitle, notice.Title)
			assert.Equal(t, tt.wantCalls, tt.transport.Calls())
			assert.False(t, svc.Syncing())
		})
	}
}
