package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	mu      sync.Mutex
	calls   int
	bodies  [][]byte
	urls    []string
	err     error
	block   chan struct{} // when set, Post waits for it to close
	entered chan struct{}
}

func (f *fakeTransport) Post(ctx context.Context, url string, body []byte) error {
	f.mu.Lock()
	f.calls++
	f.bodies = append(f.bodies, body)
	f.urls = append(f.urls, url)
	f.mu.Unlock()
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return f.err
}

func (f *fakeTransport) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func sampleRecords(ids ...string) []Record {
	r := newTestRegister()
	for _, id := range ids {
		_, _ = r.Scan(id)
	}
	return r.Records()
}

func TestSyncer_MissingWebhook(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		records []Record
	}{
		{name: "empty register", url: "", records: nil},
		{name: "with records", url: "", records: sampleRecords("1", "2")},
		{name: "whitespace url", url: "   ", records: sampleRecords("1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &fakeTransport{}
			s := NewSyncer(tr, 0)
			err := s.Sync(context.Background(), tt.url, "10", "http://portal", tt.records)
			var cerr *ConfigError
			assert.True(t, errors.As(err, &cerr))
			assert.Equal(t, 0, tr.Calls())
			assert.False(t, s.InFlight())
		})
	}
}

func TestSyncer_NoRecords(t *testing.T) {
	tr := &fakeTransport{}
	s := NewSyncer(tr, 0)
	err := s.Sync(context.Background(), "http://hook", "10", "", nil)
	assert.ErrorIs(t, err, ErrNoRecords)
	assert.Equal(t, 0, tr.Calls())
}

func TestSyncer_PostsSnapshot(t *testing.T) {
	tr := &fakeTransport{}
	s := NewSyncer(tr, 0)
	s.now = func() time.Time { return time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC) }
	recs := sampleRecords("1234567890", "0000000123", "42")

	require.NoError(t, s.Sync(context.Background(), " http://hook/catch ", "10", "http://portal.local", recs))
	require.Equal(t, 1, tr.Calls())
	assert.Equal(t, "http://hook/catch", tr.urls[0])

	var got struct {
		Timestamp  string            `json:"timestamp"`
		ClassGrade json.RawMessage   `json:"class_grade"`
		Records    []json.RawMessage `json:"records"`
		Source     string            `json:"source"`
	}
	require.NoError(t, json.Unmarshal(tr.bodies[0], &got))
	assert.Equal(t, "2024-01-15T08:30:00.000Z", got.Timestamp)
	assert.Equal(t, "10", string(got.ClassGrade))
	assert.Len(t, got.Records, len(recs))
	assert.Equal(t, "http://portal.local", got.Source)

	var first map[string]any
	require.NoError(t, json.Unmarshal(got.Records[0], &first))
	assert.Equal(t, "42", first["id"])
	assert.Equal(t, "Student 042", first["name"])
	assert.Equal(t, "Present", first["status"])
	assert.Contains(t, first, "time")
	assert.Len(t, first, 4)
}

func TestSyncer_InFlightGuard(t *testing.T) {
	tr := &fakeTransport{block: make(chan struct{}), entered: make(chan struct{}, 1)}
	s := NewSyncer(tr, 0)
	recs := sampleRecords("1")

	done := make(chan error, 1)
	go func() {
		done <- s.Sync(context.Background(), "http://hook", "1", "", recs)
	}()
	<-tr.entered
	assert.True(t, s.InFlight())

	err := s.Sync(context.Background(), "http://hook", "1", "", recs)
	assert.ErrorIs(t, err, ErrSyncInFlight)
	assert.Equal(t, 1, tr.Calls())

	close(tr.block)
	require.NoError(t, <-done)
	assert.False(t, s.InFlight())

	tr.block = nil
	require.NoError(t, s.Sync(context.Background(), "http://hook", "1", "", recs))
	<-tr.entered
	assert.Equal(t, 2, tr.Calls())
}

func TestSyncer_NetworkFailureReleasesFlag(t *testing.T) {
	netErr := errors.New("dial tcp: connection refused")
	tr := &fakeTransport{err: netErr}
	s := NewSyncer(tr, 0)

	err := s.Sync(context.Background(), "http://hook", "1", "", sampleRecords("1"))
	var serr *SyncError
	require.True(t, errors.As(err, &serr))
	assert.ErrorIs(t, err, netErr)
	assert.False(t, s.InFlight())
}

func TestSyncer_IgnoresCallerCancellation(t *testing.T) {
	var seen error
	tr := transportFunc(func(ctx context.Context, url string, body []byte) error {
		seen = ctx.Err()
		return nil
	})
	s := NewSyncer(tr, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, s.Sync(ctx, "http://hook", "1", "", sampleRecords("1")))
	assert.NoError(t, seen)
}

func TestClassGrade(t *testing.T) {
	assert.Nil(t, classGrade(""))
	assert.Equal(t, 7, classGrade("7"))
	assert.Equal(t, "7B", classGrade("7B"))
}

type transportFunc func(ctx context.Context, url string, body []byte) error

func (f transportFunc) Post(ctx context.Context, url string, body []byte) error {
	return f(ctx, url, body)
}
