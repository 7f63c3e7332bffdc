package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedOccupancy struct {
	locationID string
	available  int64
	at         time.Time
}

type fakeRecorder struct {
	calls []recordedOccupancy
	err   error
}

func (f *fakeRecorder) RecordOccupancy(ctx context.Context, locationID string, available int64, at time.Time) error {
	f.calls = append(f.calls, recordedOccupancy{locationID, available, at})
	return f.err
}

func newTestFeed(url string, rec OccupancyRecorder) *OccupancyFeedService {
	svc := NewOccupancyFeedService(FeedOptions{
		URL:        url,
		LocationID: "1",
		TotalSpots: 12,
		Schedule:   "@every 60s",
		MaxRetries: 3,
		RetryDelay: 5 * time.Second,
	}, rec, nil, nil)
	svc.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }
	return svc
}

func TestRunOnceRecordsAvailability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"occupied": 9}`))
	}))
	defer srv.Close()
	rec := &fakeRecorder{}

	require.NoError(t, newTestFeed(srv.URL, rec).RunOnce(context.Background()))
	require.Len(t, rec.calls, 1)
	assert.Equal(t, recordedOccupancy{"1", 3, time.Unix(1700000000, 0)}, rec.calls[0])
}

func TestRunOnceClampsOccupancy(t *testing.T) {
	body := `{"occupied": 40}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()
	rec := &fakeRecorder{}
	feed := newTestFeed(srv.URL, rec)

	require.NoError(t, feed.RunOnce(context.Background()))
	body = `{"occupied": -4}`
	require.NoError(t, feed.RunOnce(context.Background()))

	assert.Equal(t, int64(0), rec.calls[0].available)
	assert.Equal(t, int64(12), rec.calls[1].available)
}

func TestRunOnceRetriesWithBackoff(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			http.Error(w, "camera offline", http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"occupied": 2}`))
	}))
	defer srv.Close()
	rec := &fakeRecorder{}
	feed := newTestFeed(srv.URL, rec)
	var delays []time.Duration
	feed.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	require.NoError(t, feed.RunOnce(context.Background()))
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, delays)
	assert.Equal(t, int64(10), rec.calls[0].available)
}

func TestRunOnceGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()
	rec := &fakeRecorder{}

	err := newTestFeed(srv.URL, rec).RunOnce(context.Background())
	require.Error(t, err)
	assert.Empty(t, rec.calls)
}

func TestRunOncePropagatesRecorderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"occupied": 1}`))
	}))
	defer srv.Close()
	rec := &fakeRecorder{err: errors.New("store down")}

	assert.Error(t, newTestFeed(srv.URL, rec).RunOnce(context.Background()))
}

func TestStartRejectsBadSchedule(t *testing.T) {
	feed := newTestFeed("http://127.0.0.1:1", &fakeRecorder{})
	feed.opts.Schedule = "every so often"
	assert.Error(t, feed.Start(context.Background()))

	feed.opts.Schedule = "@every 1h"
	require.NoError(t, feed.Start(context.Background()))
	feed.Stop()
}
