package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"parkingspots/internal/entities"
)

// OccupancyRecorder persists a feed-derived availability reading.
type OccupancyRecorder interface {
	RecordOccupancy(ctx context.Context, locationID string, available int64, at time.Time) error
}

// FeedOptions configures the occupancy feed for a single location.
type FeedOptions struct {
	URL        string
	LocationID string
	TotalSpots int64
	Schedule   string
	MaxRetries int
	RetryDelay time.Duration
}

// OccupancyFeedService periodically polls an occupancy detector and writes the
// resulting availability for one location.
type OccupancyFeedService struct {
	opts     FeedOptions
	recorder OccupancyRecorder
	client   *http.Client
	logger   *zap.Logger
	cron     *cron.Cron
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewOccupancyFeedService(opts FeedOptions, recorder OccupancyRecorder, client *http.Client, logger *zap.Logger) *OccupancyFeedService {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	return &OccupancyFeedService{
		opts:     opts,
		recorder: recorder,
		client:   client,
		logger:   logger.With(zap.String("location_id", opts.LocationID)),
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Start schedules RunOnce on the configured cron spec.
func (s *OccupancyFeedService) Start(ctx context.Context) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.opts.Schedule, func() {
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("occupancy feed update failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("occupancy feed: invalid schedule %q: %w", s.opts.Schedule, err)
	}
	s.cron.Start()
	s.logger.Info("occupancy feed started",
		zap.String("schedule", s.opts.Schedule),
		zap.String("feed_url", s.opts.URL),
		zap.Int64("total_spots", s.opts.TotalSpots))
	return nil
}

// Stop halts the schedule and waits for a running update to finish.
func (s *OccupancyFeedService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("occupancy feed stopped")
}

// RunOnce fetches one reading, derives availability, and records it.
func (s *OccupancyFeedService) RunOnce(ctx context.Context) error {
	reading, err := s.fetchWithRetry(ctx)
	if err != nil {
		return err
	}

	occupied := clamp(reading.Occupied, 0, s.opts.TotalSpots)
	available := s.opts.TotalSpots - occupied
	s.logger.Info("occupancy reading",
		zap.Int64("occupied", occupied),
		zap.Int64("available", available),
		zap.Float64("occupancy_rate", float64(occupied)/float64(s.opts.TotalSpots)*100))

	if err := s.recorder.RecordOccupancy(ctx, s.opts.LocationID, available, s.now()); err != nil {
		return err
	}
	s.logger.Info("availability updated", zap.Int64("available", available))
	return nil
}

func (s *OccupancyFeedService) fetchWithRetry(ctx context.Context) (*entities.OccupancyReading, error) {
	var lastErr error
	for attempt := 1; attempt <= s.opts.MaxRetries; attempt++ {
		reading, err := s.fetch(ctx)
		if err == nil {
			return reading, nil
		}
		lastErr = err
		s.logger.Warn("occupancy fetch attempt failed",
			zap.Int("attempt", attempt), zap.Int("max_attempts", s.opts.MaxRetries), zap.Error(err))
		if attempt < s.opts.MaxRetries {
			if err := s.sleep(ctx, s.opts.RetryDelay*time.Duration(attempt)); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("occupancy feed: all %d attempts failed: %w", s.opts.MaxRetries, lastErr)
}

func (s *OccupancyFeedService) fetch(ctx context.Context) (*entities.OccupancyReading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.opts.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var reading entities.OccupancyReading
	if err := json.NewDecoder(resp.Body).Decode(&reading); err != nil {
		return nil, fmt.Errorf("decode reading: %w", err)
	}
	return &reading, nil
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
