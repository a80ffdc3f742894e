// Package scheduler refreshes stale thumbnails for published tools in the
// background and prunes old view-history rows while it is at it.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/toolshub/api/internal/client"
	"github.com/toolshub/api/internal/model"
	"github.com/toolshub/api/internal/store"
	"gorm.io/gorm"
)

type ThumbnailScheduler struct {
	store      store.ToolStore
	screenshot *client.ScreenshotClient
	db         *gorm.DB

	interval  time.Duration
	maxAge    time.Duration
	retention time.Duration

	running  bool
	mu       sync.Mutex
	stopChan chan struct{}

	lastRun       time.Time
	lastRefreshed int
}

type Config struct {
	Interval time.Duration
	// MaxAge is how old a thumbnail may get before it is re-captured.
	MaxAge time.Duration
	// Retention bounds the view-history table.
	Retention time.Duration
}

func NewThumbnailScheduler(s store.ToolStore, screenshot *client.ScreenshotClient, db *gorm.DB, cfg Config) *ThumbnailScheduler {
	if cfg.Interval == 0 {
		cfg.Interval = time.Hour
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 7 * 24 * time.Hour
	}

	return &ThumbnailScheduler{
		store:      s,
		screenshot: screenshot,
		db:         db,
		interval:   cfg.Interval,
		maxAge:     cfg.MaxAge,
		retention:  cfg.Retention,
		stopChan:   make(chan struct{}),
	}
}

func (s *ThumbnailScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	log.Printf("[Scheduler] Starting with interval %v", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[Scheduler] Context cancelled, stopping")
			return
		case <-s.stopChan:
			log.Println("[Scheduler] Stop signal received")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *ThumbnailScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		close(s.stopChan)
		s.running = false
		log.Println("[Scheduler] Stopped")
	}
}

func (s *ThumbnailScheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]interface{}{
		"enabled":       true,
		"interval":      s.interval.String(),
		"lastRun":       s.lastRun,
		"lastRefreshed": s.lastRefreshed,
	}
}

func (s *ThumbnailScheduler) runOnce(ctx context.Context) {
	refreshed := s.refreshThumbnails(ctx)
	s.pruneViewHistory()

	s.mu.Lock()
	s.lastRun = time.Now()
	s.lastRefreshed = refreshed
	s.mu.Unlock()
}

func (s *ThumbnailScheduler) refreshThumbnails(ctx context.Context) int {
	tools, err := s.store.Load(ctx)
	if err != nil {
		log.Printf("[Scheduler] Warning: failed to load tools: %v", err)
		return 0
	}

	cutoff := time.Now().Add(-s.maxAge)
	refreshed := 0

	for i := range tools {
		t := &tools[i]
		if t.Status != model.StatusPublished || t.URL == "" {
			continue
		}
		if t.ThumbnailCapturedAt != nil && t.ThumbnailCapturedAt.After(cutoff) {
			continue
		}

		imageURL, err := s.screenshot.Capture(ctx, t.URL)
		if err != nil {
			log.Printf("[Scheduler] Warning: capture failed for %s: %v", t.ID, err)
			continue
		}

		now := time.Now()
		t.ThumbnailURL = imageURL
		t.ThumbnailCapturedAt = &now
		refreshed++
	}

	if refreshed == 0 {
		return 0
	}

	if err := s.store.Save(ctx, tools); err != nil {
		log.Printf("[Scheduler] Warning: failed to save refreshed thumbnails: %v", err)
		return 0
	}

	log.Printf("[Scheduler] Refreshed %d thumbnails", refreshed)
	return refreshed
}

func (s *ThumbnailScheduler) pruneViewHistory() {
	if s.db == nil || s.retention == 0 {
		return
	}

	cutoff := time.Now().Add(-s.retention)
	result := s.db.Where("viewed_at < ?", cutoff).Delete(&model.ToolView{})
	if result.Error != nil {
		log.Printf("[Scheduler] Warning: failed to prune view history: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("[Scheduler] Pruned %d view history rows", result.RowsAffected)
	}
}
