package services

import (
	"context"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/lvasseur/factures/internal/models"
	"github.com/lvasseur/factures/internal/offline"
)

// SyncService refreshes the offline snapshot of the client list. The job is
// fire-and-forget and idempotent: re-running it, even concurrently with
// itself, produces the same merged snapshot.
type SyncService struct {
	DB    *gorm.DB
	Cache *offline.Cache

	mu        sync.Mutex
	lastRun   time.Time
	lastCount int
}

func NewSyncService(db *gorm.DB, cache *offline.Cache) *SyncService {
	return &SyncService{DB: db, Cache: cache}
}

// SyncClients snapshots every client into the offline cache.
func (s *SyncService) SyncClients(ctx context.Context) (int, error) {
	var clients []models.Client
	if err := s.DB.WithContext(ctx).Preload("Contacts").Find(&clients).Error; err != nil {
		return 0, err
	}
	for _, c := range clients {
		if err := s.Cache.Put("client", c.PublicID, c); err != nil {
			return 0, err
		}
	}
	s.mu.Lock()
	s.lastRun = time.Now()
	s.lastCount = len(clients)
	s.mu.Unlock()
	return len(clients), nil
}

// SyncStatus reports the pending-sync marker and the last run.
type SyncStatus struct {
	Pending   int64     `json:"pending"`
	LastRun   time.Time `json:"last_run"`
	LastCount int       `json:"last_count"`
}

func (s *SyncService) Status() (SyncStatus, error) {
	pending, err := s.Cache.PendingCount()
	if err != nil {
		return SyncStatus{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return SyncStatus{Pending: pending, LastRun: s.lastRun, LastCount: s.lastCount}, nil
}

// Start runs the periodic sync until ctx is cancelled.
func (s *SyncService) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.SyncClients(ctx); err != nil {
					log.Printf("client sync failed: %v", err)
				}
			}
		}
	}()
}
