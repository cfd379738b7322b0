package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"print_shop_sync/internal/adapters"
	"print_shop_sync/internal/cache"
	"print_shop_sync/internal/models"
	"print_shop_sync/internal/repository"
)

// ErrUnknownPlatform is returned when a sync is requested for a platform that
// has no registered adapter.
var ErrUnknownPlatform = errors.New("unknown platform")

// PlatformResult is the outcome of one adapter pass.
type PlatformResult struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}

// SyncSummary aggregates a full sync run. Success is true only when every
// platform succeeded; callers still inspect Results, since an overall failure
// does not mean zero progress.
type SyncSummary struct {
	Success bool                               `json:"success"`
	Results map[models.Platform]PlatformResult `json:"results"`
}

type SyncService interface {
	SyncAll(ctx context.Context) *SyncSummary
	SyncOne(ctx context.Context, platform models.Platform) (*PlatformResult, error)
	PlatformHealth(ctx context.Context) map[models.Platform]bool
	RecentLogs(ctx context.Context, limit int) ([]models.SyncLog, error)
}

type syncService struct {
	adapters    map[models.Platform]adapters.SourceAdapter
	orderRepo   repository.OrderRepository
	syncLogRepo repository.SyncLogRepository
	cache       *cache.Client
	timeout     time.Duration
}

// NewSyncService registers the given adapters keyed by platform. The registry
// is fixed at construction; adding a platform means adding an adapter here,
// not extending a string switch somewhere.
func NewSyncService(
	sources []adapters.SourceAdapter,
	orderRepo repository.OrderRepository,
	syncLogRepo repository.SyncLogRepository,
	cacheClient *cache.Client,
	timeout time.Duration,
) SyncService {
	registry := make(map[models.Platform]adapters.SourceAdapter, len(sources))
	for _, source := range sources {
		registry[source.Platform()] = source
	}
	return &syncService{
		adapters:    registry,
		orderRepo:   orderRepo,
		syncLogRepo: syncLogRepo,
		cache:       cacheClient,
		timeout:     timeout,
	}
}

// SyncAll runs every adapter concurrently. Adapters never contend on the same
// logical order because the store key includes the platform, so the only
// shared state is the store itself.
func (s *syncService) SyncAll(ctx context.Context) *SyncSummary {
	results := make(map[models.Platform]PlatformResult, len(s.adapters))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for platform, source := range s.adapters {
		wg.Add(1)
		go func(platform models.Platform, source adapters.SourceAdapter) {
			defer wg.Done()
			result := s.syncPlatform(ctx, platform, source)
			mu.Lock()
			results[platform] = result
			mu.Unlock()
		}(platform, source)
	}
	wg.Wait()

	summary := &SyncSummary{Success: true, Results: results}
	for _, result := range results {
		if !result.Success {
			summary.Success = false
			break
		}
	}
	return summary
}

func (s *syncService) SyncOne(ctx context.Context, platform models.Platform) (*PlatformResult, error) {
	source, ok := s.adapters[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}
	result := s.syncPlatform(ctx, platform, source)
	return &result, nil
}

// syncPlatform runs one isolated adapter pass: fetch, upsert each record,
// append exactly one log entry. A fetch failure (including timeout) aborts
// only this platform; an upsert failure skips only that record.
func (s *syncService) syncPlatform(ctx context.Context, platform models.Platform, source adapters.SourceAdapter) PlatformResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	orders, err := source.FetchOrders(ctx)
	if err != nil {
		s.appendLog(platform, models.SyncError, 0, err.Error())
		return PlatformResult{Success: false, Count: 0, Error: err.Error()}
	}

	synced := 0
	for i := range orders {
		if err := s.orderRepo.Upsert(ctx, &orders[i]); err != nil {
			log.Printf("sync %s: skipping order %s: %v", platform, orders[i].OrderNumber, err)
			continue
		}
		synced++
	}

	s.appendLog(platform, models.SyncSuccess, synced, "")

	if synced > 0 && s.cache != nil {
		if err := s.cache.InvalidateOrderStats(context.Background()); err != nil {
			log.Printf("sync %s: failed to invalidate stats cache: %v", platform, err)
		}
	}

	return PlatformResult{Success: true, Count: synced}
}

// appendLog writes the pass outcome. It uses a fresh context so a timed-out
// adapter pass still gets its log entry.
func (s *syncService) appendLog(platform models.Platform, status models.SyncStatus, count int, message string) {
	entry := &models.SyncLog{
		Platform:     platform,
		Status:       status,
		OrdersSynced: count,
		ErrorMessage: message,
	}
	if err := s.syncLogRepo.Create(context.Background(), entry); err != nil {
		log.Printf("sync %s: failed to create sync log: %v", platform, err)
	}
}

func (s *syncService) PlatformHealth(ctx context.Context) map[models.Platform]bool {
	health := make(map[models.Platform]bool, len(s.adapters))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for platform, source := range s.adapters {
		wg.Add(1)
		go func(platform models.Platform, source adapters.SourceAdapter) {
			defer wg.Done()
			probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			ok := source.TestConnection(probeCtx)
			mu.Lock()
			health[platform] = ok
			mu.Unlock()
		}(platform, source)
	}
	wg.Wait()
	return health
}

func (s *syncService) RecentLogs(ctx context.Context, limit int) ([]models.SyncLog, error) {
	return s.syncLogRepo.Recent(ctx, limit)
}
