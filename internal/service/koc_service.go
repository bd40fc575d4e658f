// internal/service/koc_service.go
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/botuai88-lab/Sohaco-KOC/internal/analytics"
	"github.com/botuai88-lab/Sohaco-KOC/internal/cache"
	"github.com/botuai88-lab/Sohaco-KOC/internal/domain"
	"github.com/botuai88-lab/Sohaco-KOC/internal/grouping"
	"github.com/botuai88-lab/Sohaco-KOC/internal/listing"
	"github.com/botuai88-lab/Sohaco-KOC/internal/sheet"
)

// KOCService owns the in-memory record collection, the single source
// of truth every derived view is computed from. The collection is
// replaced or patched only here; everything handed out is a copy.
// Outgoing writes are serialized with one mutex: the gateway has no
// concurrency token, so overlapping writes from one process would
// race on storage positions.
type KOCService struct {
	gateway sheet.Gateway
	cache   cache.DashboardCache

	mu      sync.RWMutex
	records []domain.KOC
	loaded  bool

	writeMu sync.Mutex
	reload  singleflight.Group
}

func NewKOCService(gateway sheet.Gateway, dashCache cache.DashboardCache) *KOCService {
	if dashCache == nil {
		dashCache = cache.NewNoopDashboardCache()
	}
	return &KOCService{gateway: gateway, cache: dashCache}
}

// ListPage is one page of the grouped management view.
type ListPage struct {
	Groups      []domain.EntityGroup `json:"groups"`
	TotalGroups int                  `json:"totalGroups"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"pageSize"`
}

// Refresh re-fetches the full collection from the sheet. Concurrent
// refreshes collapse into a single gateway call.
func (s *KOCService) Refresh(ctx context.Context) error {
	_, err, _ := s.reload.Do("refresh", func() (any, error) {
		records, err := s.gateway.FetchAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch collaborations: %w", err)
		}

		s.mu.Lock()
		s.records = records
		s.loaded = true
		s.mu.Unlock()

		s.invalidateDashboard(ctx)
		log.Info().Int("records", len(records)).Msg("collection refreshed from sheet")
		return nil, nil
	})
	return err
}

func (s *KOCService) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}
	return s.Refresh(ctx)
}

// Records returns a copy of the current collection.
func (s *KOCService) Records(ctx context.Context) ([]domain.KOC, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.KOC(nil), s.records...), nil
}

// List groups the collection and applies filter, sort and pagination.
func (s *KOCService) List(ctx context.Context, f listing.Filter, srt listing.Sort, page int) (*ListPage, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	groups, total := listing.Apply(grouping.Group(records), f, srt, page)
	return &ListPage{
		Groups:      groups,
		TotalGroups: total,
		Page:        page,
		PageSize:    listing.PageSize,
	}, nil
}

// Create validates and appends one collaboration. The server-assigned
// row replaces the submitted one wholesale; the collection keeps its
// sequence ordering.
func (s *KOCService) Create(ctx context.Context, k domain.KOC) (domain.KOC, error) {
	if err := k.Validate(); err != nil {
		return domain.KOC{}, err
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.KOC{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	created, err := s.gateway.Create(ctx, k)
	if err != nil {
		return domain.KOC{}, fmt.Errorf("create collaboration: %w", err)
	}

	s.mu.Lock()
	s.records = append(s.records, created)
	sortBySeq(s.records)
	s.mu.Unlock()

	s.invalidateDashboard(ctx)
	return created, nil
}

// Update rewrites one collaboration at its storage position and
// replaces the in-memory record with the gateway's echo. No field
// merging happens here.
func (s *KOCService) Update(ctx context.Context, k domain.KOC) (domain.KOC, error) {
	if err := k.Validate(); err != nil {
		return domain.KOC{}, err
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.KOC{}, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	updated, err := s.gateway.Update(ctx, k)
	if err != nil {
		return domain.KOC{}, fmt.Errorf("update collaboration %d: %w", k.RowID, err)
	}

	s.mu.Lock()
	for i := range s.records {
		if s.records[i].RowID == updated.RowID {
			s.records[i] = updated
			break
		}
	}
	s.mu.Unlock()

	s.invalidateDashboard(ctx)
	return updated, nil
}

// Delete removes the collaborations at the given storage positions
// and refreshes afterwards: removing rows shifts the positions of
// everything below, so the stale addresses must not survive.
func (s *KOCService) Delete(ctx context.Context, rowIDs []int) error {
	if len(rowIDs) == 0 {
		return nil
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	s.writeMu.Lock()
	if err := s.gateway.Delete(ctx, rowIDs); err != nil {
		s.writeMu.Unlock()
		return fmt.Errorf("delete collaborations: %w", err)
	}
	s.writeMu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		// The rows are gone; a failed re-fetch only leaves positions
		// stale until the next successful refresh.
		log.Warn().Err(err).Msg("refresh after delete failed")
	}
	return nil
}

// Import batch-creates pre-parsed records (all-or-nothing on the
// gateway side) and appends the server-confirmed rows.
func (s *KOCService) Import(ctx context.Context, kocs []domain.KOC) ([]domain.KOC, error) {
	if len(kocs) == 0 {
		return nil, nil
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	created, err := s.gateway.BatchCreate(ctx, kocs)
	if err != nil {
		return nil, fmt.Errorf("batch create %d collaborations: %w", len(kocs), err)
	}

	s.mu.Lock()
	s.records = append(s.records, created...)
	sortBySeq(s.records)
	s.mu.Unlock()

	s.invalidateDashboard(ctx)
	return created, nil
}

// DashboardSummary computes (or serves from cache) the stat cards,
// histograms and trend for one date-range filter.
func (s *KOCService) DashboardSummary(ctx context.Context, r domain.DateRange) (*domain.DashboardSummary, error) {
	if summary, ok, err := s.cache.GetSummary(ctx, r); err != nil {
		log.Warn().Err(err).Msg("dashboard cache read failed")
	} else if ok {
		return summary, nil
	}

	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}

	summary := analytics.Summarize(analytics.FilterByRange(records, r))
	if err := s.cache.SetSummary(ctx, r, &summary); err != nil {
		log.Warn().Err(err).Msg("dashboard cache write failed")
	}
	return &summary, nil
}

// Leaderboards computes the brand-scoped top-N views over the
// date-range-filtered set.
func (s *KOCService) Leaderboards(ctx context.Context, r domain.DateRange, monthly, quarterly domain.Brand, now time.Time) (*domain.Leaderboards, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	boards := analytics.Leaderboards(analytics.FilterByRange(records, r), monthly, quarterly, now)
	return &boards, nil
}

func (s *KOCService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("dashboard cache invalidation failed")
	}
}

func sortBySeq(records []domain.KOC) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Seq < records[j].Seq
	})
}
