package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/lightbox-fetcher/internal/domain"
	"github.com/user/lightbox-fetcher/internal/monitoring"
)

// Fetcher is the core single-link operation. It always returns a result,
// also alongside an error.
type Fetcher interface {
	Fetch(ctx context.Context, link string) (*domain.FetchResult, error)
}

// ResultStore is the fetch ledger.
type ResultStore interface {
	SaveResult(ctx context.Context, res *domain.FetchResult) error
	GetFetchStatus(ctx context.Context, link string) (*domain.FetchStatusResponse, error)
	Ping(ctx context.Context) error
}

// RecentCache remembers recently saved links.
type RecentCache interface {
	MarkFetched(ctx context.Context, link, fileName string, ttl time.Duration) error
	RecentlyFetched(ctx context.Context, link string) (string, bool, error)
	Forget(ctx context.Context, link string) error
	Ping(ctx context.Context) error
}

// ImageService wraps the fetcher with caching, the ledger and metrics.
// Stores are optional; a nil store is skipped. A non-positive recentTTL
// turns off skipping and marking, the cache is then only health-checked.
type ImageService struct {
	fetcher   Fetcher
	results   ResultStore
	recent    RecentCache
	metrics   *monitoring.Metrics
	logger    *zap.Logger
	recentTTL time.Duration
}

func NewImageService(f Fetcher, results ResultStore, recent RecentCache, m *monitoring.Metrics, l *zap.Logger, recentTTL time.Duration) *ImageService {
	return &ImageService{
		fetcher:   f,
		results:   results,
		recent:    recent,
		metrics:   m,
		logger:    l,
		recentTTL: recentTTL,
	}
}

// Fetch processes one link. The error is non-nil only for failures after
// the image reference was found (download or write).
func (s *ImageService) Fetch(ctx context.Context, link string, force bool) (*domain.FetchResult, error) {
	if !force {
		if res, ok := s.checkRecent(ctx, link); ok {
			s.metrics.IncFetchesTotal(string(res.Outcome))
			return res, nil
		}
	}

	res, fetchErr := s.fetcher.Fetch(ctx, link)
	s.metrics.IncFetchesTotal(string(res.Outcome))

	switch {
	case fetchErr != nil:
		s.logger.Error("failed to fetch image", zap.String("link", link), zap.String("image_url", res.ImageURL), zap.Error(fetchErr))
		s.metrics.IncErrorsTotal(string(res.Outcome))
	case res.OK():
		s.logger.Info("image saved", zap.String("link", link), zap.String("path", res.Path), zap.Int64("bytes", res.Bytes))
		s.metrics.AddBytesWritten(res.Bytes)
	default:
		s.logger.Warn("no image for link", zap.String("link", link), zap.String("outcome", string(res.Outcome)), zap.String("reason", res.FailReason))
	}

	s.record(ctx, res)
	return res, fetchErr
}

// FetchAll processes links one after another. A download or write failure
// is kept on that link's result and does not stop the batch.
func (s *ImageService) FetchAll(ctx context.Context, links []string, force bool) []*domain.FetchResult {
	results := make([]*domain.FetchResult, 0, len(links))
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			res := &domain.FetchResult{Link: link, FetchedAt: time.Now()}
			res.Fail(fmt.Errorf("%w: %w", domain.ErrPageFetch, err))
			results = append(results, res)
			continue
		}
		res, _ := s.Fetch(ctx, link, force)
		results = append(results, res)
	}
	return results
}

// Status returns the ledger entry for link.
func (s *ImageService) Status(ctx context.Context, link string) (*domain.FetchStatusResponse, error) {
	if s.results == nil {
		return nil, domain.ErrNotFound
	}
	return s.results.GetFetchStatus(ctx, link)
}

// Health pings each configured store.
func (s *ImageService) Health(ctx context.Context) map[string]error {
	health := make(map[string]error)
	if s.results != nil {
		health["postgres"] = s.results.Ping(ctx)
	}
	if s.recent != nil {
		health["redis"] = s.recent.Ping(ctx)
	}
	return health
}

func (s *ImageService) deduplicating() bool {
	return s.recent != nil && s.recentTTL > 0
}

func (s *ImageService) checkRecent(ctx context.Context, link string) (*domain.FetchResult, bool) {
	if !s.deduplicating() {
		return nil, false
	}
	fileName, ok, err := s.recent.RecentlyFetched(ctx, link)
	if err != nil {
		s.logger.Error("failed to check redis for fetched status", zap.String("link", link), zap.Error(err))
		s.metrics.IncErrorsTotal("cache_read_failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	s.logger.Info("skipping recently fetched link", zap.String("link", link))
	return &domain.FetchResult{
		Link:      link,
		FileName:  fileName,
		Outcome:   domain.OutcomeSkippedRecent,
		FetchedAt: time.Now(),
	}, true
}

func (s *ImageService) record(ctx context.Context, res *domain.FetchResult) {
	if s.results != nil {
		if err := s.results.SaveResult(ctx, res); err != nil {
			s.logger.Error("error saving fetch result", zap.String("link", res.Link), zap.Error(err))
			s.metrics.IncErrorsTotal("ledger_save_failed")
		}
	}

	if !s.deduplicating() {
		return
	}
	var err error
	if res.OK() {
		err = s.recent.MarkFetched(ctx, res.Link, res.FileName, s.recentTTL)
	} else {
		err = s.recent.Forget(ctx, res.Link)
	}
	if err != nil {
		s.logger.Error("failed to update redis fetched status", zap.String("link", res.Link), zap.Error(err))
		s.metrics.IncErrorsTotal("cache_write_failed")
	}
}
