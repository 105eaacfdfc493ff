// Package loader drives the two-stage catalog load: an instant first stage
// from the persistent cache (or the bundled dataset), then a background
// refresh from the remote source that overwrites the snapshot and the cache.
package loader

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/rs/zerolog"

	"github.com/openscholar/journal-catalog-service/internal/cache"
	"github.com/openscholar/journal-catalog-service/internal/catalog"
	"github.com/openscholar/journal-catalog-service/internal/dataset"
	"github.com/openscholar/journal-catalog-service/internal/domain"
	"github.com/openscholar/journal-catalog-service/internal/normalize"
	"github.com/openscholar/journal-catalog-service/internal/observability"
)

// Origin identifies where the currently published snapshot came from.
type Origin string

const (
	// OriginNone means no snapshot has been published yet.
	OriginNone Origin = "none"
	// OriginCache means the snapshot was decoded from the persistent cache.
	OriginCache Origin = "cache"
	// OriginBundled means the snapshot came from the bundled fallback dataset.
	OriginBundled Origin = "bundled"
	// OriginRemote means the snapshot reflects the latest remote fetch.
	OriginRemote Origin = "remote"
)

// AppendTimeout bounds the detached background delivery of a new row to the
// remote source after the local state has already been updated.
const AppendTimeout = 15 * time.Second

// cacheKey is the single key the whole catalog blob lives under.
const cacheKey = cache.DefaultKey

// Fetcher is the remote source surface the loader needs.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]domain.RawRow, error)
	Append(ctx context.Context, row domain.RawRow) error
}

// Blobs is the persistent cache surface the loader needs. Get returns
// (nil, nil) when the key is absent.
type Blobs interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// Loader owns the catalog lifecycle: loading, refreshing, and accepting
// new journals.
type Loader struct {
	store   *catalog.Store
	cache   Blobs
	source  Fetcher
	metrics *observability.Metrics
	logger  zerolog.Logger
	enc     gnfmt.Encoder

	datasetPath string

	mu     sync.Mutex
	origin Origin
	ready  atomic.Bool
}

// New creates a Loader. The cache and source may be nil; each disabled
// collaborator degrades its stage instead of failing the load.
func New(store *catalog.Store, cache Blobs, source Fetcher, metrics *observability.Metrics, logger zerolog.Logger) *Loader {
	return &Loader{
		store:   store,
		cache:   cache,
		source:  source,
		metrics: metrics,
		logger:  logger.With().Str("component", "loader").Logger(),
		enc:     gnfmt.GNjson{},
		origin:  OriginNone,
	}
}

// UseDatasetFile overrides the compiled-in fallback dataset with a file on
// disk. An unreadable file falls back to the bundled rows at load time.
func (l *Loader) UseDatasetFile(path string) {
	l.datasetPath = path
}

// Origin reports where the published snapshot came from.
func (l *Loader) Origin() Origin {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.origin
}

// Ready reports whether a snapshot has been published and queries can be
// answered.
func (l *Loader) Ready() bool {
	return l.ready.Load()
}

// Load runs both stages. Stage one publishes a snapshot immediately from the
// persistent cache, falling back to the bundled dataset, so the service is
// usable before any network round trip. Stage two always fetches the remote
// source; on success it replaces the snapshot and rewrites the cache, on
// failure the stage-one snapshot stays in place.
func (l *Loader) Load(ctx context.Context) error {
	l.loadLocal()

	if err := l.Refresh(ctx); err != nil {
		l.logger.Warn().Err(err).Msg("remote refresh failed, serving local snapshot")
		return err
	}
	return nil
}

// loadLocal publishes the cached snapshot when one exists, otherwise the
// bundled dataset. Cache failures are demoted to misses.
func (l *Loader) loadLocal() {
	if journals, ok := l.fromCache(); ok {
		l.publish(journals, OriginCache)
		l.metrics.RecordCacheHit()
		l.logger.Info().Int("journals", len(journals)).Msg("catalog loaded from cache")
		return
	}
	l.metrics.RecordCacheMiss()

	rows, err := l.fallbackRows()
	if err != nil {
		// The bundled dataset is compiled in; failing to decode it is a
		// build defect, not a runtime condition worth retrying.
		l.logger.Error().Err(err).Msg("bundled dataset unreadable")
		return
	}

	journals := catalog.Dedupe(normalize.Batch(rows))
	l.publish(journals, OriginBundled)
	l.logger.Info().Int("journals", len(journals)).Msg("catalog loaded from bundled dataset")
}

// Refresh fetches the full row set from the remote source and, on success,
// replaces the snapshot and rewrites the cache entry.
func (l *Loader) Refresh(ctx context.Context) error {
	if l.source == nil {
		return fmt.Errorf("remote refresh: %w", domain.ErrSourceUnavailable)
	}

	start := time.Now()
	rows, err := l.source.FetchAll(ctx)
	if err != nil {
		l.metrics.RecordSourceFetch("failure", time.Since(start).Seconds())
		return fmt.Errorf("remote refresh: %w", err)
	}
	l.metrics.RecordSourceFetch("success", time.Since(start).Seconds())

	journals := catalog.Dedupe(normalize.Batch(rows))
	l.publish(journals, OriginRemote)
	l.writeCache(journals)

	l.logger.Info().Int("journals", len(journals)).Msg("catalog refreshed from remote source")
	return nil
}

// AddJournal accepts a new row optimistically: it is normalized and inserted
// into the snapshot first, the cache is rewritten, and delivery to the remote
// source happens in the background with its own bounded wait. A failed
// delivery is logged and counted but never rolls the local insert back.
func (l *Loader) AddJournal(ctx context.Context, row domain.RawRow) (domain.Journal, error) {
	journal := normalize.Normalize(row)
	if journal.Key() == "" {
		return domain.Journal{}, domain.NewValidationError("name", "journal name is required")
	}

	l.mu.Lock()
	l.store.Insert(journal)
	l.mu.Unlock()

	l.metrics.RecordJournalAdded()
	l.metrics.RecordCatalogSize(l.store.Len())
	l.writeCache(l.store.Snapshot())

	requestID := observability.RequestIDFromContext(ctx)
	go l.deliver(requestID, journal, row)

	return journal, nil
}

// deliver pushes the raw row to the remote source on a detached context so
// the HTTP response does not wait on it.
func (l *Loader) deliver(requestID string, journal domain.Journal, row domain.RawRow) {
	if l.source == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), AppendTimeout)
	defer cancel()

	logger := observability.WithJournalContext(l.logger, journal.Name, journal.ISSN)
	if requestID != "" {
		logger = observability.WithRequestContext(logger, requestID)
	}

	if err := l.source.Append(ctx, row); err != nil {
		l.metrics.RecordAppendFailure()
		logger.Error().Err(err).Msg("background delivery to source failed, local copy kept")
		return
	}
	logger.Info().Msg("journal delivered to source")
}

// fallbackRows returns the dataset override when one is configured and
// readable, the bundled rows otherwise.
func (l *Loader) fallbackRows() ([]domain.RawRow, error) {
	if l.datasetPath != "" {
		rows, err := dataset.LoadFile(l.datasetPath)
		if err == nil {
			return rows, nil
		}
		l.logger.Warn().Err(err).Str("path", l.datasetPath).Msg("dataset override unreadable, using bundled rows")
	}
	return dataset.Load()
}

func (l *Loader) fromCache() ([]domain.Journal, bool) {
	if l.cache == nil {
		return nil, false
	}

	blob, err := l.cache.Get(cacheKey)
	if err != nil {
		l.logger.Warn().Err(err).Msg("cache read failed, treating as miss")
		return nil, false
	}
	if blob == nil {
		return nil, false
	}

	var journals []domain.Journal
	if err := l.enc.Decode(blob, &journals); err != nil {
		l.logger.Warn().Err(err).Msg("cache entry undecodable, treating as miss")
		return nil, false
	}
	if len(journals) == 0 {
		return nil, false
	}
	return journals, true
}

func (l *Loader) writeCache(journals []domain.Journal) {
	if l.cache == nil {
		return
	}

	blob, err := l.enc.Encode(journals)
	if err != nil {
		l.metrics.RecordCacheWriteFailure()
		l.logger.Warn().Err(err).Msg("cache encode failed")
		return
	}
	if err := l.cache.Put(cacheKey, blob); err != nil {
		l.metrics.RecordCacheWriteFailure()
		l.logger.Warn().Err(err).Msg("cache write failed")
	}
}

func (l *Loader) publish(journals []domain.Journal, origin Origin) {
	l.mu.Lock()
	l.store.Replace(journals)
	l.origin = origin
	l.mu.Unlock()

	l.ready.Store(true)
	l.metrics.RecordCatalogSize(len(journals))
}
