package preference

import (
	"context"
	"errors"
	"log"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/clemente-pps/flixfinder/internal/domain"
	"github.com/clemente-pps/flixfinder/internal/repository"
)

// Detailed pairs a preference record with its resolved catalog details.
// Details is nil when the mirror has no row for the item; it is one of
// *domain.MovieDetails, *domain.SeriesDetails, *domain.ActorDetails otherwise.
type Detailed struct {
	Preference domain.Preference
	Details    interface{}
}

type resolver func(ctx context.Context, upstreamID int64) (interface{}, error)

// Enricher resolves preference records to their per-type detail projections
// against the local catalog mirror. It never touches the live upstream.
type Enricher struct {
	resolvers   map[domain.ItemType]resolver
	concurrency int
	logger      *log.Logger
}

// NewEnricher builds an Enricher over the mirror repository. Lookups fan out
// concurrently, bounded by concurrency.
func NewEnricher(catalog *repository.CatalogRepository, concurrency int, logger *log.Logger) *Enricher {
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		logger = log.Default()
	}
	e := &Enricher{concurrency: concurrency, logger: logger}
	e.resolvers = map[domain.ItemType]resolver{
		domain.ItemTypeMovie: func(ctx context.Context, id int64) (interface{}, error) {
			movie, err := catalog.GetMovie(ctx, id)
			if err != nil {
				return nil, err
			}
			return &domain.MovieDetails{
				Title:       movie.Title,
				PosterPath:  movie.PosterPath,
				ReleaseDate: movie.ReleaseDate,
				VoteAverage: movie.VoteAverage,
			}, nil
		},
		domain.ItemTypeSeries: func(ctx context.Context, id int64) (interface{}, error) {
			series, err := catalog.GetSeries(ctx, id)
			if err != nil {
				return nil, err
			}
			return &domain.SeriesDetails{
				Name:         series.Name,
				PosterPath:   series.ImagePath,
				FirstAirDate: series.PremiereDate,
				VoteAverage:  series.VoteAverage,
			}, nil
		},
		domain.ItemTypeActor: func(ctx context.Context, id int64) (interface{}, error) {
			actor, err := catalog.GetActor(ctx, id)
			if err != nil {
				return nil, err
			}
			return &domain.ActorDetails{
				Name:               actor.Name,
				ProfilePath:        actor.ProfilePath,
				KnownForDepartment: actor.KnownForDepartment,
			}, nil
		},
	}
	return e
}

// Enrich resolves details for each record. Lookups are independent and
// read-only; misses and per-item failures degrade to nil Details so one bad
// record never fails the batch. Input order is preserved.
func (e *Enricher) Enrich(ctx context.Context, records []domain.Preference) []Detailed {
	detailed := make([]Detailed, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, rec := range records {
		i, rec := i, rec
		detailed[i].Preference = rec
		g.Go(func() error {
			detailed[i].Details = e.resolve(ctx, rec)
			return nil
		})
	}
	// Workers never return errors; degraded lookups are already nil.
	_ = g.Wait()

	return detailed
}

func (e *Enricher) resolve(ctx context.Context, rec domain.Preference) interface{} {
	key, ok := upstreamKey(rec)
	if !ok {
		return nil
	}
	lookup, ok := e.resolvers[rec.ItemType]
	if !ok {
		return nil
	}
	details, err := lookup(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			e.logger.Printf("enrich: %s %s lookup failed: %v", rec.ItemType, rec.ItemID, err)
		}
		return nil
	}
	return details
}

// upstreamKey picks the mirror lookup key: the stored upstream id, or the
// item id when it parses as one.
func upstreamKey(rec domain.Preference) (int64, bool) {
	if rec.UpstreamID != nil {
		return *rec.UpstreamID, true
	}
	id, err := strconv.ParseInt(rec.ItemID, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
