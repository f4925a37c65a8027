package catalog

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/clemente-pps/flixfinder/internal/apperr"
)

// Aggregator walks a paginated upstream listing until a fixed entry cap is
// reached. Pages are requested sequentially because stopping depends on the
// upstream's reported page count; any page failure aborts the whole run with
// no partial result.
type Aggregator struct {
	client Client
	limit  int
}

// NewAggregator builds an Aggregator capped at limit entries per request.
func NewAggregator(client Client, limit int) *Aggregator {
	if limit <= 0 {
		limit = 70
	}
	return &Aggregator{client: client, limit: limit}
}

// Result is the capped, normalized outcome of one aggregation.
type Result struct {
	Entries        []Entry `json:"entries"`
	TotalAvailable int     `json:"totalAvailable"`
}

// Popular aggregates the popularity-ranked listing.
func (a *Aggregator) Popular(ctx context.Context, kind Kind) (Result, error) {
	return a.collect(ctx, func(page int) (Page, error) {
		return a.client.Popular(ctx, kind, page)
	})
}

// Search aggregates title/name search results.
func (a *Aggregator) Search(ctx context.Context, kind Kind, query string) (Result, error) {
	return a.collect(ctx, func(page int) (Page, error) {
		return a.client.Search(ctx, kind, query, page)
	})
}

// DiscoverGenre resolves a human genre name against the upstream genre list,
// matching case-, accent- and whitespace-insensitively, then aggregates the
// discover listing for the resolved id.
func (a *Aggregator) DiscoverGenre(ctx context.Context, kind Kind, genreName string) (Result, error) {
	genres, err := a.client.Genres(ctx, kind)
	if err != nil {
		return Result{}, err
	}

	want := normalizeName(genreName)
	var genreID int64
	found := false
	for _, g := range genres {
		if normalizeName(g.Name) == want {
			genreID = g.ID
			found = true
			break
		}
	}
	if !found {
		return Result{}, apperr.New(apperr.NotFound, "genre %q not found", genreName)
	}

	return a.collect(ctx, func(page int) (Page, error) {
		return a.client.Discover(ctx, kind, genreID, page)
	})
}

// ByID fetches a single item with genre names resolved by the upstream.
func (a *Aggregator) ByID(ctx context.Context, kind Kind, id int64) (Detail, error) {
	return a.client.ByID(ctx, kind, id)
}

// GenreNames lists the upstream genre names for the kind.
func (a *Aggregator) GenreNames(ctx context.Context, kind Kind) ([]string, error) {
	genres, err := a.client.Genres(ctx, kind)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return names, nil
}

func (a *Aggregator) collect(ctx context.Context, fetch func(page int) (Page, error)) (Result, error) {
	entries := make([]Entry, 0, a.limit)
	for page := 1; ; page++ {
		p, err := fetch(page)
		if err != nil {
			return Result{}, err
		}
		entries = append(entries, p.Results...)
		if len(entries) >= a.limit || page >= p.TotalPages {
			break
		}
	}
	if len(entries) > a.limit {
		entries = entries[:a.limit]
	}
	return Result{Entries: entries, TotalAvailable: len(entries)}, nil
}

// normalizeName lowercases, strips diacritics, and collapses whitespace so
// "Ciencia ficción" matches "ciencia ficcion".
func normalizeName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}
