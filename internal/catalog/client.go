package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/clemente-pps/flixfinder/internal/apperr"
)

// Kind selects the upstream listing family.
type Kind string

const (
	KindMovie Kind = "movie"
	KindTV    Kind = "tv"
)

// Entry is the normalized shape for browse/search/discover results. Genres on
// this path are the upstream's raw genre ids; only the by-id detail path
// resolves names. Callers must not assume one representation across both.
type Entry struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"voteAverage"`
	PosterURL   *string `json:"posterUrl"`
	ReleaseDate string  `json:"releaseDate,omitempty"`
	GenreIDs    []int64 `json:"genres"`
}

// Detail is the normalized shape for a single-item fetch, with genre names
// resolved by the upstream.
type Detail struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	VoteAverage float64  `json:"voteAverage"`
	PosterURL   *string  `json:"posterUrl"`
	ReleaseDate string   `json:"releaseDate,omitempty"`
	Genres      []string `json:"genres"`
}

// Genre is one entry of the upstream's id/name genre list.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Page is one upstream result page.
type Page struct {
	Page         int
	Results      []Entry
	TotalPages   int
	TotalResults int
}

// Client defines the contract for querying the upstream catalog service.
type Client interface {
	Popular(ctx context.Context, kind Kind, page int) (Page, error)
	Search(ctx context.Context, kind Kind, query string, page int) (Page, error)
	Discover(ctx context.Context, kind Kind, genreID int64, page int) (Page, error)
	ByID(ctx context.Context, kind Kind, id int64) (Detail, error)
	Genres(ctx context.Context, kind Kind) ([]Genre, error)
}

// HTTPClient implements Client over HTTP with bearer-token auth.
type HTTPClient struct {
	baseURL   *url.URL
	token     string
	language  string
	imageBase string
	client    *http.Client
	logger    *log.Logger
}

// Options configures an HTTPClient.
type Options struct {
	Language  string
	ImageBase string
	Timeout   time.Duration
	Logger    *log.Logger
}

// NewHTTPClient constructs a new HTTP-backed catalog client.
func NewHTTPClient(baseURL, token string, opts Options) (*HTTPClient, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClient{
		baseURL:   parsed,
		token:     token,
		language:  opts.Language,
		imageBase: strings.TrimRight(opts.ImageBase, "/"),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger,
	}, nil
}

// Popular lists one page of the popularity-ranked listing.
func (c *HTTPClient) Popular(ctx context.Context, kind Kind, page int) (Page, error) {
	return c.getPage(ctx, kind, fmt.Sprintf("/%s/popular", kind), url.Values{}, page)
}

// Search lists one page of title/name search results.
func (c *HTTPClient) Search(ctx context.Context, kind Kind, query string, page int) (Page, error) {
	params := url.Values{}
	params.Set("query", query)
	return c.getPage(ctx, kind, fmt.Sprintf("/search/%s", kind), params, page)
}

// Discover lists one page filtered by genre id.
func (c *HTTPClient) Discover(ctx context.Context, kind Kind, genreID int64, page int) (Page, error) {
	params := url.Values{}
	params.Set("with_genres", strconv.FormatInt(genreID, 10))
	params.Set("sort_by", "popularity.desc")
	return c.getPage(ctx, kind, fmt.Sprintf("/discover/%s", kind), params, page)
}

// ByID fetches one item with its genre names resolved.
func (c *HTTPClient) ByID(ctx context.Context, kind Kind, id int64) (Detail, error) {
	var payload detailPayload
	if err := c.get(ctx, fmt.Sprintf("/%s/%d", kind, id), url.Values{}, &payload); err != nil {
		return Detail{}, err
	}

	genres := make([]string, 0, len(payload.Genres))
	for _, g := range payload.Genres {
		genres = append(genres, g.Name)
	}

	return Detail{
		ID:          payload.ID,
		Title:       titleOrName(payload.Title, payload.Name),
		Overview:    payload.Overview,
		VoteAverage: payload.VoteAverage,
		PosterURL:   c.posterURL(payload.PosterPath),
		ReleaseDate: dateOrAirDate(payload.ReleaseDate, payload.FirstAirDate),
		Genres:      genres,
	}, nil
}

// Genres fetches the upstream's id/name genre list for the kind.
func (c *HTTPClient) Genres(ctx context.Context, kind Kind) ([]Genre, error) {
	var payload struct {
		Genres []Genre `json:"genres"`
	}
	if err := c.get(ctx, fmt.Sprintf("/genre/%s/list", kind), url.Values{}, &payload); err != nil {
		return nil, err
	}
	return payload.Genres, nil
}

func (c *HTTPClient) getPage(ctx context.Context, kind Kind, path string, params url.Values, page int) (Page, error) {
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))

	var payload pageResponse
	if err := c.get(ctx, path, params, &payload); err != nil {
		return Page{}, err
	}

	results := make([]Entry, 0, len(payload.Results))
	for _, item := range payload.Results {
		results = append(results, Entry{
			ID:          item.ID,
			Title:       titleOrName(item.Title, item.Name),
			Overview:    item.Overview,
			VoteAverage: item.VoteAverage,
			PosterURL:   c.posterURL(item.PosterPath),
			ReleaseDate: dateOrAirDate(item.ReleaseDate, item.FirstAirDate),
			GenreIDs:    item.GenreIDs,
		})
	}

	return Page{
		Page:         payload.Page,
		Results:      results,
		TotalPages:   payload.TotalPages,
		TotalResults: payload.TotalResults,
	}, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, dst interface{}) error {
	if c.language != "" {
		params.Set("language", c.language)
	}
	rel := &url.URL{Path: path, RawQuery: params.Encode()}
	endpoint := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.UpstreamUnavailable, err, "catalog request failed")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return apperr.Wrap(apperr.UpstreamUnavailable, err, "decode catalog response")
		}
		return nil
	case http.StatusNotFound:
		return apperr.New(apperr.NotFound, "catalog resource not found")
	default:
		c.logger.Printf("catalog: unexpected status %d for %s", resp.StatusCode, path)
		return apperr.Upstream(resp.StatusCode, "catalog returned %d", resp.StatusCode)
	}
}

func (c *HTTPClient) posterURL(posterPath *string) *string {
	if posterPath == nil || *posterPath == "" || c.imageBase == "" {
		return nil
	}
	full := c.imageBase + *posterPath
	return &full
}

type pageResponse struct {
	Page         int            `json:"page"`
	Results      []entryPayload `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// entryPayload absorbs both the movie shape (title/release_date) and the tv
// shape (name/first_air_date).
type entryPayload struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
	PosterPath   *string `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	GenreIDs     []int64 `json:"genre_ids"`
}

type detailPayload struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	VoteAverage  float64 `json:"vote_average"`
	PosterPath   *string `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	Genres       []Genre `json:"genres"`
}

func titleOrName(title, name string) string {
	if title != "" {
		return title
	}
	return name
}

func dateOrAirDate(releaseDate, firstAirDate string) string {
	if releaseDate != "" {
		return releaseDate
	}
	return firstAirDate
}
