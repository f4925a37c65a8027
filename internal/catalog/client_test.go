package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clemente-pps/flixfinder/internal/apperr"
)

func newTestClient(t *testing.T, handler http.Handler) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(server.URL, "test-token", Options{
		Language:  "es-ES",
		ImageBase: "https://img.example.com/w500",
		Timeout:   2 * time.Second,
		Logger:    log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}
	return client
}

func TestPopularNormalizesMovieEntries(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/popular" {
			t.Errorf("path = %s, want /movie/popular", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization = %q", got)
		}
		if got := r.URL.Query().Get("language"); got != "es-ES" {
			t.Errorf("language = %q", got)
		}
		if got := r.URL.Query().Get("page"); got != "1" {
			t.Errorf("page = %q", got)
		}
		poster := "/abc.jpg"
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"page": 1,
			"results": []map[string]interface{}{
				{
					"id":           550,
					"title":        "Fight Club",
					"overview":     "two men",
					"vote_average": 8.4,
					"poster_path":  poster,
					"release_date": "1999-10-15",
					"genre_ids":    []int64{18, 53},
				},
				{
					"id":           551,
					"title":        "No Poster",
					"vote_average": 5.0,
				},
			},
			"total_pages":   25,
			"total_results": 500,
		})
	})

	client := newTestClient(t, handler)
	page, err := client.Popular(context.Background(), KindMovie, 1)
	if err != nil {
		t.Fatalf("Popular: %v", err)
	}
	if page.TotalPages != 25 || page.TotalResults != 500 {
		t.Fatalf("page meta = %+v", page)
	}
	if len(page.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(page.Results))
	}

	first := page.Results[0]
	if first.Title != "Fight Club" || first.ID != 550 {
		t.Fatalf("first entry = %+v", first)
	}
	if first.PosterURL == nil || *first.PosterURL != "https://img.example.com/w500/abc.jpg" {
		t.Fatalf("posterUrl = %v", first.PosterURL)
	}
	if len(first.GenreIDs) != 2 || first.GenreIDs[0] != 18 {
		t.Fatalf("genreIds = %v", first.GenreIDs)
	}
	if page.Results[1].PosterURL != nil {
		t.Fatalf("missing poster should map to nil, got %v", *page.Results[1].PosterURL)
	}
}

func TestSearchUsesNameForTV(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/tv" {
			t.Errorf("path = %s, want /search/tv", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "dark" {
			t.Errorf("query = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"page": 1,
			"results": []map[string]interface{}{
				{"id": 1, "name": "Dark", "first_air_date": "2017-12-01", "genre_ids": []int64{9648}},
			},
			"total_pages":   1,
			"total_results": 1,
		})
	})

	client := newTestClient(t, handler)
	page, err := client.Search(context.Background(), KindTV, "dark", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if page.Results[0].Title != "Dark" {
		t.Fatalf("title = %q, want name fallback", page.Results[0].Title)
	}
	if page.Results[0].ReleaseDate != "2017-12-01" {
		t.Fatalf("releaseDate = %q, want first air date fallback", page.Results[0].ReleaseDate)
	}
}

func TestByIDResolvesGenreNames(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/550" {
			t.Errorf("path = %s, want /movie/550", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":           550,
			"title":        "Fight Club",
			"vote_average": 8.4,
			"genres": []map[string]interface{}{
				{"id": 18, "name": "Drama"},
				{"id": 53, "name": "Suspense"},
			},
		})
	})

	client := newTestClient(t, handler)
	detail, err := client.ByID(context.Background(), KindMovie, 550)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if len(detail.Genres) != 2 || detail.Genres[0] != "Drama" {
		t.Fatalf("genres = %v, want resolved names", detail.Genres)
	}
}

func TestClientStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantKind apperr.Kind
	}{
		{"not found", http.StatusNotFound, apperr.NotFound},
		{"server error", http.StatusInternalServerError, apperr.UpstreamUnavailable},
		{"unauthorized", http.StatusUnauthorized, apperr.UpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			client := newTestClient(t, handler)

			_, err := client.ByID(context.Background(), KindMovie, 1)
			if !apperr.IsKind(err, tt.wantKind) {
				t.Fatalf("error = %v, want kind %v", err, tt.wantKind)
			}
			if tt.wantKind == apperr.UpstreamUnavailable {
				var appErr *apperr.Error
				if !errors.As(err, &appErr) || appErr.UpstreamStatus != tt.status {
					t.Fatalf("upstream status not recorded: %v", err)
				}
			}
		})
	}
}

func TestGenresList(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/genre/tv/list" {
			t.Errorf("path = %s, want /genre/tv/list", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"genres": []map[string]interface{}{
				{"id": 16, "name": "Animación"},
			},
		})
	})

	client := newTestClient(t, handler)
	genres, err := client.Genres(context.Background(), KindTV)
	if err != nil {
		t.Fatalf("Genres: %v", err)
	}
	if len(genres) != 1 || genres[0].Name != "Animación" || genres[0].ID != 16 {
		t.Fatalf("genres = %+v", genres)
	}
}
