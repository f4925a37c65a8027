package httpserver

import (
	"net/http"
	"testing"
)

func TestPopularListings(t *testing.T) {
	srv := buildTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/movies/popular", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("movies status = %d, body %s", rec.Code, rec.Body.String())
	}
	var movies listingResponse
	decodeBody(t, rec, &movies)
	if movies.Count != 3 {
		t.Fatalf("movies count = %d, want 3", movies.Count)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/series/popular", "", nil)
	var series listingResponse
	decodeBody(t, rec, &series)
	if series.Count != 2 {
		t.Fatalf("series count = %d, want 2", series.Count)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	srv := buildTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/movies/search", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/movies/search?query=matrix", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var list listingResponse
	decodeBody(t, rec, &list)
	if list.Count != 2 {
		t.Fatalf("count = %d, want 2 matrix matches", list.Count)
	}
}

func TestDiscoverByGenreName(t *testing.T) {
	srv := buildTestServer(t)

	// Accent-insensitive match against the upstream list.
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/movies/discover?genre=accion", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var list listingResponse
	decodeBody(t, rec, &list)
	if list.Count != 2 {
		t.Fatalf("count = %d, want 2 action movies", list.Count)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/movies/discover?genre=western", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown genre status = %d, want 404", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/movies/discover", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing genre status = %d, want 400", rec.Code)
	}
}

func TestGenreNamesListing(t *testing.T) {
	srv := buildTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/series/genres", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp genreListResponse
	decodeBody(t, rec, &resp)
	if len(resp.Genres) != 2 || resp.Genres[0] != "Drama" {
		t.Fatalf("genres = %v", resp.Genres)
	}
}

func TestByIDRoutes(t *testing.T) {
	srv := buildTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/movies/1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var detail struct {
		ID     int64    `json:"id"`
		Title  string   `json:"title"`
		Genres []string `json:"genres"`
	}
	decodeBody(t, rec, &detail)
	if detail.ID != 1 || detail.Title != "Matrix" || len(detail.Genres) == 0 {
		t.Fatalf("detail = %+v", detail)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/movies/9999", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing id status = %d, want 404", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/movies/abc", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id status = %d, want 400", rec.Code)
	}
}

func TestImportEndpoints(t *testing.T) {
	srv := buildTestServer(t)
	token, _ := registerTestUser(t, srv)

	t.Run("movie", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/catalog/movies", token, movieImportRequest{
			UpstreamID: 603,
			Title:      "Matrix",
			GenreIDs:   []int64{28, 878},
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
		var resp movieMirrorResponse
		decodeBody(t, rec, &resp)
		if resp.UpstreamID != 603 || len(resp.GenreIDs) != 2 {
			t.Fatalf("resp = %+v", resp)
		}
	})

	t.Run("requires session", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/catalog/movies", "", movieImportRequest{UpstreamID: 1, Title: "X"})
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("validation", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/catalog/series", token, seriesImportRequest{Name: "No ID"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("actor", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/catalog/actors", token, actorImportRequest{
			UpstreamID: 500,
			Name:       "Tom Hanks",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
		}
	})
}

func TestCatalogMirrorReadBack(t *testing.T) {
	srv := buildTestServer(t)
	token, _ := registerTestUser(t, srv)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/catalog/movies", token, movieImportRequest{
		UpstreamID: 604,
		Title:      "Matrix Reloaded",
		GenreIDs:   []int64{28},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("import status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/catalog/movies/604", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, body %s", rec.Code, rec.Body.String())
	}
	var movie movieMirrorResponse
	decodeBody(t, rec, &movie)
	if movie.UpstreamID != 604 || movie.Title != "Matrix Reloaded" {
		t.Fatalf("movie = %+v", movie)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/catalog/movies/77777", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing mirror status = %d, want 404", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/catalog/movies/bogus", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id status = %d, want 400", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/v1/catalog/movies/604", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec = doRequest(t, srv, http.MethodGet, "/api/v1/catalog/movies/604", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("deleted mirror status = %d, want 404", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodDelete, "/api/v1/catalog/movies/604", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("double delete status = %d, want 404", rec.Code)
	}
}

func TestCatalogMirrorActorReadBack(t *testing.T) {
	srv := buildTestServer(t)
	token, _ := registerTestUser(t, srv)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/catalog/actors", token, actorImportRequest{
		UpstreamID: 31,
		Name:       "Tom Hanks",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("import status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/catalog/actors/31", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, body %s", rec.Code, rec.Body.String())
	}
	var actor actorMirrorResponse
	decodeBody(t, rec, &actor)
	if actor.UpstreamID != 31 || actor.Name != "Tom Hanks" {
		t.Fatalf("actor = %+v", actor)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/v1/catalog/actors/31", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", rec.Code, rec.Body.String())
	}
}
