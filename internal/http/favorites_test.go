package httpserver

import (
	"net/http"
	"testing"
)

func int64Ptr(v int64) *int64 { return &v }

func TestAddFavoriteLifecycle(t *testing.T) {
	srv := buildTestServer(t)
	token, _ := registerTestUser(t, srv)

	body := favoriteRequest{ItemType: "movie", ItemID: "603", UpstreamID: int64Ptr(603)}

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/favorites", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first add status = %d, body %s", rec.Code, rec.Body.String())
	}
	var first preferenceResponse
	decodeBody(t, rec, &first)
	if !first.IsFavorite || first.ItemID != "603" {
		t.Fatalf("unexpected record: %+v", first)
	}

	// Re-adding is idempotent and reports the stored record.
	rec = doRequest(t, srv, http.MethodPost, "/api/v1/favorites", token, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("second add status = %d, want 200", rec.Code)
	}
	var second preferenceResponse
	decodeBody(t, rec, &second)
	if second.ID != first.ID {
		t.Fatalf("second add returned different record: %s vs %s", second.ID, first.ID)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/favorites?type=movie", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list preferenceListResponse
	decodeBody(t, rec, &list)
	if list.Count != 1 {
		t.Fatalf("list count = %d, want 1", list.Count)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/favorites/check?item_type=movie&item_id=603", token, nil)
	var check favoriteCheckResponse
	decodeBody(t, rec, &check)
	if !check.IsFavorite || check.Favorite == nil {
		t.Fatalf("check = %+v, want favorite", check)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/v1/favorites", token, deleteSelectorRequest{ID: first.ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/favorites/check?item_type=movie&item_id=603", token, nil)
	decodeBody(t, rec, &check)
	if check.IsFavorite {
		t.Fatalf("still favorite after delete")
	}
}

func TestCheckReportsFlagNotExistence(t *testing.T) {
	srv := buildTestServer(t)
	token, _ := registerTestUser(t, srv)

	// A review-only record exists for the key but is not a favorite.
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/reviews", token, reviewRequest{
		ItemType: "movie",
		ItemID:   "603",
		Rating:   int16Ptr(6),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("review status = %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/favorites/check?item_type=movie&item_id=603", token, nil)
	var check favoriteCheckResponse
	decodeBody(t, rec, &check)
	if check.IsFavorite {
		t.Fatalf("review-only record reported as favorite")
	}
	if check.Favorite == nil {
		t.Fatalf("stored record should still be returned")
	}
}

func TestToggleFavorite(t *testing.T) {
	srv := buildTestServer(t)
	token, _ := registerTestUser(t, srv)

	body := favoriteRequest{ItemType: "series", ItemID: "100"}

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/favorites/toggle", token, body)
	var toggled toggleResponse
	decodeBody(t, rec, &toggled)
	if !toggled.IsFavorite {
		t.Fatalf("first toggle should activate")
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/v1/favorites/toggle", token, body)
	decodeBody(t, rec, &toggled)
	if toggled.IsFavorite {
		t.Fatalf("second toggle should deactivate")
	}
}

func TestFavoriteStats(t *testing.T) {
	srv := buildTestServer(t)
	token, _ := registerTestUser(t, srv)

	adds := []favoriteRequest{
		{ItemType: "movie", ItemID: "1"},
		{ItemType: "movie", ItemID: "2"},
		{ItemType: "series", ItemID: "100"},
		{ItemType: "actor", ItemID: "500"},
	}
	for _, add := range adds {
		if rec := doRequest(t, srv, http.MethodPost, "/api/v1/favorites", token, add); rec.Code != http.StatusCreated {
			t.Fatalf("add %+v status = %d", add, rec.Code)
		}
	}

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/favorites/stats", token, nil)
	var stats favoriteStatsResponse
	decodeBody(t, rec, &stats)
	if stats.Total != 4 || stats.Movies != 2 || stats.Series != 1 || stats.Actors != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestAddFavoriteRejectsUnknownType(t *testing.T) {
	srv := buildTestServer(t)
	token, _ := registerTestUser(t, srv)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/favorites", token, favoriteRequest{ItemType: "book", ItemID: "1"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
}

func TestFavoritesAreScopedPerUser(t *testing.T) {
	srv := buildTestServer(t)
	aliceToken, _ := registerTestUser(t, srv)
	bobToken, _ := registerTestUser(t, srv)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/favorites", aliceToken, favoriteRequest{ItemType: "movie", ItemID: "603"})
	var added preferenceResponse
	decodeBody(t, rec, &added)

	// Bob cannot delete Alice's record by id.
	rec = doRequest(t, srv, http.MethodDelete, "/api/v1/favorites", bobToken, deleteSelectorRequest{ID: added.ID})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("cross-user delete status = %d, want 404", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/favorites", aliceToken, nil)
	var list preferenceListResponse
	decodeBody(t, rec, &list)
	if list.Count != 1 {
		t.Fatalf("alice list count = %d, want 1", list.Count)
	}
}

func TestListFavoritesDetailedUsesMirror(t *testing.T) {
	srv := buildTestServer(t)
	token, _ := registerTestUser(t, srv)

	// Import a mirror row, favorite it, and favorite one unmirrored item.
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/catalog/movies", token, movieImportRequest{
		UpstreamID: 603,
		Title:      "Matrix",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("import status = %d, body %s", rec.Code, rec.Body.String())
	}

	doRequest(t, srv, http.MethodPost, "/api/v1/favorites", token, favoriteRequest{ItemType: "movie", ItemID: "603", UpstreamID: int64Ptr(603)})
	doRequest(t, srv, http.MethodPost, "/api/v1/favorites", token, favoriteRequest{ItemType: "movie", ItemID: "999", UpstreamID: int64Ptr(999)})

	rec = doRequest(t, srv, http.MethodGet, "/api/v1/favorites/detailed", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("detailed status = %d", rec.Code)
	}
	var detailed detailedListResponse
	decodeBody(t, rec, &detailed)
	if detailed.Count != 2 {
		t.Fatalf("detailed count = %d, want 2", detailed.Count)
	}

	var withDetails, withoutDetails int
	for _, item := range detailed.Items {
		if item.Details != nil {
			withDetails++
		} else {
			withoutDetails++
		}
	}
	if withDetails != 1 || withoutDetails != 1 {
		t.Fatalf("details split = %d/%d, want 1 enriched and 1 bare", withDetails, withoutDetails)
	}
}
