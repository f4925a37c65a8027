package httpserver

import (
	"net/http"
	"testing"
)

func int16Ptr(v int16) *int16 { return &v }

func strPtr(v string) *string { return &v }

func TestSaveReviewMergesFields(t *testing.T) {
	srv := buildTestServer(t)
	token, _ := registerTestUser(t, srv)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/reviews", token, reviewRequest{
		ItemType: "movie",
		ItemID:   "603",
		Rating:   int16Ptr(8),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("first save status = %d, body %s", rec.Code, rec.Body.String())
	}

	// A later save with only text keeps the rating.
	rec = doRequest(t, srv, http.MethodPost, "/api/v1/reviews", token, reviewRequest{
		ItemType:   "movie",
		ItemID:     "603",
		ReviewText: strPtr("still holds up"),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("second save status = %d, want 200", rec.Code)
	}
	var merged preferenceResponse
	decodeBody(t, rec, &merged)
	if merged.Rating == nil || *merged.Rating != 8 {
		t.Fatalf("rating lost on merge: %+v", merged)
	}
	if merged.ReviewText == nil || *merged.ReviewText != "still holds up" {
		t.Fatalf("review text not merged: %+v", merged)
	}
}

func TestSaveReviewValidation(t *testing.T) {
	srv := buildTestServer(t)
	token, _ := registerTestUser(t, srv)

	t.Run("rating out of range", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/reviews", token, reviewRequest{
			ItemType: "movie",
			ItemID:   "603",
			Rating:   int16Ptr(11),
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("actors are not reviewable", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/reviews", token, reviewRequest{
			ItemType: "actor",
			ItemID:   "500",
			Rating:   int16Ptr(5),
		})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
		}
		var resp errorResponse
		decodeBody(t, rec, &resp)
		if resp.Code != "INVALID_ITEM_TYPE" {
			t.Fatalf("code = %q, want INVALID_ITEM_TYPE", resp.Code)
		}
	})
}

func TestGetReviewNotFound(t *testing.T) {
	srv := buildTestServer(t)
	token, _ := registerTestUser(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/reviews/single?item_type=movie&item_id=42", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestItemReviewsArePublic(t *testing.T) {
	srv := buildTestServer(t)
	aliceToken, _ := registerTestUser(t, srv)
	bobToken, _ := registerTestUser(t, srv)

	for _, tok := range []string{aliceToken, bobToken} {
		rec := doRequest(t, srv, http.MethodPost, "/api/v1/reviews", tok, reviewRequest{
			ItemType:   "movie",
			ItemID:     "603",
			Rating:     int16Ptr(9),
			ReviewText: strPtr("classic"),
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("save status = %d", rec.Code)
		}
	}

	// No bearer token, only the service key.
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/reviews/item?item_type=movie&item_id=603", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("item reviews status = %d, body %s", rec.Code, rec.Body.String())
	}
	var list itemReviewListResponse
	decodeBody(t, rec, &list)
	if list.Count != 2 {
		t.Fatalf("count = %d, want 2", list.Count)
	}
	for _, item := range list.Items {
		if item.Author == "" {
			t.Fatalf("review missing author: %+v", item)
		}
	}
}

func TestListReviewsFiltersFavoritesOut(t *testing.T) {
	srv := buildTestServer(t)
	token, _ := registerTestUser(t, srv)

	// One favorite without review, one proper review.
	doRequest(t, srv, http.MethodPost, "/api/v1/favorites", token, favoriteRequest{ItemType: "movie", ItemID: "1"})
	doRequest(t, srv, http.MethodPost, "/api/v1/reviews", token, reviewRequest{
		ItemType: "movie",
		ItemID:   "2",
		Rating:   int16Ptr(7),
	})

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/reviews", token, nil)
	var list preferenceListResponse
	decodeBody(t, rec, &list)
	if list.Count != 1 {
		t.Fatalf("review list count = %d, want 1", list.Count)
	}
	if list.Items[0].ItemID != "2" {
		t.Fatalf("unexpected review item: %+v", list.Items[0])
	}
}
