package httpserver

import (
	"net/http"
	"time"

	"github.com/clemente-pps/flixfinder/internal/domain"
	"github.com/clemente-pps/flixfinder/internal/preference"
)

type reviewRequest struct {
	ItemType   string  `json:"itemType"`
	ItemID     string  `json:"itemId"`
	UpstreamID *int64  `json:"upstreamId"`
	Rating     *int16  `json:"rating"`
	ReviewText *string `json:"reviewText"`
	IsFavorite *bool   `json:"isFavorite"`
}

type itemReviewResponse struct {
	ID         string    `json:"id"`
	ItemType   string    `json:"itemType"`
	ItemID     string    `json:"itemId"`
	Rating     *int16    `json:"rating,omitempty"`
	ReviewText *string   `json:"reviewText,omitempty"`
	Author     string    `json:"author"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type itemReviewListResponse struct {
	Items []itemReviewResponse `json:"items"`
	Count int                  `json:"count"`
}

func (s *Server) handleSaveReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	claims := sessionClaims(r)
	record, created, err := s.prefs.SaveReview(r.Context(), claims.UserID, preference.ReviewInput{
		ItemType:   req.ItemType,
		ItemID:     req.ItemID,
		UpstreamID: req.UpstreamID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
		IsFavorite: req.IsFavorite,
	})
	if err != nil {
		s.respondAppError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, toPreferenceResponse(record))
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	claims := sessionClaims(r)
	records, err := s.prefs.ListReviews(r.Context(), claims.UserID, r.URL.Query().Get("type"))
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toPreferenceListResponse(records))
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	claims := sessionClaims(r)
	query := r.URL.Query()
	record, err := s.prefs.GetReview(r.Context(), claims.UserID, query.Get("item_type"), query.Get("item_id"))
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toPreferenceResponse(record))
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	s.handleDeletePreference(w, r)
}

func (s *Server) handleItemReviews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	reviews, err := s.prefs.ItemReviews(r.Context(), query.Get("item_type"), query.Get("item_id"))
	if err != nil {
		s.respondAppError(w, err)
		return
	}

	items := make([]itemReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, toItemReviewResponse(review))
	}
	s.respondJSON(w, http.StatusOK, itemReviewListResponse{Items: items, Count: len(items)})
}

func toItemReviewResponse(review domain.ItemReview) itemReviewResponse {
	return itemReviewResponse{
		ID:         review.ID,
		ItemType:   string(review.ItemType),
		ItemID:     review.ItemID,
		Rating:     review.Rating,
		ReviewText: review.ReviewText,
		Author:     review.FirstName + " " + review.LastName,
		CreatedAt:  review.CreatedAt,
		UpdatedAt:  review.UpdatedAt,
	}
}
