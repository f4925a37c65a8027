package httpserver

import (
	"net/http"
	"time"

	"github.com/clemente-pps/flixfinder/internal/domain"
	"github.com/clemente-pps/flixfinder/internal/preference"
)

type favoriteRequest struct {
	ItemType   string `json:"itemType"`
	ItemID     string `json:"itemId"`
	UpstreamID *int64 `json:"upstreamId"`
}

type preferenceResponse struct {
	ID         string    `json:"id"`
	ItemType   string    `json:"itemType"`
	ItemID     string    `json:"itemId"`
	UpstreamID *int64    `json:"upstreamId,omitempty"`
	Rating     *int16    `json:"rating,omitempty"`
	ReviewText *string   `json:"reviewText,omitempty"`
	IsFavorite bool      `json:"isFavorite"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type preferenceListResponse struct {
	Items []preferenceResponse `json:"items"`
	Count int                  `json:"count"`
}

type detailedFavoriteResponse struct {
	preferenceResponse
	Details interface{} `json:"details"`
}

type detailedListResponse struct {
	Items []detailedFavoriteResponse `json:"items"`
	Count int                        `json:"count"`
}

type favoriteCheckResponse struct {
	IsFavorite bool                `json:"isFavorite"`
	Favorite   *preferenceResponse `json:"favorite"`
}

type favoriteStatsResponse struct {
	Total  int64 `json:"total"`
	Movies int64 `json:"movies"`
	Series int64 `json:"series"`
	Actors int64 `json:"actors"`
}

type toggleResponse struct {
	IsFavorite bool `json:"isFavorite"`
}

type deleteSelectorRequest struct {
	ID       string `json:"id"`
	ItemType string `json:"itemType"`
	ItemID   string `json:"itemId"`
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	claims := sessionClaims(r)
	record, created, err := s.prefs.AddFavorite(r.Context(), claims.UserID, preference.FavoriteInput{
		ItemType:   req.ItemType,
		ItemID:     req.ItemID,
		UpstreamID: req.UpstreamID,
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

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	claims := sessionClaims(r)
	records, err := s.prefs.ListFavorites(r.Context(), claims.UserID, r.URL.Query().Get("type"))
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toPreferenceListResponse(records))
}

func (s *Server) handleListFavoritesDetailed(w http.ResponseWriter, r *http.Request) {
	claims := sessionClaims(r)
	detailed, err := s.prefs.ListFavoritesDetailed(r.Context(), claims.UserID)
	if err != nil {
		s.respondAppError(w, err)
		return
	}

	items := make([]detailedFavoriteResponse, 0, len(detailed))
	for _, d := range detailed {
		items = append(items, detailedFavoriteResponse{
			preferenceResponse: toPreferenceResponse(d.Preference),
			Details:            d.Details,
		})
	}
	s.respondJSON(w, http.StatusOK, detailedListResponse{Items: items, Count: len(items)})
}

func (s *Server) handleCheckFavorite(w http.ResponseWriter, r *http.Request) {
	claims := sessionClaims(r)
	query := r.URL.Query()
	record, err := s.prefs.CheckFavorite(r.Context(), claims.UserID, query.Get("item_type"), query.Get("item_id"))
	if err != nil {
		s.respondAppError(w, err)
		return
	}

	resp := favoriteCheckResponse{}
	if record != nil {
		// A review-only record exists with the flag off; report the flag,
		// not bare existence.
		resp.IsFavorite = record.IsFavorite
		pr := toPreferenceResponse(*record)
		resp.Favorite = &pr
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFavoriteStats(w http.ResponseWriter, r *http.Request) {
	claims := sessionClaims(r)
	stats, err := s.prefs.FavoriteStats(r.Context(), claims.UserID)
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, favoriteStatsResponse{
		Total:  stats.Total,
		Movies: stats.Movies,
		Series: stats.Series,
		Actors: stats.Actors,
	})
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	claims := sessionClaims(r)
	active, err := s.prefs.ToggleFavorite(r.Context(), claims.UserID, preference.FavoriteInput{
		ItemType:   req.ItemType,
		ItemID:     req.ItemID,
		UpstreamID: req.UpstreamID,
	})
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toggleResponse{IsFavorite: active})
}

func (s *Server) handleDeleteFavorite(w http.ResponseWriter, r *http.Request) {
	s.handleDeletePreference(w, r)
}

func (s *Server) handleDeletePreference(w http.ResponseWriter, r *http.Request) {
	var req deleteSelectorRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	claims := sessionClaims(r)
	err := s.prefs.Delete(r.Context(), claims.UserID, preference.DeleteSelector{
		ID:       req.ID,
		ItemType: req.ItemType,
		ItemID:   req.ItemID,
	})
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func toPreferenceResponse(record domain.Preference) preferenceResponse {
	return preferenceResponse{
		ID:         record.ID,
		ItemType:   string(record.ItemType),
		ItemID:     record.ItemID,
		UpstreamID: record.UpstreamID,
		Rating:     record.Rating,
		ReviewText: record.ReviewText,
		IsFavorite: record.IsFavorite,
		CreatedAt:  record.CreatedAt,
		UpdatedAt:  record.UpdatedAt,
	}
}

func toPreferenceListResponse(records []domain.Preference) preferenceListResponse {
	items := make([]preferenceResponse, 0, len(records))
	for _, record := range records {
		items = append(items, toPreferenceResponse(record))
	}
	return preferenceListResponse{Items: items, Count: len(items)}
}
