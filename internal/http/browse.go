package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/clemente-pps/flixfinder/internal/catalog"
)

type listingResponse struct {
	Items []catalog.Entry `json:"items"`
	Count int             `json:"count"`
}

type genreListResponse struct {
	Genres []string `json:"genres"`
}

func (s *Server) handlePopular(kind catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.browse.Popular(r.Context(), kind)
		if err != nil {
			s.respondAppError(w, err)
			return
		}
		s.respondListing(w, result)
	}
}

func (s *Server) handleSearch(kind catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("query"))
		if query == "" {
			s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "query parameter is required")
			return
		}
		result, err := s.browse.Search(r.Context(), kind, query)
		if err != nil {
			s.respondAppError(w, err)
			return
		}
		s.respondListing(w, result)
	}
}

func (s *Server) handleGenreNames(kind catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := s.browse.GenreNames(r.Context(), kind)
		if err != nil {
			s.respondAppError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, genreListResponse{Genres: names})
	}
}

func (s *Server) handleDiscover(kind catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		genre := strings.TrimSpace(r.URL.Query().Get("genre"))
		if genre == "" {
			s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "genre parameter is required")
			return
		}
		result, err := s.browse.DiscoverGenre(r.Context(), kind, genre)
		if err != nil {
			s.respondAppError(w, err)
			return
		}
		s.respondListing(w, result)
	}
}

func (s *Server) handleByID(kind catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a positive integer")
			return
		}
		detail, err := s.browse.ByID(r.Context(), kind, id)
		if err != nil {
			s.respondAppError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, detail)
	}
}

func (s *Server) respondListing(w http.ResponseWriter, result catalog.Result) {
	s.respondJSON(w, http.StatusOK, listingResponse{
		Items: result.Entries,
		Count: result.TotalAvailable,
	})
}
