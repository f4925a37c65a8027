package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/clemente-pps/flixfinder/internal/domain"
	"github.com/clemente-pps/flixfinder/internal/repository"
)

type movieImportRequest struct {
	UpstreamID  int64    `json:"upstreamId"`
	Title       string   `json:"title"`
	Overview    *string  `json:"overview"`
	ReleaseDate *string  `json:"releaseDate"`
	VoteAverage *float64 `json:"voteAverage"`
	PosterPath  *string  `json:"posterPath"`
	GenreIDs    []int64  `json:"genreIds"`
}

type seriesImportRequest struct {
	UpstreamID   int64    `json:"upstreamId"`
	Name         string   `json:"name"`
	Overview     *string  `json:"overview"`
	PremiereDate *string  `json:"premiereDate"`
	VoteAverage  *float64 `json:"voteAverage"`
	ImagePath    *string  `json:"imagePath"`
	Genres       []string `json:"genres"`
}

type actorImportRequest struct {
	UpstreamID         int64    `json:"upstreamId"`
	Name               string   `json:"name"`
	ProfilePath        *string  `json:"profilePath"`
	KnownForDepartment *string  `json:"knownForDepartment"`
	Popularity         *float64 `json:"popularity"`
}

type movieMirrorResponse struct {
	UpstreamID  int64    `json:"upstreamId"`
	Title       string   `json:"title"`
	Overview    *string  `json:"overview,omitempty"`
	ReleaseDate *string  `json:"releaseDate,omitempty"`
	VoteAverage *float64 `json:"voteAverage,omitempty"`
	PosterPath  *string  `json:"posterPath,omitempty"`
	GenreIDs    []int64  `json:"genreIds"`
}

type seriesMirrorResponse struct {
	UpstreamID   int64    `json:"upstreamId"`
	Name         string   `json:"name"`
	Overview     *string  `json:"overview,omitempty"`
	PremiereDate *string  `json:"premiereDate,omitempty"`
	VoteAverage  *float64 `json:"voteAverage,omitempty"`
	ImagePath    *string  `json:"imagePath,omitempty"`
	Genres       []string `json:"genres"`
}

type actorMirrorResponse struct {
	UpstreamID         int64    `json:"upstreamId"`
	Name               string   `json:"name"`
	ProfilePath        *string  `json:"profilePath,omitempty"`
	KnownForDepartment *string  `json:"knownForDepartment,omitempty"`
	Popularity         *float64 `json:"popularity,omitempty"`
}

func (s *Server) handleImportMovie(w http.ResponseWriter, r *http.Request) {
	var req movieImportRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.UpstreamID <= 0 || strings.TrimSpace(req.Title) == "" {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "upstreamId and title are required")
		return
	}

	movie, err := s.repo.Catalog.UpsertMovie(r.Context(), domain.Movie{
		UpstreamID:  req.UpstreamID,
		Title:       strings.TrimSpace(req.Title),
		Overview:    req.Overview,
		ReleaseDate: req.ReleaseDate,
		VoteAverage: req.VoteAverage,
		PosterPath:  req.PosterPath,
		GenreIDs:    req.GenreIDs,
	})
	if err != nil {
		s.logger.Printf("import movie error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to import movie")
		return
	}
	s.respondJSON(w, http.StatusCreated, toMovieMirrorResponse(movie))
}

func (s *Server) handleImportSeries(w http.ResponseWriter, r *http.Request) {
	var req seriesImportRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.UpstreamID <= 0 || strings.TrimSpace(req.Name) == "" {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "upstreamId and name are required")
		return
	}

	series, err := s.repo.Catalog.UpsertSeries(r.Context(), domain.Series{
		UpstreamID:   req.UpstreamID,
		Name:         strings.TrimSpace(req.Name),
		Overview:     req.Overview,
		PremiereDate: req.PremiereDate,
		VoteAverage:  req.VoteAverage,
		ImagePath:    req.ImagePath,
		Genres:       req.Genres,
	})
	if err != nil {
		s.logger.Printf("import series error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to import series")
		return
	}
	s.respondJSON(w, http.StatusCreated, toSeriesMirrorResponse(series))
}

func (s *Server) handleImportActor(w http.ResponseWriter, r *http.Request) {
	var req actorImportRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.UpstreamID <= 0 || strings.TrimSpace(req.Name) == "" {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "upstreamId and name are required")
		return
	}

	actor, err := s.repo.Catalog.UpsertActor(r.Context(), domain.Actor{
		UpstreamID:         req.UpstreamID,
		Name:               strings.TrimSpace(req.Name),
		ProfilePath:        req.ProfilePath,
		KnownForDepartment: req.KnownForDepartment,
		Popularity:         req.Popularity,
	})
	if err != nil {
		s.logger.Printf("import actor error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to import actor")
		return
	}
	s.respondJSON(w, http.StatusCreated, toActorMirrorResponse(actor))
}

// mirrorID parses the {id} route parameter shared by the mirror read and
// delete handlers.
func (s *Server) mirrorID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (s *Server) handleGetMirrorMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := s.mirrorID(w, r)
	if !ok {
		return
	}
	movie, err := s.repo.Catalog.GetMovie(r.Context(), id)
	if err != nil {
		s.respondMirrorError(w, err, "movie")
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieMirrorResponse(movie))
}

func (s *Server) handleGetMirrorSeries(w http.ResponseWriter, r *http.Request) {
	id, ok := s.mirrorID(w, r)
	if !ok {
		return
	}
	series, err := s.repo.Catalog.GetSeries(r.Context(), id)
	if err != nil {
		s.respondMirrorError(w, err, "series")
		return
	}
	s.respondJSON(w, http.StatusOK, toSeriesMirrorResponse(series))
}

func (s *Server) handleGetMirrorActor(w http.ResponseWriter, r *http.Request) {
	id, ok := s.mirrorID(w, r)
	if !ok {
		return
	}
	actor, err := s.repo.Catalog.GetActor(r.Context(), id)
	if err != nil {
		s.respondMirrorError(w, err, "actor")
		return
	}
	s.respondJSON(w, http.StatusOK, toActorMirrorResponse(actor))
}

func (s *Server) handleDeleteMirrorMovie(w http.ResponseWriter, r *http.Request) {
	s.deleteMirror(w, r, "movie", s.repo.Catalog.DeleteMovie)
}

func (s *Server) handleDeleteMirrorSeries(w http.ResponseWriter, r *http.Request) {
	s.deleteMirror(w, r, "series", s.repo.Catalog.DeleteSeries)
}

func (s *Server) handleDeleteMirrorActor(w http.ResponseWriter, r *http.Request) {
	s.deleteMirror(w, r, "actor", s.repo.Catalog.DeleteActor)
}

func (s *Server) deleteMirror(w http.ResponseWriter, r *http.Request, noun string, del func(context.Context, int64) error) {
	id, ok := s.mirrorID(w, r)
	if !ok {
		return
	}
	if err := del(r.Context(), id); err != nil {
		s.respondMirrorError(w, err, noun)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"message": noun + " removed"})
}

func (s *Server) respondMirrorError(w http.ResponseWriter, err error, noun string) {
	if errors.Is(err, repository.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", noun+" not found")
		return
	}
	s.logger.Printf("catalog mirror error: %v", err)
	s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "catalog mirror unavailable")
}

func toMovieMirrorResponse(movie domain.Movie) movieMirrorResponse {
	return movieMirrorResponse{
		UpstreamID:  movie.UpstreamID,
		Title:       movie.Title,
		Overview:    movie.Overview,
		ReleaseDate: movie.ReleaseDate,
		VoteAverage: movie.VoteAverage,
		PosterPath:  movie.PosterPath,
		GenreIDs:    movie.GenreIDs,
	}
}

func toSeriesMirrorResponse(series domain.Series) seriesMirrorResponse {
	return seriesMirrorResponse{
		UpstreamID:   series.UpstreamID,
		Name:         series.Name,
		Overview:     series.Overview,
		PremiereDate: series.PremiereDate,
		VoteAverage:  series.VoteAverage,
		ImagePath:    series.ImagePath,
		Genres:       series.Genres,
	}
}

func toActorMirrorResponse(actor domain.Actor) actorMirrorResponse {
	return actorMirrorResponse{
		UpstreamID:         actor.UpstreamID,
		Name:               actor.Name,
		ProfilePath:        actor.ProfilePath,
		KnownForDepartment: actor.KnownForDepartment,
		Popularity:         actor.Popularity,
	}
}
