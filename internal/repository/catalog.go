package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clemente-pps/flixfinder/internal/domain"
)

// CatalogRepository owns the local mirror of the upstream catalog. Imports
// upsert by upstream_id; the enrichment path only reads.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

const movieColumns = `
    upstream_id,
    title,
    overview,
    release_date,
    vote_average,
    poster_path,
    genre_ids,
    created_at,
    updated_at
`

const seriesColumns = `
    upstream_id,
    name,
    overview,
    premiere_date,
    vote_average,
    image_path,
    genres,
    created_at,
    updated_at
`

const actorColumns = `
    upstream_id,
    name,
    profile_path,
    known_for_department,
    popularity,
    created_at,
    updated_at
`

// UpsertMovie imports or refreshes one mirrored movie. Nil optional fields
// keep whatever a previous import stored.
func (r *CatalogRepository) UpsertMovie(ctx context.Context, movie domain.Movie) (domain.Movie, error) {
	genreJSON, err := json.Marshal(movie.GenreIDs)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("marshal genre ids: %w", err)
	}
	if movie.GenreIDs == nil {
		genreJSON = []byte("[]")
	}

	query := fmt.Sprintf(`
        INSERT INTO movies (upstream_id, title, overview, release_date, vote_average, poster_path, genre_ids)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (upstream_id)
        DO UPDATE SET
            title = EXCLUDED.title,
            overview = COALESCE(EXCLUDED.overview, movies.overview),
            release_date = COALESCE(EXCLUDED.release_date, movies.release_date),
            vote_average = COALESCE(EXCLUDED.vote_average, movies.vote_average),
            poster_path = COALESCE(EXCLUDED.poster_path, movies.poster_path),
            genre_ids = EXCLUDED.genre_ids,
            updated_at = now()
        RETURNING %s
    `, movieColumns)

	row := r.pool.QueryRow(ctx, query, movie.UpstreamID, movie.Title, movie.Overview,
		movie.ReleaseDate, movie.VoteAverage, movie.PosterPath, genreJSON)
	return scanMirrorMovie(row)
}

// GetMovie fetches a mirrored movie by upstream id.
func (r *CatalogRepository) GetMovie(ctx context.Context, upstreamID int64) (domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE upstream_id = $1`, movieColumns)
	movie, err := scanMirrorMovie(r.pool.QueryRow(ctx, query, upstreamID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

// UpsertSeries imports or refreshes one mirrored series.
func (r *CatalogRepository) UpsertSeries(ctx context.Context, series domain.Series) (domain.Series, error) {
	genreJSON, err := json.Marshal(series.Genres)
	if err != nil {
		return domain.Series{}, fmt.Errorf("marshal genres: %w", err)
	}
	if series.Genres == nil {
		genreJSON = []byte("[]")
	}

	query := fmt.Sprintf(`
        INSERT INTO series (upstream_id, name, overview, premiere_date, vote_average, image_path, genres)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (upstream_id)
        DO UPDATE SET
            name = EXCLUDED.name,
            overview = COALESCE(EXCLUDED.overview, series.overview),
            premiere_date = COALESCE(EXCLUDED.premiere_date, series.premiere_date),
            vote_average = COALESCE(EXCLUDED.vote_average, series.vote_average),
            image_path = COALESCE(EXCLUDED.image_path, series.image_path),
            genres = EXCLUDED.genres,
            updated_at = now()
        RETURNING %s
    `, seriesColumns)

	row := r.pool.QueryRow(ctx, query, series.UpstreamID, series.Name, series.Overview,
		series.PremiereDate, series.VoteAverage, series.ImagePath, genreJSON)
	return scanMirrorSeries(row)
}

// GetSeries fetches a mirrored series by upstream id.
func (r *CatalogRepository) GetSeries(ctx context.Context, upstreamID int64) (domain.Series, error) {
	query := fmt.Sprintf(`SELECT %s FROM series WHERE upstream_id = $1`, seriesColumns)
	series, err := scanMirrorSeries(r.pool.QueryRow(ctx, query, upstreamID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Series{}, ErrNotFound
		}
		return domain.Series{}, err
	}
	return series, nil
}

// UpsertActor imports or refreshes one mirrored actor.
func (r *CatalogRepository) UpsertActor(ctx context.Context, actor domain.Actor) (domain.Actor, error) {
	query := fmt.Sprintf(`
        INSERT INTO actors (upstream_id, name, profile_path, known_for_department, popularity)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (upstream_id)
        DO UPDATE SET
            name = EXCLUDED.name,
            profile_path = COALESCE(EXCLUDED.profile_path, actors.profile_path),
            known_for_department = COALESCE(EXCLUDED.known_for_department, actors.known_for_department),
            popularity = COALESCE(EXCLUDED.popularity, actors.popularity),
            updated_at = now()
        RETURNING %s
    `, actorColumns)

	row := r.pool.QueryRow(ctx, query, actor.UpstreamID, actor.Name, actor.ProfilePath,
		actor.KnownForDepartment, actor.Popularity)
	return scanMirrorActor(row)
}

// GetActor fetches a mirrored actor by upstream id.
func (r *CatalogRepository) GetActor(ctx context.Context, upstreamID int64) (domain.Actor, error) {
	query := fmt.Sprintf(`SELECT %s FROM actors WHERE upstream_id = $1`, actorColumns)
	actor, err := scanMirrorActor(r.pool.QueryRow(ctx, query, upstreamID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Actor{}, ErrNotFound
		}
		return domain.Actor{}, err
	}
	return actor, nil
}

// DeleteMovie removes a mirrored movie by upstream id.
func (r *CatalogRepository) DeleteMovie(ctx context.Context, upstreamID int64) error {
	return r.deleteMirror(ctx, "movies", upstreamID)
}

// DeleteSeries removes a mirrored series by upstream id.
func (r *CatalogRepository) DeleteSeries(ctx context.Context, upstreamID int64) error {
	return r.deleteMirror(ctx, "series", upstreamID)
}

// DeleteActor removes a mirrored actor by upstream id.
func (r *CatalogRepository) DeleteActor(ctx context.Context, upstreamID int64) error {
	return r.deleteMirror(ctx, "actors", upstreamID)
}

func (r *CatalogRepository) deleteMirror(ctx context.Context, table string, upstreamID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE upstream_id = $1 RETURNING upstream_id`, table)
	var deletedID int64
	if err := r.pool.QueryRow(ctx, query, upstreamID).Scan(&deletedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func scanMirrorMovie(row pgx.Row) (domain.Movie, error) {
	var movie domain.Movie
	var genreJSON []byte
	err := row.Scan(
		&movie.UpstreamID,
		&movie.Title,
		&movie.Overview,
		&movie.ReleaseDate,
		&movie.VoteAverage,
		&movie.PosterPath,
		&genreJSON,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	if len(genreJSON) > 0 {
		if err := json.Unmarshal(genreJSON, &movie.GenreIDs); err != nil {
			return domain.Movie{}, fmt.Errorf("unmarshal genre ids: %w", err)
		}
	}
	return movie, nil
}

func scanMirrorSeries(row pgx.Row) (domain.Series, error) {
	var series domain.Series
	var genreJSON []byte
	err := row.Scan(
		&series.UpstreamID,
		&series.Name,
		&series.Overview,
		&series.PremiereDate,
		&series.VoteAverage,
		&series.ImagePath,
		&genreJSON,
		&series.CreatedAt,
		&series.UpdatedAt,
	)
	if err != nil {
		return domain.Series{}, err
	}
	if len(genreJSON) > 0 {
		if err := json.Unmarshal(genreJSON, &series.Genres); err != nil {
			return domain.Series{}, fmt.Errorf("unmarshal genres: %w", err)
		}
	}
	return series, nil
}

func scanMirrorActor(row pgx.Row) (domain.Actor, error) {
	var actor domain.Actor
	err := row.Scan(
		&actor.UpstreamID,
		&actor.Name,
		&actor.ProfilePath,
		&actor.KnownForDepartment,
		&actor.Popularity,
		&actor.CreatedAt,
		&actor.UpdatedAt,
	)
	if err != nil {
		return domain.Actor{}, err
	}
	return actor, nil
}
