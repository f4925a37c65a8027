package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clemente-pps/flixfinder/internal/domain"
)

// PreferencesRepository persists favorite/review records. Every mutating query
// is a single atomic statement guarded by the (user_id, item_type, item_id)
// uniqueness constraint; there is no separate existence pre-check anywhere.
type PreferencesRepository struct {
	pool *pgxpool.Pool
}

const preferenceColumns = `
    id,
    user_id,
    item_type,
    item_id,
    upstream_id,
    rating,
    review_text,
    is_favorite,
    created_at,
    updated_at
`

// UpsertParams bundles the fields for a favorite upsert.
type UpsertParams struct {
	UserID     string
	ItemType   domain.ItemType
	ItemID     string
	UpstreamID *int64
	IsFavorite bool
}

// MergeParams bundles the fields for a rating/review merge. Nil fields leave
// the stored value unchanged.
type MergeParams struct {
	UserID     string
	ItemType   domain.ItemType
	ItemID     string
	UpstreamID *int64
	Rating     *int16
	ReviewText *string
	IsFavorite *bool
}

// ListFilter narrows ListByUser results.
type ListFilter struct {
	ItemType      *domain.ItemType
	FavoritesOnly bool
	ReviewsOnly   bool
}

// Upsert inserts a preference record or, when the key already exists, returns
// the stored record with the favorite flag promoted (never demoted). The
// second return value reports whether a new row was created; a concurrent
// loser observes the winner's values instead of a duplicate-key fault.
func (r *PreferencesRepository) Upsert(ctx context.Context, params UpsertParams) (domain.Preference, bool, error) {
	query := fmt.Sprintf(`
        INSERT INTO preferences (user_id, item_type, item_id, upstream_id, is_favorite)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (user_id, item_type, item_id)
        DO UPDATE SET is_favorite = preferences.is_favorite OR EXCLUDED.is_favorite
        RETURNING %s, (xmax = 0) AS inserted
    `, preferenceColumns)

	row := r.pool.QueryRow(ctx, query, params.UserID, params.ItemType, params.ItemID, params.UpstreamID, params.IsFavorite)
	return scanPreferenceInserted(row)
}

// Toggle removes the record for the key when present, otherwise creates a
// minimal favorite record. Returns the resulting active state. Both branches
// are single statements; a concurrent duplicate insert degrades to "active".
func (r *PreferencesRepository) Toggle(ctx context.Context, userID string, itemType domain.ItemType, itemID string, upstreamID *int64) (bool, error) {
	const deleteQuery = `
        DELETE FROM preferences
        WHERE user_id = $1 AND item_type = $2 AND item_id = $3
        RETURNING id
    `
	var deletedID string
	err := r.pool.QueryRow(ctx, deleteQuery, userID, itemType, itemID).Scan(&deletedID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("toggle delete: %w", err)
	}

	const insertQuery = `
        INSERT INTO preferences (user_id, item_type, item_id, upstream_id, is_favorite)
        VALUES ($1,$2,$3,$4,TRUE)
        ON CONFLICT (user_id, item_type, item_id) DO NOTHING
    `
	if _, err := r.pool.Exec(ctx, insertQuery, userID, itemType, itemID, upstreamID); err != nil {
		return false, fmt.Errorf("toggle insert: %w", err)
	}
	return true, nil
}

// Merge upserts a record, applying only the non-nil fields on conflict.
func (r *PreferencesRepository) Merge(ctx context.Context, params MergeParams) (domain.Preference, bool, error) {
	query := fmt.Sprintf(`
        INSERT INTO preferences (user_id, item_type, item_id, upstream_id, rating, review_text, is_favorite)
        VALUES ($1,$2,$3,$4,$5,$6,COALESCE($7, FALSE))
        ON CONFLICT (user_id, item_type, item_id)
        DO UPDATE SET
            upstream_id = COALESCE(EXCLUDED.upstream_id, preferences.upstream_id),
            rating = COALESCE(EXCLUDED.rating, preferences.rating),
            review_text = COALESCE(EXCLUDED.review_text, preferences.review_text),
            is_favorite = COALESCE($7, preferences.is_favorite),
            updated_at = now()
        RETURNING %s, (xmax = 0) AS inserted
    `, preferenceColumns)

	row := r.pool.QueryRow(ctx, query,
		params.UserID, params.ItemType, params.ItemID, params.UpstreamID,
		params.Rating, params.ReviewText, params.IsFavorite)
	return scanPreferenceInserted(row)
}

// ListByUser returns a user's preference records, newest first.
func (r *PreferencesRepository) ListByUser(ctx context.Context, userID string, filter ListFilter) ([]domain.Preference, error) {
	where := []string{"user_id = $1"}
	args := []interface{}{userID}

	if filter.ItemType != nil {
		args = append(args, *filter.ItemType)
		where = append(where, fmt.Sprintf("item_type = $%d", len(args)))
	}
	if filter.FavoritesOnly {
		where = append(where, "is_favorite")
	}
	if filter.ReviewsOnly {
		where = append(where, "(rating IS NOT NULL OR review_text IS NOT NULL)")
	}

	query := fmt.Sprintf(`SELECT %s FROM preferences WHERE %s ORDER BY updated_at DESC, id DESC`,
		preferenceColumns, strings.Join(where, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.Preference, 0)
	for rows.Next() {
		pref, err := scanPreference(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, pref)
	}
	return records, rows.Err()
}

// GetByKey fetches exactly one record for the user's (item_type, item_id) key.
func (r *PreferencesRepository) GetByKey(ctx context.Context, userID string, itemType domain.ItemType, itemID string) (domain.Preference, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM preferences
        WHERE user_id = $1 AND item_type = $2 AND item_id = $3
    `, preferenceColumns)

	pref, err := scanPreference(r.pool.QueryRow(ctx, query, userID, itemType, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Preference{}, ErrNotFound
		}
		return domain.Preference{}, err
	}
	return pref, nil
}

// DeleteByID removes one record by id, scoped to the owning user so a valid
// id belonging to another user still yields ErrNotFound.
func (r *PreferencesRepository) DeleteByID(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM preferences WHERE id = $1 AND user_id = $2 RETURNING id`
	var deleted string
	if err := r.pool.QueryRow(ctx, query, id, userID).Scan(&deleted); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// DeleteByKey removes the record for the user's (item_type, item_id) key.
func (r *PreferencesRepository) DeleteByKey(ctx context.Context, userID string, itemType domain.ItemType, itemID string) error {
	const query = `
        DELETE FROM preferences
        WHERE user_id = $1 AND item_type = $2 AND item_id = $3
        RETURNING id
    `
	var deleted string
	if err := r.pool.QueryRow(ctx, query, userID, itemType, itemID).Scan(&deleted); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// StatsByUser counts the user's favorites per item type.
func (r *PreferencesRepository) StatsByUser(ctx context.Context, userID string) (domain.FavoriteStats, error) {
	const query = `
        SELECT item_type, COUNT(*)::int8
        FROM preferences
        WHERE user_id = $1 AND is_favorite
        GROUP BY item_type
    `
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return domain.FavoriteStats{}, err
	}
	defer rows.Close()

	var stats domain.FavoriteStats
	for rows.Next() {
		var itemType domain.ItemType
		var count int64
		if err := rows.Scan(&itemType, &count); err != nil {
			return domain.FavoriteStats{}, err
		}
		stats.Total += count
		switch itemType {
		case domain.ItemTypeMovie:
			stats.Movies = count
		case domain.ItemTypeSeries:
			stats.Series = count
		case domain.ItemTypeActor:
			stats.Actors = count
		}
	}
	return stats, rows.Err()
}

// ListByItem returns every user's review of one item with reviewer names,
// newest first.
func (r *PreferencesRepository) ListByItem(ctx context.Context, itemType domain.ItemType, itemID string) ([]domain.ItemReview, error) {
	const query = `
        SELECT p.id, p.item_type, p.item_id, p.rating, p.review_text, p.is_favorite,
               u.first_name, u.last_name, p.created_at, p.updated_at
        FROM preferences p
        JOIN users u ON u.id = p.user_id
        WHERE p.item_type = $1 AND p.item_id = $2
          AND (p.rating IS NOT NULL OR p.review_text IS NOT NULL)
        ORDER BY p.created_at DESC
    `
	rows, err := r.pool.Query(ctx, query, itemType, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]domain.ItemReview, 0)
	for rows.Next() {
		var rev domain.ItemReview
		if err := rows.Scan(&rev.ID, &rev.ItemType, &rev.ItemID, &rev.Rating, &rev.ReviewText,
			&rev.IsFavorite, &rev.FirstName, &rev.LastName, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

func scanPreference(row pgx.Row) (domain.Preference, error) {
	var pref domain.Preference
	err := row.Scan(
		&pref.ID,
		&pref.UserID,
		&pref.ItemType,
		&pref.ItemID,
		&pref.UpstreamID,
		&pref.Rating,
		&pref.ReviewText,
		&pref.IsFavorite,
		&pref.CreatedAt,
		&pref.UpdatedAt,
	)
	if err != nil {
		return domain.Preference{}, err
	}
	return pref, nil
}

func scanPreferenceInserted(row pgx.Row) (domain.Preference, bool, error) {
	var pref domain.Preference
	var inserted bool
	err := row.Scan(
		&pref.ID,
		&pref.UserID,
		&pref.ItemType,
		&pref.ItemID,
		&pref.UpstreamID,
		&pref.Rating,
		&pref.ReviewText,
		&pref.IsFavorite,
		&pref.CreatedAt,
		&pref.UpdatedAt,
		&inserted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Preference{}, false, ErrNotFound
		}
		return domain.Preference{}, false, err
	}
	return pref, inserted, nil
}
