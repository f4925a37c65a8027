// Package preference implements the per-user favorite/review state engine:
// validation, the atomic toggle/upsert operations, and detail enrichment.
package preference

import (
	"context"
	"errors"
	"strings"

	"github.com/clemente-pps/flixfinder/internal/apperr"
	"github.com/clemente-pps/flixfinder/internal/domain"
	"github.com/clemente-pps/flixfinder/internal/repository"
)

// Service orchestrates the preference store and the detail enricher. It is
// the only component aware of both; the browse path never goes through here.
type Service struct {
	prefs    *repository.PreferencesRepository
	enricher *Enricher
}

// NewService wires the preference service.
func NewService(prefs *repository.PreferencesRepository, enricher *Enricher) *Service {
	return &Service{prefs: prefs, enricher: enricher}
}

// FavoriteInput identifies the item a favorite operation targets.
type FavoriteInput struct {
	ItemType   string
	ItemID     string
	UpstreamID *int64
}

// ReviewInput carries a rating/review merge. Nil fields are "leave as is",
// which is distinct from an explicit clear (not supported over the wire).
type ReviewInput struct {
	ItemType   string
	ItemID     string
	UpstreamID *int64
	Rating     *int16
	ReviewText *string
	IsFavorite *bool
}

// DeleteSelector picks a record by id or by item key.
type DeleteSelector struct {
	ID       string
	ItemType string
	ItemID   string
}

// AddFavorite marks an item as favorite, creating the preference record if
// needed. The bool reports whether a new record was created; re-adding an
// existing favorite is a no-op that returns the stored record.
func (s *Service) AddFavorite(ctx context.Context, userID string, input FavoriteInput) (domain.Preference, bool, error) {
	itemType, itemID, err := validateKey(input.ItemType, input.ItemID)
	if err != nil {
		return domain.Preference{}, false, err
	}

	pref, created, err := s.prefs.Upsert(ctx, repository.UpsertParams{
		UserID:     userID,
		ItemType:   itemType,
		ItemID:     itemID,
		UpstreamID: input.UpstreamID,
		IsFavorite: true,
	})
	if err != nil {
		return domain.Preference{}, false, apperr.Wrap(apperr.Persistence, err, "upsert favorite")
	}
	return pref, created, nil
}

// ToggleFavorite flips the favorite state for the key: present records are
// removed, absent ones created. Returns the resulting active state.
func (s *Service) ToggleFavorite(ctx context.Context, userID string, input FavoriteInput) (bool, error) {
	itemType, itemID, err := validateKey(input.ItemType, input.ItemID)
	if err != nil {
		return false, err
	}

	active, err := s.prefs.Toggle(ctx, userID, itemType, itemID, input.UpstreamID)
	if err != nil {
		return false, apperr.Wrap(apperr.Persistence, err, "toggle favorite")
	}
	return active, nil
}

// CheckFavorite reports the stored record for the key, or nil when absent.
func (s *Service) CheckFavorite(ctx context.Context, userID string, itemTypeRaw, itemID string) (*domain.Preference, error) {
	itemType, itemID, err := validateKey(itemTypeRaw, itemID)
	if err != nil {
		return nil, err
	}

	pref, err := s.prefs.GetByKey(ctx, userID, itemType, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.Persistence, err, "fetch preference")
	}
	return &pref, nil
}

// ListFavorites returns the user's favorites, optionally filtered by type.
func (s *Service) ListFavorites(ctx context.Context, userID, typeFilter string) ([]domain.Preference, error) {
	filter := repository.ListFilter{FavoritesOnly: true}
	if err := applyTypeFilter(&filter, typeFilter); err != nil {
		return nil, err
	}

	records, err := s.prefs.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "list favorites")
	}
	return records, nil
}

// ListFavoritesDetailed returns the user's favorites with catalog details
// attached. Items missing from the mirror carry nil details; the call itself
// only fails on a store error.
func (s *Service) ListFavoritesDetailed(ctx context.Context, userID string) ([]Detailed, error) {
	records, err := s.prefs.ListByUser(ctx, userID, repository.ListFilter{FavoritesOnly: true})
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "list favorites")
	}
	return s.enricher.Enrich(ctx, records), nil
}

// FavoriteStats counts the user's favorites per item type.
func (s *Service) FavoriteStats(ctx context.Context, userID string) (domain.FavoriteStats, error) {
	stats, err := s.prefs.StatsByUser(ctx, userID)
	if err != nil {
		return domain.FavoriteStats{}, apperr.Wrap(apperr.Persistence, err, "favorite stats")
	}
	return stats, nil
}

// SaveReview merges a rating/review onto the key's record, creating it if
// needed. Only movies and series accept reviews. The bool reports creation.
func (s *Service) SaveReview(ctx context.Context, userID string, input ReviewInput) (domain.Preference, bool, error) {
	itemType, itemID, err := validateKey(input.ItemType, input.ItemID)
	if err != nil {
		return domain.Preference{}, false, err
	}
	if !itemType.Reviewable() {
		return domain.Preference{}, false, apperr.New(apperr.InvalidItemType, "%s items cannot be reviewed", itemType)
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 10) {
		return domain.Preference{}, false, apperr.ValidationField("rating", "rating must be between 1 and 10")
	}

	pref, created, err := s.prefs.Merge(ctx, repository.MergeParams{
		UserID:     userID,
		ItemType:   itemType,
		ItemID:     itemID,
		UpstreamID: input.UpstreamID,
		Rating:     input.Rating,
		ReviewText: input.ReviewText,
		IsFavorite: input.IsFavorite,
	})
	if err != nil {
		return domain.Preference{}, false, apperr.Wrap(apperr.Persistence, err, "merge review")
	}
	return pref, created, nil
}

// ListReviews returns the user's records carrying a rating or review text.
func (s *Service) ListReviews(ctx context.Context, userID, typeFilter string) ([]domain.Preference, error) {
	filter := repository.ListFilter{ReviewsOnly: true}
	if err := applyTypeFilter(&filter, typeFilter); err != nil {
		return nil, err
	}

	records, err := s.prefs.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "list reviews")
	}
	return records, nil
}

// GetReview fetches the user's record for one item key.
func (s *Service) GetReview(ctx context.Context, userID string, itemTypeRaw, itemID string) (domain.Preference, error) {
	itemType, itemID, err := validateKey(itemTypeRaw, itemID)
	if err != nil {
		return domain.Preference{}, err
	}

	pref, err := s.prefs.GetByKey(ctx, userID, itemType, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Preference{}, apperr.New(apperr.NotFound, "review not found")
		}
		return domain.Preference{}, apperr.Wrap(apperr.Persistence, err, "fetch review")
	}
	return pref, nil
}

// Delete removes one record by id or by item key, always scoped to the
// calling user; a valid id owned by someone else is NotFound here.
func (s *Service) Delete(ctx context.Context, userID string, selector DeleteSelector) error {
	var err error
	switch {
	case selector.ID != "":
		err = s.prefs.DeleteByID(ctx, userID, selector.ID)
	case selector.ItemType != "" || selector.ItemID != "":
		var itemType domain.ItemType
		var itemID string
		itemType, itemID, err = validateKey(selector.ItemType, selector.ItemID)
		if err != nil {
			return err
		}
		err = s.prefs.DeleteByKey(ctx, userID, itemType, itemID)
	default:
		return apperr.New(apperr.Validation, "provide id or item_type and item_id")
	}

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.NotFound, "preference not found")
		}
		return apperr.Wrap(apperr.Persistence, err, "delete preference")
	}
	return nil
}

// ItemReviews lists every user's review of one item, for the public listing.
func (s *Service) ItemReviews(ctx context.Context, itemTypeRaw, itemID string) ([]domain.ItemReview, error) {
	itemType, itemID, err := validateKey(itemTypeRaw, itemID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.prefs.ListByItem(ctx, itemType, itemID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, err, "list item reviews")
	}
	return reviews, nil
}

func validateKey(itemTypeRaw, itemID string) (domain.ItemType, string, error) {
	itemTypeRaw = strings.TrimSpace(itemTypeRaw)
	itemID = strings.TrimSpace(itemID)
	if itemTypeRaw == "" {
		return "", "", apperr.ValidationField("item_type", "item_type is required")
	}
	if itemID == "" {
		return "", "", apperr.ValidationField("item_id", "item_id is required")
	}
	itemType, err := domain.ParseItemType(itemTypeRaw)
	if err != nil {
		return "", "", apperr.New(apperr.InvalidItemType, "item_type must be one of movie, series, actor")
	}
	return itemType, itemID, nil
}

func applyTypeFilter(filter *repository.ListFilter, typeFilter string) error {
	typeFilter = strings.TrimSpace(typeFilter)
	if typeFilter == "" {
		return nil
	}
	itemType, err := domain.ParseItemType(typeFilter)
	if err != nil {
		return apperr.New(apperr.InvalidItemType, "type must be one of movie, series, actor")
	}
	filter.ItemType = &itemType
	return nil
}
