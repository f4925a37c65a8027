package domain

import (
	"fmt"
	"time"
)

// ItemType identifies which kind of catalog item a preference points at.
// The set is closed; anything else is rejected before touching the store.
type ItemType string

const (
	ItemTypeMovie  ItemType = "movie"
	ItemTypeSeries ItemType = "series"
	ItemTypeActor  ItemType = "actor"
)

// ParseItemType validates a raw item type value.
func ParseItemType(raw string) (ItemType, error) {
	switch ItemType(raw) {
	case ItemTypeMovie, ItemTypeSeries, ItemTypeActor:
		return ItemType(raw), nil
	}
	return "", fmt.Errorf("unknown item type %q", raw)
}

// Reviewable reports whether ratings/reviews may be attached to this type.
// Actors can be favorited but not reviewed.
func (t ItemType) Reviewable() bool {
	return t == ItemTypeMovie || t == ItemTypeSeries
}

// Preference is a single user's favorite/review attachment to one catalog item.
// At most one row exists per (UserID, ItemType, ItemID).
type Preference struct {
	ID         string
	UserID     string
	ItemType   ItemType
	ItemID     string
	UpstreamID *int64
	Rating     *int16
	ReviewText *string
	IsFavorite bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FavoriteStats counts a user's favorites per item type.
type FavoriteStats struct {
	Total  int64
	Movies int64
	Series int64
	Actors int64
}

// ItemReview is a review of one item together with its author's display name,
// as shown on the public per-item listing.
type ItemReview struct {
	ID         string
	ItemType   ItemType
	ItemID     string
	Rating     *int16
	ReviewText *string
	IsFavorite bool
	FirstName  string
	LastName   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
