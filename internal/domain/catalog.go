package domain

import "time"

// Movie is the locally mirrored projection of an upstream movie record.
// The mirror is written only by explicit catalog imports and read by the
// enrichment path; upstream_id is the key in both directions.
type Movie struct {
	UpstreamID  int64
	Title       string
	Overview    *string
	ReleaseDate *string
	VoteAverage *float64
	PosterPath  *string
	GenreIDs    []int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Series mirrors an upstream TV series. The upstream calls its artwork field
// an image and its start date a premiere date; both are kept verbatim here and
// remapped only at the detail-projection boundary.
type Series struct {
	UpstreamID   int64
	Name         string
	Overview     *string
	PremiereDate *string
	VoteAverage  *float64
	ImagePath    *string
	Genres       []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor mirrors an upstream person record.
type Actor struct {
	UpstreamID         int64
	Name               string
	ProfilePath        *string
	KnownForDepartment *string
	Popularity         *float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// MovieDetails is the enrichment projection for movie preferences.
type MovieDetails struct {
	Title       string   `json:"title"`
	PosterPath  *string  `json:"posterPath"`
	ReleaseDate *string  `json:"releaseDate"`
	VoteAverage *float64 `json:"voteAverage"`
}

// SeriesDetails is the enrichment projection for series preferences.
// PosterPath and FirstAirDate are renamed views of the mirror's image/premiere
// fields so all detail shapes read the same way to API clients.
type SeriesDetails struct {
	Name         string   `json:"name"`
	PosterPath   *string  `json:"posterPath"`
	FirstAirDate *string  `json:"firstAirDate"`
	VoteAverage  *float64 `json:"voteAverage"`
}

// ActorDetails is the enrichment projection for actor preferences.
type ActorDetails struct {
	Name               string  `json:"name"`
	ProfilePath        *string `json:"profilePath"`
	KnownForDepartment *string `json:"knownForDepartment"`
}
