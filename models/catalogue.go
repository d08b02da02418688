package models

import (
	"database/sql/driver"
	"errors"
	"strings"
)

// StringList is stored as a comma-separated TEXT column and rendered
// as a JSON array (genres, user scopes).
type StringList []string

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return errors.New("models: unsupported type for StringList")
	}

	if raw == "" {
		*l = StringList{}
		return nil
	}

	*l = StringList(strings.Split(raw, ","))
	return nil
}

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

// MediaIDs carries the external identifiers of a catalogue entity.
// Slug is the public-facing unique lookup key used in URLs.
type MediaIDs struct {
	Trakt int64  `json:"trakt" db:"trakt"`
	Slug  string `json:"slug" db:"slug"`
	IMDB  string `json:"imdb,omitempty" db:"imdb"`
	TMDB  int64  `json:"tmdb,omitempty" db:"tmdb"`
	TVDB  int64  `json:"tvdb,omitempty" db:"tvdb"`
}

// MediaImages holds the artwork URLs for a catalogue entity.
type MediaImages struct {
	Poster     string `json:"poster,omitempty" db:"poster"`
	Background string `json:"background,omitempty" db:"background"`
}

// Movie is a catalogue movie.
type Movie struct {
	ID            int64       `json:"-" db:"id"`
	Title         string      `json:"title" db:"title"`
	IDs           MediaIDs    `json:"ids" db:"ids"`
	Images        MediaImages `json:"images" db:"images"`
	Year          int         `json:"year" db:"year"`
	Overview      string      `json:"overview,omitempty" db:"overview"`
	Trailer       string      `json:"trailer,omitempty" db:"trailer"`
	Homepage      string      `json:"homepage,omitempty" db:"homepage"`
	Rating        float64     `json:"rating" db:"rating"`
	Votes         int         `json:"votes" db:"votes"`
	Runtime       int         `json:"runtime" db:"runtime"`
	Language      string      `json:"language,omitempty" db:"language"`
	Certification string      `json:"certification,omitempty" db:"certification"`
	Genres        StringList  `json:"genres" db:"genres"`
}

// ShowAirs describes when a show airs.
type ShowAirs struct {
	Day      string `json:"day,omitempty" db:"day"`
	Time     string `json:"time,omitempty" db:"time"`
	Timezone string `json:"timezone,omitempty" db:"timezone"`
}

// Show is a catalogue TV show. Seasons are only attached when the caller
// opted in via the extend directive; the relation is a back-reference on
// the season rows, never an embedded array in the show row.
type Show struct {
	ID            int64       `json:"-" db:"id"`
	Title         string      `json:"title" db:"title"`
	IDs           MediaIDs    `json:"ids" db:"ids"`
	Images        MediaImages `json:"images" db:"images"`
	Year          int         `json:"year" db:"year"`
	Overview      string      `json:"overview,omitempty" db:"overview"`
	FirstAired    string      `json:"first_aired,omitempty" db:"first_aired"`
	Airs          ShowAirs    `json:"airs" db:"airs"`
	Runtime       int         `json:"runtime" db:"runtime"`
	Certification string      `json:"certification,omitempty" db:"certification"`
	Network       string      `json:"network,omitempty" db:"network"`
	Country       string      `json:"country,omitempty" db:"country"`
	Trailer       string      `json:"trailer,omitempty" db:"trailer"`
	Homepage      string      `json:"homepage,omitempty" db:"homepage"`
	Status        string      `json:"status,omitempty" db:"status"`
	Rating        float64     `json:"rating" db:"rating"`
	Votes         int         `json:"votes" db:"votes"`
	Language      string      `json:"language,omitempty" db:"language"`
	Genres        StringList  `json:"genres" db:"genres"`
	AiredEpisodes int         `json:"aired_episodes" db:"aired_episodes"`
	Seasons       []Season    `json:"seasons,omitempty" db:"-"`
}

// Season belongs to a show via ShowID. Episodes are attached only for the
// seasons-and-episodes extension.
type Season struct {
	ID            int64     `json:"-" db:"id"`
	ShowID        int64     `json:"-" db:"show_id"`
	Number        int       `json:"number" db:"number"`
	Title         string    `json:"title" db:"title"`
	Overview      string    `json:"overview,omitempty" db:"overview"`
	FirstAired    string    `json:"first_aired,omitempty" db:"first_aired"`
	Rating        float64   `json:"rating" db:"rating"`
	Votes         int       `json:"votes" db:"votes"`
	EpisodeCount  int       `json:"episode_count" db:"episode_count"`
	AiredEpisodes int       `json:"aired_episodes" db:"aired_episodes"`
	Episodes      []Episode `json:"episodes,omitempty" db:"-"`
}

// Episode belongs to a season via SeasonID.
type Episode struct {
	ID         int64   `json:"-" db:"id"`
	SeasonID   int64   `json:"-" db:"season_id"`
	Season     int     `json:"season" db:"season"`
	Number     int     `json:"number" db:"number"`
	NumberAbs  int     `json:"number_abs,omitempty" db:"number_abs"`
	Title      string  `json:"title" db:"title"`
	Overview   string  `json:"overview,omitempty" db:"overview"`
	Rating     float64 `json:"rating" db:"rating"`
	Votes      int     `json:"votes" db:"votes"`
	FirstAired string  `json:"first_aired,omitempty" db:"first_aired"`
	Runtime    int     `json:"runtime" db:"runtime"`
}
