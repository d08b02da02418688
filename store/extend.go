package store

import "strings"

const (
	tokenSeasons  = "seasons"
	tokenEpisodes = "episodes"
)

// Extend selects which related entities get joined onto a show query.
// Joins are strictly opt-in: no read joins seasons or episodes by default.
type Extend int

const (
	// ExtendNone fetches shows only.
	ExtendNone Extend = iota
	// ExtendSeasons joins each show's seasons.
	ExtendSeasons
	// ExtendSeasonsEpisodes joins seasons and, for each, their episodes.
	ExtendSeasonsEpisodes
)

// ExtendError is the client error for an unusable extend directive.
type ExtendError struct {
	message string
}

func (e *ExtendError) Error() string {
	return e.message
}

// ParseExtend maps the client-supplied extend directive to an Extend
// value. Parsing is presence-based on the "seasons" and "episodes"
// tokens, not strict equality: any string containing both triggers the
// full join regardless of order or separators. Requesting episodes
// without seasons is a meaningless relational join and fails.
func ParseExtend(directive string) (Extend, error) {
	if directive == "" {
		return ExtendNone, nil
	}

	hasSeasons := strings.Contains(directive, tokenSeasons)
	hasEpisodes := strings.Contains(directive, tokenEpisodes)

	switch {
	case hasSeasons && hasEpisodes:
		return ExtendSeasonsEpisodes, nil
	case hasSeasons:
		return ExtendSeasons, nil
	case hasEpisodes:
		return ExtendNone, &ExtendError{message: "episodes cannot be requested without seasons"}
	default:
		return ExtendNone, &ExtendError{message: "extend must be one of: seasons, seasons,episodes"}
	}
}
