// Package pagination turns a requested page and a total count into an
// offset/limit window plus an IETF Link header for list responses.
package pagination

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultPerPage is the fixed page size for catalogue lists.
const DefaultPerPage = 10

// ErrInvalidPage signals a page parameter that is present but not a
// positive integer. This is a validation failure, never silently coerced.
var ErrInvalidPage = errors.New("page must be a positive integer")

// ParsePage returns the requested page number. An absent or empty value
// defaults to page 1; anything else must parse to an integer >= 1.
func ParsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}

	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, ErrInvalidPage
	}

	return page, nil
}

// Paginator is the derived page window for a list request. It performs no
// storage access; callers feed it the total count and use Offset/Limit to
// shape their query.
type Paginator struct {
	CurrentPage int
	PerPage     int
	TotalCount  int
	LastPage    int
	Offset      int
	Limit       int

	baseURL string
}

// New computes the window for the given page. page and perPage must be
// >= 1 (validated by ParsePage for request input); totalCount >= 0.
func New(page, perPage, totalCount int, baseURL string) *Paginator {
	lastPage := (totalCount + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	return &Paginator{
		CurrentPage: page,
		PerPage:     perPage,
		TotalCount:  totalCount,
		LastPage:    lastPage,
		Offset:      (page - 1) * perPage,
		Limit:       perPage,
		baseURL:     baseURL,
	}
}

// OutOfRange reports whether the requested page lies beyond the last
// page. An empty result set never counts as out of range: page 1 of zero
// items is a valid, empty page. Callers treat true as a not-found
// condition, not a systemic fault.
func (p *Paginator) OutOfRange() bool {
	return p.TotalCount > 0 && p.CurrentPage > p.LastPage
}

// Link renders the Link response header value with next, prev, first and
// last relations. Relations that don't apply at the boundaries are
// omitted: no prev on page 1, no next on the last page.
func (p *Paginator) Link() string {
	var relations []string

	if p.CurrentPage < p.LastPage {
		relations = append(relations, p.relation(p.CurrentPage+1, "next"))
	}
	if p.CurrentPage > 1 {
		relations = append(relations, p.relation(p.CurrentPage-1, "prev"))
	}

	relations = append(relations, p.relation(1, "first"), p.relation(p.LastPage, "last"))

	return strings.Join(relations, ", ")
}

func (p *Paginator) relation(page int, rel string) string {
	return fmt.Sprintf("<%s?page=%d>; rel=\"%s\"", p.baseURL, page, rel)
}
