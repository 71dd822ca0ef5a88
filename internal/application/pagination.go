package application

import "strconv"

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

// ParsePage reads page and limit query values. Missing, unparsable or
// non-positive values fall back to the defaults. maxLimit caps the limit
// when positive.
func ParsePage(page, limit string, maxLimit int) Page {
	p := Page{Number: atoiOr(page, DefaultPage), Limit: atoiOr(limit, DefaultLimit)}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

func atoiOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Offset is the number of records skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// TotalPages is ceil(total / limit).
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
