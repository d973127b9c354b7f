package validation

import (
	"strconv"
	"strings"
)

// PostsQuery is the cleaned listing query.
type PostsQuery struct {
	Type   string
	Page   int
	Limit  int
	Search string
}

// ValidatePostsQuery clamps paging values and trims the free-text search:
// page >= 1 (default 1), limit in [1,24] (default 6), search capped at 80
// characters, type lowercased.
func ValidatePostsQuery(typeParam, pageParam, limitParam, searchParam string) PostsQuery {
	page := parseIntDefault(pageParam, 1)
	if page < 1 {
		page = 1
	}
	limit := parseIntDefault(limitParam, 6)
	if limit < 1 {
		limit = 1
	}
	if limit > 24 {
		limit = 24
	}
	search := strings.TrimSpace(searchParam)
	if len([]rune(search)) > 80 {
		search = string([]rune(search)[:80])
	}
	return PostsQuery{
		Type:   strings.ToLower(strings.TrimSpace(typeParam)),
		Page:   page,
		Limit:  limit,
		Search: search,
	}
}

func parseIntDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
