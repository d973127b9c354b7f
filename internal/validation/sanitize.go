package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var errTooLong = errors.New("value too long")

// cleanString trims and enforces a rune-count cap. Length violations return
// errTooLong so callers can collapse them into a generic message instead of
// leaking which field tripped the limit.
func cleanString(value string, max int) (string, error) {
	v := strings.TrimSpace(value)
	if utf8.RuneCountInString(v) > max {
		return "", errTooLong
	}
	return v, nil
}

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// SanitizeCredentialText strips control characters, trims, and caps length.
func SanitizeCredentialText(value string, max int) (string, error) {
	v := strings.TrimSpace(controlChars.ReplaceAllString(value, ""))
	if utf8.RuneCountInString(v) > max {
		return "", errTooLong
	}
	return v, nil
}

var (
	scriptBlocks   = regexp.MustCompile(`(?is)<script.*?>.*?</script>`)
	onAttrsDouble  = regexp.MustCompile(`(?is)\son\w+\s*=\s*"[^"]*"`)
	onAttrsSingle  = regexp.MustCompile(`(?is)\son\w+\s*=\s*'[^']*'`)
	jsURIDouble    = regexp.MustCompile(`(?i)\s(href|src)\s*=\s*"\s*javascript:[^"]*"`)
	jsURISingle    = regexp.MustCompile(`(?i)\s(href|src)\s*=\s*'\s*javascript:[^']*'`)
	tagStripper    = regexp.MustCompile(`<[^>]*>`)
)

// SanitizeRichText is a defense-in-depth scrub of admin-authored HTML, not a
// full sanitizer: it removes <script> blocks, inline on*= event handlers, and
// javascript: URIs in href/src (replaced with "#").
func SanitizeRichText(value string, max int) (string, error) {
	if utf8.RuneCountInString(value) > max {
		return "", errTooLong
	}
	html := scriptBlocks.ReplaceAllString(value, "")
	html = onAttrsDouble.ReplaceAllString(html, "")
	html = onAttrsSingle.ReplaceAllString(html, "")
	html = jsURIDouble.ReplaceAllString(html, ` ${1}="#"`)
	html = jsURISingle.ReplaceAllString(html, ` ${1}="#"`)
	return strings.TrimSpace(html), nil
}

// StripTags removes markup; used to derive plaintext excerpts.
func StripTags(html string) string {
	return tagStripper.ReplaceAllString(html, "")
}

var (
	slugQuotes   = regexp.MustCompile(`['"]`)
	slugNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	slugEdges    = regexp.MustCompile(`^-+|-+$`)
)

// Slugify lowercases, drops quotes, collapses runs of non-alphanumerics to
// single hyphens, trims edge hyphens, and caps at 120 characters.
func Slugify(input string) string {
	s := strings.ToLower(input)
	s = slugQuotes.ReplaceAllString(s, "")
	s = slugNonAlnum.ReplaceAllString(s, "-")
	s = slugEdges.ReplaceAllString(s, "")
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}

// NormalizeTags accepts either a JSON array or a comma-separated string and
// returns a lowercased list with empties dropped, capped at 20 entries. A tag
// longer than 40 runes fails the whole list with errTooLong.
func NormalizeTags(raw any) ([]string, error) {
	var items []string
	switch v := raw.(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
	case []string:
		items = v
	case string:
		items = strings.Split(v, ",")
	default:
		return []string{}, nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		tag, err := cleanString(item, 40)
		if err != nil {
			return nil, err
		}
		if tag == "" {
			continue
		}
		out = append(out, strings.ToLower(tag))
		if len(out) == 20 {
			break
		}
	}
	return out, nil
}
