package validation

import (
	"strings"

	"github.com/cccenter/site-backend/internal/models"
)

// PostPayload is the raw admin post body. Tags may arrive as a JSON array or
// a comma-separated string.
type PostPayload struct {
	Title          string `json:"title"`
	Slug           string `json:"slug"`
	Type           string `json:"type"`
	Excerpt        string `json:"excerpt"`
	Content        string `json:"content"`
	FeaturedImage  string `json:"featuredImage"`
	VideoURL       string `json:"videoUrl"`
	Author         string `json:"author"`
	Tags           any    `json:"tags"`
	IsPublished    bool   `json:"isPublished"`
	IsFeatured     bool   `json:"isFeatured"`
	SEOTitle       string `json:"seoTitle"`
	SEODescription string `json:"seoDescription"`
}

type PostResult struct {
	OK    bool
	Error string
	Data  models.Post
}

// ValidatePostPayload checks and normalizes a post body. The returned Data
// carries no id or timestamps; the caller assigns those.
func ValidatePostPayload(p PostPayload) PostResult {
	invalid := PostResult{Error: "Invalid post payload."}

	title, err := cleanString(p.Title, 180)
	if err != nil {
		return invalid
	}
	if title == "" {
		return PostResult{Error: "Title is required."}
	}

	postType := p.Type
	if postType == "" {
		postType = "news"
	}
	postType, err = cleanString(postType, 20)
	if err != nil {
		return invalid
	}
	postType = strings.ToLower(postType)
	if !models.ValidPostType(postType) {
		return PostResult{Error: "Invalid post type."}
	}

	slugSource, err := cleanString(p.Slug, 180)
	if err != nil {
		return invalid
	}
	if slugSource == "" {
		slugSource = title
	}
	slug := Slugify(slugSource)
	if slug == "" {
		return PostResult{Error: "Unable to generate slug."}
	}

	excerpt, err := cleanString(p.Excerpt, 500)
	if err != nil {
		return invalid
	}
	content, err := SanitizeRichText(p.Content, 50000)
	if err != nil {
		return invalid
	}
	featuredImage, err := cleanString(p.FeaturedImage, 1000)
	if err != nil {
		return invalid
	}
	videoURL, err := cleanString(p.VideoURL, 1000)
	if err != nil {
		return invalid
	}
	author, err := cleanString(p.Author, 120)
	if err != nil {
		return invalid
	}
	seoTitle, err := cleanString(p.SEOTitle, 180)
	if err != nil {
		return invalid
	}
	seoDescription, err := cleanString(p.SEODescription, 300)
	if err != nil {
		return invalid
	}
	tags, err := NormalizeTags(p.Tags)
	if err != nil {
		return invalid
	}

	if excerpt == "" {
		plain := StripTags(content)
		if len([]rune(plain)) > 220 {
			plain = string([]rune(plain)[:220])
		}
		excerpt = plain
	}
	if seoTitle == "" {
		seoTitle = title
	}
	if seoDescription == "" {
		seoDescription = excerpt
	}

	return PostResult{
		OK: true,
		Data: models.Post{
			Title:          title,
			Slug:           slug,
			Type:           postType,
			Excerpt:        excerpt,
			Content:        content,
			FeaturedImage:  featuredImage,
			VideoURL:       videoURL,
			Author:         author,
			Tags:           tags,
			IsPublished:    p.IsPublished,
			IsFeatured:     p.IsFeatured,
			SEOTitle:       seoTitle,
			SEODescription: seoDescription,
		},
	}
}
