package models

// PostTypes is the closed set of post kinds; anything else coerces to "news".
var PostTypes = []string{"news", "update", "article"}

// Post is a blog-like entry. ID is assigned once at creation and never
// changes; the slug is unique within the live collection.
type Post struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Type          string   `json:"type"`
	Excerpt       string   `json:"excerpt"`
	Content       string   `json:"content"`
	FeaturedImage string   `json:"featuredImage"`
	VideoURL      string   `json:"videoUrl"`
	Author        string   `json:"author"`
	Tags          []string `json:"tags"`
	IsPublished   bool     `json:"isPublished"`
	IsFeatured    bool     `json:"isFeatured"`
	SEOTitle      string   `json:"seoTitle"`
	SEODescription string  `json:"seoDescription"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

// ValidPostType reports whether t is one of the known post types.
func ValidPostType(t string) bool {
	for _, pt := range PostTypes {
		if t == pt {
			return true
		}
	}
	return false
}
