package handlers

import (
	"context"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cccenter/site-backend/internal/audit"
	"github.com/cccenter/site-backend/internal/config"
	"github.com/cccenter/site-backend/internal/content"
	"github.com/cccenter/site-backend/internal/models"
	"github.com/cccenter/site-backend/internal/posts"
	"github.com/cccenter/site-backend/internal/routing"
	"github.com/cccenter/site-backend/internal/validation"
	"github.com/cccenter/site-backend/pkg/logger"
	"github.com/cccenter/site-backend/pkg/metrics"
	"github.com/cccenter/site-backend/pkg/middleware"
)

// PublicHandler serves the visitor-facing pages and APIs.
type PublicHandler struct {
	cfg        *config.Config
	contentSt  *content.Store
	postsSt    *posts.Store
	dispatcher *routing.Dispatcher
	audit      *audit.Logger
}

func NewPublicHandler(cfg *config.Config, cs *content.Store, ps *posts.Store, d *routing.Dispatcher, a *audit.Logger) *PublicHandler {
	return &PublicHandler{cfg: cfg, contentSt: cs, postsSt: ps, dispatcher: d, audit: a}
}

func (h *PublicHandler) Register(r *gin.Engine) {
	r.GET("/", h.Index)
	r.GET("/posts", func(c *gin.Context) { c.Redirect(http.StatusFound, "/#news") })
	r.GET("/posts/:slug", h.PostPage)
	r.GET("/robots.txt", h.Robots)
	r.GET("/sitemap.xml", h.Sitemap)
	r.GET("/api/public/content", h.PublishedContent)
	r.GET("/api/posts", h.ListPosts)
	r.GET("/api/posts/:slug", h.PostBySlug)
	// 10 submissions per 15 minutes
	r.POST("/api/contacts", middleware.RateLimitMiddleware("contact", 0.0111, 10), h.SubmitContact)
}

func (h *PublicHandler) Index(c *gin.Context) {
	c.File(filepath.Join(h.cfg.Paths.WebsiteDir, "index.html"))
}

func (h *PublicHandler) PostPage(c *gin.Context) {
	c.File(filepath.Join(h.cfg.Paths.WebsiteDir, "post.html"))
}

func (h *PublicHandler) Robots(c *gin.Context) {
	base := strings.TrimRight(h.cfg.SiteURL, "/")
	c.String(http.StatusOK,
		"User-agent: *\nAllow: /\nDisallow: /admin/\nDisallow: /login.html\nDisallow: /dashboard.html\nDisallow: /referral.html\nDisallow: /api/\n\nSitemap: "+base+"/sitemap.xml\n")
}

func (h *PublicHandler) Sitemap(c *gin.Context) {
	base := strings.TrimRight(h.cfg.SiteURL, "/")
	var sb strings.Builder
	sb.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	sb.WriteString("<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\">\n")
	sb.WriteString("  <url><loc>" + base + "/</loc><changefreq>weekly</changefreq><priority>1.0</priority></url>\n")
	if list, err := h.postsSt.ReadPublished(); err == nil {
		for _, p := range list {
			sb.WriteString("  <url><loc>" + base + "/posts/" + url.PathEscape(p.Slug) + "</loc><changefreq>weekly</changefreq><priority>0.8</priority></url>\n")
		}
	}
	sb.WriteString("</urlset>\n")
	c.Data(http.StatusOK, "application/xml", []byte(sb.String()))
}

func (h *PublicHandler) PublishedContent(c *gin.Context) {
	doc, err := h.contentSt.ReadPublished()
	if err != nil {
		logger.Errorw("Error reading content", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read content"})
		return
	}
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.JSON(http.StatusOK, doc)
}

// matchesQuery reports whether the post passes the type and search filters.
func matchesQuery(p models.Post, q validation.PostsQuery) bool {
	if q.Type != "" && p.Type != q.Type {
		return false
	}
	if q.Search != "" {
		haystack := strings.ToLower(strings.Join([]string{p.Title, p.Excerpt, p.Author, strings.Join(p.Tags, " ")}, " "))
		if !strings.Contains(haystack, strings.ToLower(q.Search)) {
			return false
		}
	}
	return true
}

// paginate slices the filtered list and builds the pagination envelope. The
// requested page is clamped to the last real page so a stale pager never
// yields an empty response.
func paginate(list []models.Post, page, limit int) ([]models.Post, gin.H) {
	total := len(list)
	pages := (total + limit - 1) / limit
	if pages < 1 {
		pages = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	items := list[start:end]
	if items == nil {
		items = []models.Post{}
	}
	return items, gin.H{
		"page":    page,
		"limit":   limit,
		"total":   total,
		"pages":   pages,
		"hasNext": page < pages,
	}
}

func (h *PublicHandler) ListPosts(c *gin.Context) {
	q := validation.ValidatePostsQuery(c.Query("type"), c.Query("page"), c.Query("limit"), c.Query("search"))
	list, err := h.postsSt.ReadPublished()
	if err != nil {
		logger.Errorw("Error reading posts", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	filtered := make([]models.Post, 0, len(list))
	for _, p := range list {
		if matchesQuery(p, q) {
			filtered = append(filtered, p)
		}
	}
	items, pagination := paginate(filtered, q.Page, q.Limit)
	c.JSON(http.StatusOK, gin.H{"items": items, "pagination": pagination})
}

func (h *PublicHandler) PostBySlug(c *gin.Context) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slug is required"})
		return
	}
	list, err := h.postsSt.ReadPublished()
	if err != nil {
		logger.Errorw("Error reading post by slug", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	for _, p := range list {
		if p.Slug == slug {
			c.JSON(http.StatusOK, p)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
}

// SubmitContact is the one write endpoint anonymous visitors reach. The
// ordering is deliberate: validate, persist, audit, then best-effort
// notification and routing. Routing failures shape the response metadata but
// never fail a submission that already landed on disk.
func (h *PublicHandler) SubmitContact(c *gin.Context) {
	var payload validation.ContactPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please review the form fields and try again."})
		return
	}
	res := validation.ValidateContact(payload)
	if !res.OK {
		c.JSON(http.StatusBadRequest, gin.H{"error": res.Error})
		return
	}

	record := res.Data
	record.ID = "c-" + uuid.NewString()
	record.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := h.contentSt.AppendContact(record); err != nil {
		logger.Errorw("Contact submission error", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to submit. Please try again or call us."})
		return
	}
	metrics.ContactSubmissions.Inc()
	h.audit.Record("contact_submission", map[string]any{"contactId": record.ID})
	go routing.SendContactEmails(record)

	route := routing.Route{Type: "none"}
	if doc, err := h.contentSt.ReadPublished(); err == nil {
		if section, ok := doc["contactSection"].(map[string]any); ok {
			route = routing.NormalizeRoute(section["formRoute"])
		}
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()
	outcome := h.dispatcher.Dispatch(ctx, record, route)
	result := "ok"
	if outcome.OK != nil && !*outcome.OK {
		result = outcome.Reason
		if result == "" {
			result = "failed"
		}
	}
	metrics.RouteOutcomes.WithLabelValues(outcome.Type, result).Inc()

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Thank you. We will contact you within 24 hours.",
		"route":   outcome,
	})
}
