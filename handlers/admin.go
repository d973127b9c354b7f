package handlers

import (
	"fmt"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cccenter/site-backend/internal/archive"
	"github.com/cccenter/site-backend/internal/audit"
	"github.com/cccenter/site-backend/internal/config"
	"github.com/cccenter/site-backend/internal/content"
	"github.com/cccenter/site-backend/internal/models"
	"github.com/cccenter/site-backend/internal/posts"
	"github.com/cccenter/site-backend/internal/sessions"
	"github.com/cccenter/site-backend/internal/storage"
	"github.com/cccenter/site-backend/internal/tokens"
	"github.com/cccenter/site-backend/internal/validation"
	"github.com/cccenter/site-backend/pkg/logger"
	"github.com/cccenter/site-backend/pkg/metrics"
	"github.com/cccenter/site-backend/pkg/middleware"
)

const (
	maxImageSize   = 5 * 1024 * 1024
	maxVideoSize   = 50 * 1024 * 1024
	maxArchiveSize = 250 * 1024 * 1024
)

// AdminHandler serves the authenticated management API.
type AdminHandler struct {
	cfg         *config.Config
	contentSt   *content.Store
	postsSt     *posts.Store
	sessionsSvc *sessions.Service
	audit       *audit.Logger
	mirror      *storage.ArchiveMirror
}

func NewAdminHandler(cfg *config.Config, cs *content.Store, ps *posts.Store, svc *sessions.Service, a *audit.Logger, mirror *storage.ArchiveMirror) *AdminHandler {
	return &AdminHandler{cfg: cfg, contentSt: cs, postsSt: ps, sessionsSvc: svc, audit: a, mirror: mirror}
}

func (h *AdminHandler) Register(r *gin.Engine) {
	auth := middleware.RequireAuth(h.sessionsSvc, h.cfg.Session.Secret)
	csrf := middleware.RequireCSRF(h.cfg.Session.Secret)

	for _, page := range []string{"dashboard.html", "referral.html", "content.html"} {
		page := page
		r.GET("/"+page, auth, func(c *gin.Context) {
			c.File(filepath.Join(h.cfg.Paths.AdminDir, page))
		})
	}
	r.GET("/login.html", func(c *gin.Context) {
		c.File(filepath.Join(h.cfg.Paths.AdminDir, "login.html"))
	})

	api := r.Group("/api/admin", auth)
	api.GET("/csrf-token", h.CSRFToken)
	api.GET("/content", h.GetContent)
	api.POST("/content", csrf, h.SaveContent)
	api.POST("/publish", csrf, h.Publish)
	api.GET("/contacts", h.ListContacts)

	api.GET("/posts", h.ListPosts)
	api.GET("/posts/id/:id", h.PostByID)
	api.GET("/posts/:slug", h.PostBySlug)
	api.POST("/posts", csrf, h.CreatePost)
	api.PUT("/posts/:id", csrf, h.UpdatePost)
	api.DELETE("/posts/:id", csrf, h.DeletePost)
	api.PATCH("/posts/:id/publish", csrf, h.TogglePublish)
	api.PATCH("/posts/:id/feature", csrf, h.ToggleFeature)

	api.POST("/upload", csrf, h.UploadImage)
	api.POST("/upload-video", csrf, h.UploadVideo)
	api.POST("/backup", csrf, h.Backup)
	// 3 restores per 15 minutes
	api.POST("/restore", middleware.RateLimitMiddleware("restore", 0.0033, 3), csrf, h.Restore)
}

func (h *AdminHandler) currentUser(c *gin.Context) string {
	if u := c.GetString(middleware.ContextUsernameKey); u != "" {
		return u
	}
	return "unknown"
}

func (h *AdminHandler) CSRFToken(c *gin.Context) {
	raw, err := c.Cookie(middleware.SessionCookieName)
	if err != nil || raw == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to generate CSRF token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"csrfToken": tokens.CSRFToken(h.cfg.Session.Secret, raw)})
}

func (h *AdminHandler) GetContent(c *gin.Context) {
	doc, err := h.contentSt.ReadDraft()
	if err != nil {
		logger.Errorw("Error reading content (admin)", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read content"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *AdminHandler) SaveContent(c *gin.Context) {
	var doc map[string]any
	if err := c.ShouldBindJSON(&doc); err != nil || doc == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content format"})
		return
	}
	if err := h.contentSt.WriteDraft(doc); err != nil {
		logger.Errorw("Error updating content", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update content"})
		return
	}
	logger.Infof("Draft content updated")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Content updated successfully"})
}

func (h *AdminHandler) Publish(c *gin.Context) {
	if err := h.contentSt.Publish(); err != nil {
		logger.Errorw("Error publishing content", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish content"})
		return
	}
	metrics.ContentPublishes.Inc()
	h.audit.Record("publish_content", map[string]any{"user": h.currentUser(c)})
	logger.Infof("Content published to live")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Content published to live site."})
}

func (h *AdminHandler) ListContacts(c *gin.Context) {
	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), 25)
	if limit < 5 {
		limit = 5
	}
	if limit > 100 {
		limit = 100
	}
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))
	if len([]rune(search)) > 120 {
		search = string([]rune(search)[:120])
	}

	list, err := h.contentSt.ReadContacts()
	if err != nil {
		logger.Errorw("Error reading contacts (admin)", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read contacts"})
		return
	}
	sorted := make([]models.ContactSubmission, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt > sorted[j].CreatedAt
	})

	filtered := sorted
	if search != "" {
		filtered = make([]models.ContactSubmission, 0, len(sorted))
		for _, s := range sorted {
			hay := strings.ToLower(strings.Join([]string{s.FirstName, s.LastName, s.Email, s.Phone, s.Concern, s.Message}, " "))
			if strings.Contains(hay, search) {
				filtered = append(filtered, s)
			}
		}
	}

	total := len(filtered)
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
	items := filtered[start:end]
	if items == nil {
		items = []models.ContactSubmission{}
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"pagination": gin.H{
			"page":    page,
			"limit":   limit,
			"total":   total,
			"pages":   pages,
			"hasNext": page < pages,
		},
	})
}

func (h *AdminHandler) ListPosts(c *gin.Context) {
	q := validation.ValidatePostsQuery(c.Query("type"), c.Query("page"), c.Query("limit"), c.Query("search"))
	list, err := h.postsSt.ReadAll()
	if err != nil {
		logger.Errorw("Error reading admin posts", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read posts"})
		return
	}
	list = posts.SortByDate(list)
	filtered := make([]models.Post, 0, len(list))
	for _, p := range list {
		if matchesQuery(p, q) {
			filtered = append(filtered, p)
		}
	}
	items, pagination := paginate(filtered, q.Page, q.Limit)
	c.JSON(http.StatusOK, gin.H{"items": items, "pagination": pagination})
}

func (h *AdminHandler) PostBySlug(c *gin.Context) {
	slug := validation.Slugify(c.Param("slug"))
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slug is required"})
		return
	}
	list, err := h.postsSt.ReadAll()
	if err != nil {
		logger.Errorw("Error reading admin post by slug", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read post"})
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

func (h *AdminHandler) PostByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}
	list, err := h.postsSt.ReadAll()
	if err != nil {
		logger.Errorw("Error reading admin post by id", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read post"})
		return
	}
	for _, p := range list {
		if p.ID == id {
			c.JSON(http.StatusOK, p)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
}

// persistPosts writes the draft list and recomputes the published view.
func (h *AdminHandler) persistPosts(list []models.Post) error {
	sorted := posts.SortByDate(list)
	if err := h.postsSt.WriteAll(sorted); err != nil {
		return err
	}
	return h.postsSt.SyncPublished(sorted)
}

func (h *AdminHandler) CreatePost(c *gin.Context) {
	var payload validation.PostPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post payload."})
		return
	}
	res := validation.ValidatePostPayload(payload)
	if !res.OK {
		c.JSON(http.StatusBadRequest, gin.H{"error": res.Error})
		return
	}
	list, err := h.postsSt.ReadAll()
	if err != nil {
		logger.Errorw("Error creating post", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	post := res.Data
	post.ID = "p-" + uuid.NewString()
	post.Slug = posts.EnsureUniqueSlug(list, post.Slug, post.ID)
	post.CreatedAt = now
	post.UpdatedAt = now

	if err := h.persistPosts(append(list, post)); err != nil {
		logger.Errorw("Error creating post", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}
	h.audit.Record("post_create", map[string]any{"postId": post.ID, "user": h.currentUser(c)})
	c.JSON(http.StatusCreated, post)
}

func (h *AdminHandler) UpdatePost(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}
	var payload validation.PostPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post payload."})
		return
	}
	list, err := h.postsSt.ReadAll()
	if err != nil {
		logger.Errorw("Error updating post", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}
	index := -1
	for i := range list {
		if list[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	res := validation.ValidatePostPayload(payload)
	if !res.OK {
		c.JSON(http.StatusBadRequest, gin.H{"error": res.Error})
		return
	}

	existing := list[index]
	post := res.Data
	post.ID = existing.ID
	post.CreatedAt = existing.CreatedAt
	post.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	post.Slug = posts.EnsureUniqueSlug(list, post.Slug, post.ID)
	list[index] = post

	if err := h.persistPosts(list); err != nil {
		logger.Errorw("Error updating post", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}
	h.audit.Record("post_update", map[string]any{"postId": post.ID, "user": h.currentUser(c)})
	c.JSON(http.StatusOK, post)
}

func (h *AdminHandler) DeletePost(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}
	list, err := h.postsSt.ReadAll()
	if err != nil {
		logger.Errorw("Error deleting post", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	next := make([]models.Post, 0, len(list))
	for _, p := range list {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if len(next) == len(list) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	if err := h.persistPosts(next); err != nil {
		logger.Errorw("Error deleting post", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	h.audit.Record("post_delete", map[string]any{"postId": id, "user": h.currentUser(c)})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// togglePost flips one boolean flag on the identified post.
func (h *AdminHandler) togglePost(c *gin.Context, event string, flip func(*models.Post)) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}
	list, err := h.postsSt.ReadAll()
	if err != nil {
		logger.Errorw("Error toggling post flag", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}
	index := -1
	for i := range list {
		if list[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	flip(&list[index])
	list[index].UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	updated := list[index]

	if err := h.persistPosts(list); err != nil {
		logger.Errorw("Error toggling post flag", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}
	h.audit.Record(event, map[string]any{"postId": id, "user": h.currentUser(c)})
	c.JSON(http.StatusOK, updated)
}

func (h *AdminHandler) TogglePublish(c *gin.Context) {
	h.togglePost(c, "post_toggle_publish", func(p *models.Post) { p.IsPublished = !p.IsPublished })
}

func (h *AdminHandler) ToggleFeature(c *gin.Context) {
	h.togglePost(c, "post_toggle_feature", func(p *models.Post) { p.IsFeatured = !p.IsFeatured })
}

var imageExts = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var videoExts = map[string]string{
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/ogg":       ".ogv",
	"video/quicktime": ".mov",
	"video/x-m4v":     ".m4v",
}

func uploadName(prefix, ext string) string {
	return fmt.Sprintf("%s-%d-%06x%s", prefix, time.Now().UnixMilli(), rand.Intn(1<<24), ext)
}

func (h *AdminHandler) saveUpload(c *gin.Context, prefix string, maxSize int64, exts map[string]string) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if file.Size > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}
	ext, ok := exts[strings.ToLower(uploadMime(file))]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}
	if err := storage.EnsureDir(h.cfg.Paths.UploadsDir); err != nil {
		logger.Errorw("Upload failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}
	name := uploadName(prefix, ext)
	if err := c.SaveUploadedFile(file, filepath.Join(h.cfg.Paths.UploadsDir, name)); err != nil {
		logger.Errorw("Upload failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "url": "/uploads/" + name})
}

func uploadMime(file *multipart.FileHeader) string {
	return strings.TrimSpace(strings.Split(file.Header.Get("Content-Type"), ";")[0])
}

func (h *AdminHandler) UploadImage(c *gin.Context) {
	h.saveUpload(c, "img", maxImageSize, imageExts)
}

func (h *AdminHandler) UploadVideo(c *gin.Context) {
	h.saveUpload(c, "vid", maxVideoSize, videoExts)
}

func (h *AdminHandler) Backup(c *gin.Context) {
	path, err := archive.Create(h.cfg.Paths.DataDir, h.cfg.Paths.UploadsDir, h.cfg.Paths.BackupsDir)
	if err != nil {
		logger.Errorw("Backup failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Backup failed"})
		return
	}
	metrics.BackupsCreated.Inc()

	mirrored := false
	if h.mirror != nil {
		if err := h.mirror.UploadArchive(c.Request.Context(), path); err != nil {
			logger.Errorw("Backup mirror upload failed", map[string]any{"error": err.Error()})
		} else {
			mirrored = true
		}
	}

	h.audit.Record("backup_created", map[string]any{
		"user":     h.currentUser(c),
		"archive":  filepath.Base(path),
		"mirrored": mirrored,
	})
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Backup created",
		"archive":  filepath.Base(path),
		"mirrored": mirrored,
	})
}

func (h *AdminHandler) Restore(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No backup file uploaded"})
		return
	}
	name := strings.ToLower(file.Filename)
	mime := strings.ToLower(file.Header.Get("Content-Type"))
	if !strings.HasSuffix(name, ".zip") && !strings.Contains(mime, "zip") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No backup file uploaded"})
		return
	}
	if file.Size > maxArchiveSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	tmpPath := filepath.Join(os.TempDir(), uploadName("restore", ".zip"))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		logger.Errorw("Restore failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Restore failed"})
		return
	}
	defer os.Remove(tmpPath)

	counts, err := archive.RestoreGuarded(tmpPath, h.cfg.Paths.DataDir, h.cfg.Paths.UploadsDir)
	if err != nil {
		logger.Errorw("Restore failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Restore failed"})
		return
	}

	h.audit.Record("restore_backup", map[string]any{
		"user":            h.currentUser(c),
		"restoredData":    counts.DataFiles,
		"restoredUploads": counts.UploadFiles,
	})
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Restore completed",
		"restored": gin.H{"dataFiles": counts.DataFiles, "uploadFiles": counts.UploadFiles},
	})
}

func parsePositiveInt(s string, def int) int {
	n := 0
	for _, r := range strings.TrimSpace(s) {
		if r < '0' || r > '9' {
			return def
		}
		n = n*10 + int(r-'0')
		if n > 1_000_000 {
			return def
		}
	}
	if s == "" || n < 1 {
		return def
	}
	return n
}
