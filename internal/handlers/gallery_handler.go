package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/unifiedcampus/admin-gateway/internal/upstream"
)

type GalleryHandler struct {
	upstream *upstream.Client
	logger   *zap.Logger
}

type galleryUpdateRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Category    string          `json:"category" binding:"required"`
	Tags        json.RawMessage `json:"tags"`
}

func NewGalleryHandler(upstreamClient *upstream.Client, logger *zap.Logger) *GalleryHandler {
	return &GalleryHandler{
		upstream: upstreamClient,
		logger:   logger,
	}
}

// List passes the category filter and search term through to the backend;
// both are server-side filters. "all" means no category filter at all.
func (h *GalleryHandler) List(c *gin.Context) {
	category := c.Query("category")
	if category == "all" {
		category = ""
	}

	items, err := h.upstream.ListGallery(c.Request.Context(), contextToken(c), category, c.Query("search"))
	if err != nil {
		respondUpstreamError(c, h.logger, err, "Failed to load gallery items")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

// Upload creates a gallery item from a multipart form. The image is
// required and rejected here, before any backend traffic.
func (h *GalleryHandler) Upload(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request too large or malformed"})
		return
	}

	form := upstream.GalleryForm{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.DefaultPostForm("category", "events"),
		Tags:        splitCSV(c.PostForm("tags")),
	}

	if form.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	if !validGalleryCategory(form.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err == nil {
		form.Image = &upstream.StagedFile{
			Filename: header.Filename,
			Reader:   file,
		}
	}

	if err := h.upstream.UploadGalleryItem(c.Request.Context(), contextToken(c), form); err != nil {
		if errors.Is(err, upstream.ErrImageRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please select an image"})
			return
		}
		respondUpstreamError(c, h.logger, err, "Failed to upload")
		return
	}

	h.logger.Info("Gallery item uploaded", zap.String("title", form.Title))
	c.JSON(http.StatusCreated, gin.H{"message": "Gallery item uploaded successfully"})
}

// Update patches metadata only. The stored image is immutable, so the
// update payload has nowhere to carry one.
func (h *GalleryHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req galleryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validGalleryCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}

	upd := upstream.GalleryUpdate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        parseTags(req.Tags),
	}

	if err := h.upstream.UpdateGalleryItem(c.Request.Context(), contextToken(c), id, upd); err != nil {
		respondUpstreamError(c, h.logger, err, "Failed to save gallery item")
		return
	}

	h.logger.Info("Gallery item updated", zap.String("item_id", id))
	c.JSON(http.StatusOK, gin.H{"message": "Gallery item updated successfully"})
}

func (h *GalleryHandler) Delete(c *gin.Context) {
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Deletion requires confirm=true"})
		return
	}

	id := c.Param("id")
	if err := h.upstream.DeleteGalleryItem(c.Request.Context(), contextToken(c), id); err != nil {
		respondUpstreamError(c, h.logger, err, "Failed to delete gallery item")
		return
	}

	h.logger.Info("Gallery item deleted", zap.String("item_id", id))
	c.JSON(http.StatusOK, gin.H{"message": "Gallery item deleted successfully"})
}

// parseTags accepts the two shapes the edit form produces: an array, or the
// comma-separated free text it shows the admin ("tech, innovation, 2024").
func parseTags(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return splitCSV(text)
	}
	return []string{}
}

func validGalleryCategory(category string) bool {
	for _, c := range upstream.GalleryCategories {
		if c == category {
			return true
		}
	}
	return false
}
