package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// ErrImageRequired rejects a gallery create with no staged image before any
// request is issued.
var ErrImageRequired = errors.New("an image is required")

// GalleryForm is the draft for a new gallery item. The image is mandatory
// on create and immutable afterwards.
type GalleryForm struct {
	Title       string
	Description string
	Category    string
	Tags        []string
	Image       *StagedFile
}

// GalleryUpdate is the metadata-only patch for an existing item. It
// deliberately has no image field: the stored image cannot be replaced.
type GalleryUpdate struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// ListGallery filters server-side: category and search travel as query
// parameters and are omitted when empty. Callers pass "" (not "all") to
// list every category.
func (c *Client) ListGallery(ctx context.Context, token, category, search string) ([]GalleryItem, error) {
	query := url.Values{}
	if category != "" {
		query.Set("category", category)
	}
	if search != "" {
		query.Set("search", search)
	}

	endpoint := c.baseURL + "/api/gallery"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	rbody, err := c.doJSON(ctx, http.MethodGet, endpoint, token, nil, "Failed to load gallery items")
	if err != nil {
		return nil, err
	}
	return decodeList[GalleryItem](rbody)
}

func (c *Client) UploadGalleryItem(ctx context.Context, token string, form GalleryForm) error {
	if form.Image == nil {
		return ErrImageRequired
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("image", form.Image.Filename)
	if err != nil {
		return fmt.Errorf("UploadGalleryItem: CreateFormFile: %w", err)
	}
	if _, err := io.Copy(part, form.Image.Reader); err != nil {
		return fmt.Errorf("UploadGalleryItem: copy image: %w", err)
	}

	fields := map[string]string{
		"title":       form.Title,
		"description": form.Description,
		"category":    form.Category,
		"tags":        strings.Join(form.Tags, ", "),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("UploadGalleryItem: WriteField %s: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("UploadGalleryItem: multipart close: %w", err)
	}

	_, err = c.doMultipart(ctx, http.MethodPost, c.baseURL+"/api/gallery", token, w.FormDataContentType(), &buf, "Failed to upload")
	return err
}

func (c *Client) UpdateGalleryItem(ctx context.Context, token, id string, upd GalleryUpdate) error {
	body, err := json.Marshal(upd)
	if err != nil {
		return fmt.Errorf("UpdateGalleryItem: json.Marshal: %w", err)
	}

	_, err = c.doJSON(ctx, http.MethodPut, c.baseURL+"/api/gallery/"+id, token, body, "Failed to save gallery item")
	return err
}

func (c *Client) DeleteGalleryItem(ctx context.Context, token, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, c.baseURL+"/api/gallery/"+id, token, nil, "Failed to delete gallery item")
	return err
}
