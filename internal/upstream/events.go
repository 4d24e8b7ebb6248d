package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
)

// StagedFile is an image selected by the admin but not yet uploaded. It is
// streamed through to the backend without being written to disk.
type StagedFile struct {
	Filename string
	Reader   io.Reader
}

// EventForm is the validated draft for an event create or update. Poster is
// nil when no new image was staged; the backend then keeps the existing
// one.
type EventForm struct {
	Name        string
	Description string
	Category    []string
	Date        string
	StartTime   string
	EndTime     string
	Location    string
	MaxSeats    int
	Status      string
	Poster      *StagedFile
}

func (c *Client) ListEvents(ctx context.Context, token string) ([]Event, error) {
	rbody, err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/api/events", token, nil, "Failed to load events")
	if err != nil {
		return nil, err
	}
	return decodeList[Event](rbody)
}

func (c *Client) CreateEvent(ctx context.Context, token string, form EventForm) error {
	return c.sendEvent(ctx, http.MethodPost, c.baseURL+"/api/events", token, form, "Failed to create event")
}

func (c *Client) UpdateEvent(ctx context.Context, token, id string, form EventForm) error {
	return c.sendEvent(ctx, http.MethodPut, c.baseURL+"/api/events/"+id, token, form, "Failed to update event")
}

func (c *Client) DeleteEvent(ctx context.Context, token, id string) error {
	_, err := c.doJSON(ctx, http.MethodDelete, c.baseURL+"/api/events/"+id, token, nil, "Failed to delete event")
	return err
}

// sendEvent serializes the form the way the backend expects: always
// multipart, category JSON-encoded, posterImage present only when a new
// file was staged.
func (c *Client) sendEvent(ctx context.Context, method, url, token string, form EventForm, fallback string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	category, err := json.Marshal(form.Category)
	if err != nil {
		return fmt.Errorf("sendEvent: json.Marshal category: %w", err)
	}

	fields := map[string]string{
		"name":        form.Name,
		"description": form.Description,
		"category":    string(category),
		"date":        normalizeDate(form.Date),
		"startTime":   form.StartTime,
		"endTime":     form.EndTime,
		"location":    form.Location,
		"maxSeats":    strconv.Itoa(form.MaxSeats),
		"status":      form.Status,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("sendEvent: WriteField %s: %w", name, err)
		}
	}

	if form.Poster != nil {
		part, err := w.CreateFormFile("posterImage", form.Poster.Filename)
		if err != nil {
			return fmt.Errorf("sendEvent: CreateFormFile: %w", err)
		}
		if _, err := io.Copy(part, form.Poster.Reader); err != nil {
			return fmt.Errorf("sendEvent: copy poster: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("sendEvent: multipart close: %w", err)
	}

	_, err = c.doMultipart(ctx, method, url, token, w.FormDataContentType(), &buf, fallback)
	return err
}

// normalizeDate truncates an ISO datetime to its date part; the edit form
// works with plain dates while the backend stores full timestamps.
func normalizeDate(date string) string {
	if i := strings.Index(date, "T"); i >= 0 {
		return date[:i]
	}
	return date
}
