package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/unifiedcampus/admin-gateway/internal/upstream"
)

// maxUploadBytes bounds poster and gallery uploads, form overhead included.
const maxUploadBytes = 16 << 20

type EventHandler struct {
	upstream *upstream.Client
	logger   *zap.Logger
}

func NewEventHandler(upstreamClient *upstream.Client, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		upstream: upstreamClient,
		logger:   logger,
	}
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.upstream.ListEvents(c.Request.Context(), contextToken(c))
	if err != nil {
		respondUpstreamError(c, h.logger, err, "Failed to load events")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (h *EventHandler) Create(c *gin.Context) {
	form, err := h.parseEventForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.upstream.CreateEvent(c.Request.Context(), contextToken(c), *form); err != nil {
		respondUpstreamError(c, h.logger, err, "Failed to create event")
		return
	}

	h.logger.Info("Event created", zap.String("name", form.Name))
	c.JSON(http.StatusCreated, gin.H{"message": "Event created successfully"})
}

func (h *EventHandler) Update(c *gin.Context) {
	id := c.Param("id")

	form, err := h.parseEventForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.upstream.UpdateEvent(c.Request.Context(), contextToken(c), id, *form); err != nil {
		respondUpstreamError(c, h.logger, err, "Failed to update event")
		return
	}

	h.logger.Info("Event updated", zap.String("event_id", id))
	c.JSON(http.StatusOK, gin.H{"message": "Event updated successfully"})
}

// Delete forwards the deletion only when the client sent the explicit
// confirmation signal; without it nothing reaches the backend.
func (h *EventHandler) Delete(c *gin.Context) {
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Deletion requires confirm=true"})
		return
	}

	id := c.Param("id")
	if err := h.upstream.DeleteEvent(c.Request.Context(), contextToken(c), id); err != nil {
		respondUpstreamError(c, h.logger, err, "Failed to delete event")
		return
	}

	h.logger.Info("Event deleted", zap.String("event_id", id))
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// eventDraftRequest is the JSON shape of an event draft. Category and
// tags-style fields accept either a JSON array or a comma-separated
// string.
type eventDraftRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    json.RawMessage `json:"category"`
	Date        string          `json:"date"`
	StartTime   string          `json:"startTime"`
	EndTime     string          `json:"endTime"`
	Location    string          `json:"location"`
	MaxSeats    int             `json:"maxSeats"`
	Status      string          `json:"status"`
}

// parseEventForm validates the request into a typed form. Multipart
// carries an optional staged poster; a JSON body is a structured draft
// and can never attach a file.
func (h *EventHandler) parseEventForm(c *gin.Context) (*upstream.EventForm, error) {
	if c.ContentType() == "application/json" {
		return h.parseEventDraft(c)
	}

	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("request too large or malformed")
	}

	form := &upstream.EventForm{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Category:    parseStringList(c.PostForm("category")),
		Date:        c.PostForm("date"),
		StartTime:   c.PostForm("startTime"),
		EndTime:     c.PostForm("endTime"),
		Location:    c.PostForm("location"),
		Status:      c.DefaultPostForm("status", "upcoming"),
	}

	maxSeats, err := strconv.Atoi(c.PostForm("maxSeats"))
	if err != nil {
		return nil, fmt.Errorf("maxSeats must be a positive number")
	}
	form.MaxSeats = maxSeats

	if err := validateEventForm(form); err != nil {
		return nil, err
	}

	file, header, err := c.Request.FormFile("posterImage")
	if err == nil {
		// Streamed straight through; the handler never touches disk.
		form.Poster = &upstream.StagedFile{
			Filename: header.Filename,
			Reader:   file,
		}
	}

	return form, nil
}

func (h *EventHandler) parseEventDraft(c *gin.Context) (*upstream.EventForm, error) {
	var req eventDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, fmt.Errorf("invalid event draft")
	}

	form := &upstream.EventForm{
		Name:        req.Name,
		Description: req.Description,
		Category:    parseTags(req.Category),
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		MaxSeats:    req.MaxSeats,
		Status:      req.Status,
	}
	if form.Status == "" {
		form.Status = "upcoming"
	}

	if err := validateEventForm(form); err != nil {
		return nil, err
	}

	return form, nil
}

func validateEventForm(form *upstream.EventForm) error {
	if form.Name == "" {
		return fmt.Errorf("name is required")
	}
	if form.Date == "" {
		return fmt.Errorf("date is required")
	}

	switch form.Status {
	case "upcoming", "live", "expired":
	default:
		return fmt.Errorf("status must be upcoming, live or expired")
	}

	if form.MaxSeats < 1 {
		return fmt.Errorf("maxSeats must be a positive number")
	}

	return nil
}
