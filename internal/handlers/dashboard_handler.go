package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/unifiedcampus/admin-gateway/internal/upstream"
)

type DashboardHandler struct {
	upstream *upstream.Client
	logger   *zap.Logger
}

type DashboardStats struct {
	TotalEvents       int `json:"totalEvents"`
	TotalGalleryItems int `json:"totalGalleryItems"`
}

func NewDashboardHandler(upstreamClient *upstream.Client, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		upstream: upstreamClient,
		logger:   logger,
	}
}

// Stats fetches the event and gallery lists in parallel. Each branch
// tolerates its own failure and degrades to an empty list, so one broken
// backend resource never blanks the whole dashboard.
func (h *DashboardHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	token := contextToken(c)

	var (
		wg      sync.WaitGroup
		events  []upstream.Event
		gallery []upstream.GalleryItem
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		list, err := h.upstream.ListEvents(ctx, token)
		if err != nil {
			h.logger.Warn("Dashboard: events fetch failed", zap.Error(err))
			return
		}
		events = list
	}()
	go func() {
		defer wg.Done()
		list, err := h.upstream.ListGallery(ctx, token, "", "")
		if err != nil {
			h.logger.Warn("Dashboard: gallery fetch failed", zap.Error(err))
			return
		}
		gallery = list
	}()
	wg.Wait()

	c.JSON(http.StatusOK, gin.H{
		"stats": DashboardStats{
			TotalEvents:       len(events),
			TotalGalleryItems: len(gallery),
		},
		// Placeholder content; not wired to live data.
		"recentActivity": []gin.H{
			{"label": "New event published", "when": "2 hours ago"},
			{"label": "Gallery updated", "when": "yesterday"},
			{"label": "Registrations exported", "when": "2 days ago"},
		},
		"quickActions": []gin.H{
			{"label": "Create Event", "href": "/events"},
			{"label": "Upload Image", "href": "/gallery"},
			{"label": "View Registrations", "href": "/registrations"},
		},
	})
}
