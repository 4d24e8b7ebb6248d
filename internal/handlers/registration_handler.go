package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/unifiedcampus/admin-gateway/internal/upstream"
)

type RegistrationHandler struct {
	registrations *upstream.RegistrationsClient
	logger        *zap.Logger
}

func NewRegistrationHandler(registrations *upstream.RegistrationsClient, logger *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		registrations: registrations,
		logger:        logger,
	}
}

// List serves the read-only registration snapshot. The optional search term
// narrows it by case-insensitive substring match on event name; that is the
// only filtering done on our side, everything else is the snapshot as
// fetched.
func (h *RegistrationHandler) List(c *gin.Context) {
	events, err := h.registrations.Fetch(c.Request.Context(), contextToken(c))
	if err != nil {
		respondUpstreamError(c, h.logger, err, "Failed to fetch registration data.")
		return
	}

	events = upstream.FilterByName(events, c.Query("search"))
	c.JSON(http.StatusOK, gin.H{"data": events})
}

// Export streams the backend-generated spreadsheet straight through; the
// gateway never parses the file.
func (h *RegistrationHandler) Export(c *gin.Context) {
	body, contentType, disposition, err := h.registrations.Export(c.Request.Context(), contextToken(c))
	if err != nil {
		respondUpstreamError(c, h.logger, err, "Failed to export registrations")
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	if disposition != "" {
		c.Header("Content-Disposition", disposition)
	}

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		h.logger.Error("Failed to stream export", zap.Error(err))
	}
}
