package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/unifiedcampus/admin-gateway/internal/session"
	"github.com/unifiedcampus/admin-gateway/internal/upstream"
)

type AuthHandler struct {
	upstream *upstream.Client
	sessions *session.Manager
	logger   *zap.Logger
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

func NewAuthHandler(upstreamClient *upstream.Client, sessions *session.Manager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		upstream: upstreamClient,
		sessions: sessions,
		logger:   logger,
	}
}

// Login authenticates against the backend and, only on success, opens a
// gateway session. A failed attempt stores nothing; the backend's message
// (e.g. "Invalid credentials") is returned for the form to display inline.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upstreamToken, err := h.upstream.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondUpstreamError(c, h.logger, err, "Failed to log in.")
		return
	}

	sessionToken, err := h.sessions.Create(c.Request.Context(), upstreamToken)
	if err != nil {
		h.logger.Error("Failed to create session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in."})
		return
	}

	h.logger.Info("Admin logged in", zap.String("email", req.Email))
	c.JSON(http.StatusOK, LoginResponse{AccessToken: sessionToken})
}

// Logout destroys the session. Every later call arrives without a
// resolvable session, so nothing is sent upstream with an Authorization
// header again.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No session token provided"})
		return
	}

	if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
		h.logger.Error("Failed to destroy session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
