package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unifiedcampus/admin-gateway/internal/session"
	"github.com/unifiedcampus/admin-gateway/internal/upstream"
)

const (
	testSecret    = "test-secret"
	testSessionID = "sess-1"
	backendToken  = "backend-token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router   *gin.Engine
	backend  *httptest.Server
	mock     redismock.ClientMock
	sessions *session.Manager
}

// newTestEnv wires the router exactly as main does, against a fake backend
// and a mocked redis.
func newTestEnv(t *testing.T, backendHandler http.HandlerFunc) *testEnv {
	t.Helper()

	backend := httptest.NewServer(backendHandler)
	t.Cleanup(backend.Close)

	logger := zap.NewNop()
	db, mock := redismock.NewClientMock()
	sessions := session.NewManager(db, testSecret, time.Hour, logger)

	upstreamClient := upstream.NewClient(backend.URL, 5*time.Second, logger)
	registrationsClient := upstream.NewRegistrationsClient(backend.URL+"/api/admin/registrations", false, 5*time.Second, logger)

	authHandler := NewAuthHandler(upstreamClient, sessions, logger)
	eventHandler := NewEventHandler(upstreamClient, logger)
	galleryHandler := NewGalleryHandler(upstreamClient, logger)
	registrationHandler := NewRegistrationHandler(registrationsClient, logger)
	dashboardHandler := NewDashboardHandler(upstreamClient, logger)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/users/login", authHandler.Login)
	api.POST("/users/logout", RequireSession(sessions, logger), authHandler.Logout)

	protected := api.Group("", RequireSession(sessions, logger))
	protected.GET("/events", eventHandler.List)
	protected.POST("/events", eventHandler.Create)
	protected.PUT("/events/:id", eventHandler.Update)
	protected.DELETE("/events/:id", eventHandler.Delete)
	protected.GET("/gallery", galleryHandler.List)
	protected.POST("/gallery", galleryHandler.Upload)
	protected.PUT("/gallery/:id", galleryHandler.Update)
	protected.DELETE("/gallery/:id", galleryHandler.Delete)
	protected.GET("/admin/registrations", registrationHandler.List)
	protected.GET("/admin/registrations/download", registrationHandler.Export)
	protected.GET("/dashboard", dashboardHandler.Stats)

	return &testEnv{
		router:   r,
		backend:  backend,
		mock:     mock,
		sessions: sessions,
	}
}

// sessionToken returns a valid session JWT for testSessionID.
func sessionToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sid": testSessionID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

// expectSession arms the redis mock for one authenticated request.
func (env *testEnv) expectSession() {
	env.mock.ExpectGet("session:" + testSessionID).SetVal(backendToken)
}

func (env *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func newAuthedRequest(t *testing.T, method, target string, body io.Reader) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t))
	return req
}
