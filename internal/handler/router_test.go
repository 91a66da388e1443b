package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arturffsantos/gympoint/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := service.NewAuthService(nil, nil, zap.NewNop(), service.AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
	})

	r := gin.New()
	RegisterRoutes(r, Handlers{
		Auth:          NewAuthHandler(nil),
		Users:         NewUserHandler(nil),
		Students:      NewStudentHandler(nil),
		Plans:         NewPlanHandler(nil),
		Registrations: NewRegistrationHandler(nil),
		Checkins:      NewCheckinHandler(nil),
		HelpOrders:    NewHelpOrderHandler(nil),
	}, auth, nil)
	return r
}

func TestRouterHealthIsOpen(t *testing.T) {
	router := newTestRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, resp.Code)
}

func TestRouterCheckinsRequireToken(t *testing.T) {
	router := newTestRouter(t)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(method, "/students/stu-1/checkins", nil))

		require.Equal(t, http.StatusUnauthorized, resp.Code, method)
		require.Contains(t, resp.Body.String(), "Token not provided")
	}
}

func TestRouterProtectedResourcesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/plans", "/students", "/registrations", "/answers"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))

		require.Equal(t, http.StatusUnauthorized, resp.Code, path)
	}
}
