package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestControllerFromRoute(t *testing.T) {
	tests := []struct {
		route    string
		expected string
	}{
		{"/api/v1/sales/:id/approve", "sales"},
		{"/api/v1/reports/bpo", "reports"},
		{"/api/v2/commissions/statement", "commissions"},
		{"/health", "health"},
		{"/api/v1/:id", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			assert.Equal(t, tt.expected, controllerFromRoute(tt.route))
		})
	}
}

func TestIsVersionSegment(t *testing.T) {
	assert.True(t, isVersionSegment("v1"))
	assert.True(t, isVersionSegment("V12"))
	assert.False(t, isVersionSegment("v"))
	assert.False(t, isVersionSegment("vx"))
	assert.False(t, isVersionSegment("sales"))
}

func TestProfiling_AddsLabels(t *testing.T) {
	router := gin.New()
	router.Use(Profiling(DefaultProfilingConfig()))

	var route, controller string
	var probeLabelled bool
	router.GET("/api/v1/reports/bpo", func(c *gin.Context) {
		route, _ = pprof.Label(c.Request.Context(), "route")
		controller, _ = pprof.Label(c.Request.Context(), "controller")
		c.Status(http.StatusOK)
	})
	router.GET("/health", func(c *gin.Context) {
		_, probeLabelled = pprof.Label(c.Request.Context(), "route")
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/reports/bpo", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "/api/v1/reports/bpo", route)
	assert.Equal(t, "reports", controller)
	assert.False(t, probeLabelled)
}

func TestProfiling_Disabled(t *testing.T) {
	router := gin.New()
	router.Use(Profiling(ProfilingConfig{Enabled: false}))

	var labelled bool
	router.GET("/api/v1/sales/pending", func(c *gin.Context) {
		_, labelled = pprof.Label(c.Request.Context(), "route")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sales/pending", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, labelled)
}
