package router

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/salesops/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group)
	r.Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/test/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("sales", "/sales")
		assert.Equal(t, "sales", g.Name())
		assert.Equal(t, "/sales", g.Prefix())
	})

	t.Run("registers each method", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		NewDomainGroup("test", "/test").
			GET("/items", ok).
			POST("/items", ok).
			PUT("/items/:id", ok).
			RegisterRoutes(engine.Group("/api/v1"))

		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/api/v1/test/items"},
			{http.MethodPost, "/api/v1/test/items"},
			{http.MethodPut, "/api/v1/test/items/42"},
		} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusOK, w.Code, tc.method+" "+tc.path)
			assert.Equal(t, tc.method, w.Body.String())
		}
	})

	t.Run("middleware is scoped to the group", func(t *testing.T) {
		engine := gin.New()
		api := engine.Group("/api/v1")
		mark := func(c *gin.Context) {
			c.Header("X-Group", "guarded")
			c.Next()
		}
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }

		NewDomainGroup("guarded", "/guarded").Use(mark).GET("/x", ok).RegisterRoutes(api)
		NewDomainGroup("open", "/open").GET("/x", ok).RegisterRoutes(api)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/guarded/x", nil))
		assert.Equal(t, "guarded", w.Header().Get("X-Group"))

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/open/x", nil))
		assert.Empty(t, w.Header().Get("X-Group"))
	})
}

func testHandlers() Handlers {
	return Handlers{
		Sales:      handler.NewSalesHandler(nil, nil),
		Commission: handler.NewCommissionHandler(nil),
		Report:     handler.NewReportHandler(nil),
		Ledger:     handler.NewLedgerHandler(nil),
		Product:    handler.NewProductHandler(nil),
		System:     handler.NewSystemHandler("sales-api", "test"),
	}
}

func TestMount_RegistersAPI(t *testing.T) {
	engine := gin.New()
	Mount(engine, testHandlers())

	var got []string
	for _, route := range engine.Routes() {
		got = append(got, route.Method+" "+route.Path)
	}
	sort.Strings(got)

	want := []string{
		"GET /api/v1/commissions/statement",
		"GET /api/v1/products",
		"GET /api/v1/reports/bpo",
		"GET /api/v1/reports/business-lines",
		"GET /api/v1/sales/pending",
		"GET /health",
		"GET /ready",
		"POST /api/v1/commissions/preview",
		"POST /api/v1/ledger/movements",
		"POST /api/v1/ledger/movements/:id/reverse",
		"POST /api/v1/products",
		"POST /api/v1/reports/warm",
		"POST /api/v1/sales/:id/approve",
		"POST /api/v1/sales/:id/reject",
		"POST /api/v1/sales/calls",
		"POST /api/v1/sales/lead-conversions",
		"PUT /api/v1/commissions/configs",
	}
	assert.Equal(t, want, got)
}

func TestMount_ProbesAreServed(t *testing.T) {
	engine := gin.New()
	Mount(engine, testHandlers())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMount_DecisionLimitGuardsDecisionsOnly(t *testing.T) {
	engine := gin.New()
	h := testHandlers()
	h.DecisionLimit = func(c *gin.Context) {
		c.AbortWithStatus(http.StatusTooManyRequests)
	}
	Mount(engine, h)

	id := uuid.NewString()
	for _, path := range []string{"/api/v1/sales/" + id + "/approve", "/api/v1/sales/" + id + "/reject"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code, path)
	}

	// ingestion stays open; the empty body fails binding instead
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sales/calls", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
