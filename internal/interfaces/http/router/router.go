package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salesops/backend/internal/interfaces/http/handler"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts domain groups under a versioned prefix
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a RouteRegistrar to be mounted by Setup
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup mounts every registrar under /api/<version>
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// DomainGroup collects the routes of one domain under a prefix
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to this group only
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, path, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, path, handlers)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPut, path, handlers)
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}
	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

// Handlers are the endpoints served by the API
type Handlers struct {
	Sales      *handler.SalesHandler
	Commission *handler.CommissionHandler
	Report     *handler.ReportHandler
	Ledger     *handler.LedgerHandler
	Product    *handler.ProductHandler
	System     *handler.SystemHandler

	// DecisionLimit, when set, guards approve and reject on top of the
	// global middleware
	DecisionLimit gin.HandlerFunc
}

// Mount registers the probes at the root and every domain group under the
// versioned API prefix
func Mount(engine *gin.Engine, h Handlers, opts ...RouterOption) *Router {
	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	r := NewRouter(engine, opts...)
	r.Register(
		salesRoutes(h),
		NewDomainGroup("commissions", "/commissions").
			PUT("/configs", h.Commission.SetRewardConfig).
			GET("/statement", h.Commission.Statement).
			POST("/preview", h.Commission.Preview),
		NewDomainGroup("reports", "/reports").
			GET("/bpo", h.Report.BPOReport).
			GET("/business-lines", h.Report.BusinessLines).
			POST("/warm", h.Report.Warm),
		NewDomainGroup("ledger", "/ledger").
			POST("/movements", h.Ledger.RecordMovement).
			POST("/movements/:id/reverse", h.Ledger.ReverseMovement),
		NewDomainGroup("products", "/products").
			GET("", h.Product.List).
			POST("", h.Product.Create),
	)
	r.Setup()
	return r
}

func salesRoutes(h Handlers) *DomainGroup {
	decide := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		if h.DecisionLimit == nil {
			return []gin.HandlerFunc{fn}
		}
		return []gin.HandlerFunc{h.DecisionLimit, fn}
	}

	return NewDomainGroup("sales", "/sales").
		GET("/pending", h.Sales.ListPending).
		POST("/:id/approve", decide(h.Sales.Approve)...).
		POST("/:id/reject", decide(h.Sales.Reject)...).
		POST("/calls", h.Sales.RecordCallSale).
		POST("/lead-conversions", h.Sales.RecordLeadConversion)
}
