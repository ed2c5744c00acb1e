package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "/api/v1", r.BasePath())

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("system", "/system")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/system/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine).Use(func(c *gin.Context) {
		c.Header("X-Api", "yes")
		c.Next()
	})
	g := NewDomainGroup("properties", "/properties")
	g.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.Register(g).Setup()
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, "yes", serve(engine, http.MethodGet, "/api/v1/properties").Header().Get("X-Api"))
	assert.Empty(t, serve(engine, http.MethodGet, "/health").Header().Get("X-Api"))
}

func TestDomainGroup_Methods(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("tasks", "/tasks")
	ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
	g.GET("/:id", ok).
		POST("", ok).
		PUT("/:id", ok).
		PATCH("/:id", ok).
		DELETE("/:id", ok)
	g.RegisterRoutes(engine.Group("/api/v1"))

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/tasks/1"},
		{http.MethodPost, "/api/v1/tasks"},
		{http.MethodPut, "/api/v1/tasks/1"},
		{http.MethodPatch, "/api/v1/tasks/1"},
		{http.MethodDelete, "/api/v1/tasks/1"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.method, w.Body.String())
		})
	}
}

func TestDomainGroup_MiddlewareAndSubgroups(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("listings", "/listings")
	assert.Equal(t, "listings", g.Name())
	assert.Equal(t, "/listings", g.Prefix())

	g.Use(func(c *gin.Context) {
		c.Header("X-Group", "listings")
		c.Next()
	})
	g.GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") })
	photos := g.Group("photos", "/:id/photos")
	photos.POST("", func(c *gin.Context) { c.String(http.StatusCreated, c.Param("id")) })
	g.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(engine, http.MethodGet, "/api/v1/listings")
	assert.Equal(t, "list", w.Body.String())
	assert.Equal(t, "listings", w.Header().Get("X-Group"))

	w = serve(engine, http.MethodPost, "/api/v1/listings/abc/photos")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "abc", w.Body.String())
	assert.Equal(t, "listings", w.Header().Get("X-Group"))
}

func TestRouterRoutes(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	g := NewDomainGroup("leases", "/leases")
	h := func(c *gin.Context) {}
	g.POST("/:id/sign", h).GET("/:id", h).GET("", h)
	r.Register(g).Setup()

	assert.Equal(t, []RouteInfo{
		{Method: http.MethodGet, Path: "/api/v1/leases"},
		{Method: http.MethodGet, Path: "/api/v1/leases/:id"},
		{Method: http.MethodPost, Path: "/api/v1/leases/:id/sign"},
	}, r.Routes())
}
