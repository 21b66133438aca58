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

type pingRegistrar struct {
	path string
}

func (r *pingRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET(r.path, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func denyAll() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	}
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRouter_MountsUnderVersionPrefix(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.RegisterPublic(&pingRegistrar{path: "/ping"})
	r.Setup()

	assert.Equal(t, http.StatusOK, get(engine, "/api/v1/ping").Code)
	assert.Equal(t, http.StatusNotFound, get(engine, "/ping").Code)
}

func TestRouter_CustomAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))
	r.RegisterPublic(&pingRegistrar{path: "/ping"})
	r.Setup()

	assert.Equal(t, http.StatusOK, get(engine, "/api/v2/ping").Code)
	assert.Equal(t, http.StatusNotFound, get(engine, "/api/v1/ping").Code)
}

func TestRouter_AuthMiddlewareOnlyGuardsProtectedRoutes(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.UseAuth(denyAll())
	r.RegisterPublic(&pingRegistrar{path: "/open"}).
		Register(&pingRegistrar{path: "/guarded"})
	r.Setup()

	assert.Equal(t, http.StatusOK, get(engine, "/api/v1/open").Code)
	assert.Equal(t, http.StatusUnauthorized, get(engine, "/api/v1/guarded").Code)
}
