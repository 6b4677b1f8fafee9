package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gridworks/plotregistry/api/internal/logger"
)

func init() {
	// Set Gin to test mode to reduce noise in tests
	gin.SetMode(gin.TestMode)
}

// newRouter builds a bare engine with the given middleware installed.
func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	for _, m := range mw {
		router.Use(m)
	}
	return router
}

func serve(router *gin.Engine, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	t.Run("mints an ID when none is supplied", func(t *testing.T) {
		router := newRouter(RequestID())
		router.GET("/nodes", func(c *gin.Context) {
			id := GetRequestID(c)
			if id == "" {
				t.Error("Expected request ID in context")
			}
			c.String(200, id)
		})

		w := serve(router, "GET", "/nodes", nil)

		headerID := w.Header().Get(RequestIDHeader)
		if headerID == "" {
			t.Error("Expected X-Request-ID response header")
		}
		if w.Body.String() != headerID {
			t.Errorf("Context ID %s and header ID %s should match", w.Body.String(), headerID)
		}
	})

	t.Run("honors an upstream-supplied ID", func(t *testing.T) {
		router := newRouter(RequestID())
		router.GET("/nodes", func(c *gin.Context) {
			c.String(200, GetRequestID(c))
		})

		w := serve(router, "GET", "/nodes", map[string]string{RequestIDHeader: "proxy-id-123"})

		if w.Body.String() != "proxy-id-123" {
			t.Errorf("Expected proxy-id-123, got %s", w.Body.String())
		}
	})

	t.Run("GetRequestID is empty outside the middleware", func(t *testing.T) {
		c := &gin.Context{}
		if id := GetRequestID(c); id != "" {
			t.Errorf("Expected empty string, got %s", id)
		}
	})
}

func TestCORS(t *testing.T) {
	origins := []string{"http://localhost:3000", "http://localhost:3001"}

	t.Run("sets headers for an allowed origin", func(t *testing.T) {
		router := newRouter(CORS(origins))
		router.GET("/nodes", func(c *gin.Context) { c.String(200, "OK") })

		w := serve(router, "GET", "/nodes", map[string]string{"Origin": "http://localhost:3000"})

		if w.Code != 200 {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
			t.Error("Expected Access-Control-Allow-Origin header")
		}
		if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Error("Expected Access-Control-Allow-Credentials header")
		}
	})

	t.Run("sets no headers for a foreign origin", func(t *testing.T) {
		router := newRouter(CORS(origins))
		router.GET("/nodes", func(c *gin.Context) { c.String(200, "OK") })

		w := serve(router, "GET", "/nodes", map[string]string{"Origin": "http://evil.com"})

		if w.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("Expected no CORS headers for foreign origin")
		}
	})

	t.Run("answers preflight for an allowed origin", func(t *testing.T) {
		router := newRouter(CORS(origins))
		router.OPTIONS("/nodes", func(c *gin.Context) { c.String(200, "OK") })

		w := serve(router, "OPTIONS", "/nodes", map[string]string{"Origin": "http://localhost:3000"})

		if w.Code != 204 {
			t.Errorf("Expected status 204 for preflight, got %d", w.Code)
		}
	})

	t.Run("rejects preflight for a foreign origin", func(t *testing.T) {
		router := newRouter(CORS(origins))
		router.OPTIONS("/nodes", func(c *gin.Context) { c.String(200, "OK") })

		w := serve(router, "OPTIONS", "/nodes", map[string]string{"Origin": "http://evil.com"})

		if w.Code != 403 {
			t.Errorf("Expected status 403 for foreign preflight, got %d", w.Code)
		}
	})
}

func TestLogger(t *testing.T) {
	t.Run("passes requests through", func(t *testing.T) {
		router := newRouter(RequestID(), Logger(logger.New("test")))
		router.GET("/nodes", func(c *gin.Context) { c.String(200, "OK") })

		w := serve(router, "GET", "/nodes?node=Node-A", nil)

		if w.Code != 200 {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
	})

	t.Run("stores a request-scoped logger in the context", func(t *testing.T) {
		router := newRouter(RequestID(), Logger(logger.New("test")))
		router.GET("/nodes", func(c *gin.Context) {
			if GetLogger(c) == nil {
				t.Error("Expected logger in context")
			}
			c.String(200, "OK")
		})

		serve(router, "GET", "/nodes", nil)
	})

	t.Run("GetLogger is nil outside the middleware", func(t *testing.T) {
		c := &gin.Context{}
		if log := GetLogger(c); log != nil {
			t.Error("Expected nil logger")
		}
	})
}

func TestRecovery(t *testing.T) {
	t.Run("turns a panic into a 500", func(t *testing.T) {
		router := newRouter(RequestID(), Recovery(logger.New("test")))
		router.GET("/panic", func(c *gin.Context) {
			panic("test panic")
		})

		w := serve(router, "GET", "/panic", nil)

		if w.Code != 500 {
			t.Errorf("Expected status 500 after panic, got %d", w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, "INTERNAL_SERVER_ERROR") {
			t.Error("Expected INTERNAL_SERVER_ERROR in response body")
		}
		if !strings.Contains(body, "request_id") {
			t.Error("Expected request_id in response body")
		}
	})

	t.Run("leaves healthy requests alone", func(t *testing.T) {
		router := newRouter(Recovery(logger.New("test")))
		router.GET("/nodes", func(c *gin.Context) { c.String(200, "OK") })

		w := serve(router, "GET", "/nodes", nil)

		if w.Code != 200 {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
		if w.Body.String() != "OK" {
			t.Errorf("Expected body 'OK', got %s", w.Body.String())
		}
	})
}

func TestMiddlewareStack(t *testing.T) {
	log := logger.New("test")
	router := newRouter(RequestID(), Logger(log), Recovery(log), CORS([]string{"http://localhost:3000"}))
	router.GET("/nodes", func(c *gin.Context) {
		if GetRequestID(c) == "" {
			t.Error("Expected request ID from RequestID middleware")
		}
		if GetLogger(c) == nil {
			t.Error("Expected logger from Logger middleware")
		}
		c.String(200, "OK")
	})

	w := serve(router, "GET", "/nodes", map[string]string{"Origin": "http://localhost:3000"})

	if w.Code != 200 {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("Expected X-Request-ID header")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Error("Expected CORS headers")
	}
}
