package api

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) registerMiddleware() {
	if s == nil || s.router == nil {
		return
	}
	s.router.Use(gin.Logger(), gin.Recovery(), corsMiddleware())
}

// corsMiddleware allows browser clients when BAP_CORS_ORIGINS is set:
// either "*" or a comma-separated origin allowlist.
func corsMiddleware() gin.HandlerFunc {
	raw := strings.TrimSpace(os.Getenv("BAP_CORS_ORIGINS"))
	if raw == "" {
		return func(c *gin.Context) { c.Next() }
	}

	allowAll := false
	allowed := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			allowed = nil
			break
		}
		allowed[origin] = struct{}{}
	}
	if !allowAll && len(allowed) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		origin := strings.TrimSpace(c.GetHeader("Origin"))
		if origin != "" {
			ok := allowAll
			if !ok {
				_, ok = allowed[origin]
			}
			if ok {
				if allowAll {
					c.Header("Access-Control-Allow-Origin", "*")
				} else {
					c.Header("Access-Control-Allow-Origin", origin)
					c.Header("Vary", "Origin")
				}
				c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
				c.Header("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
				c.Header("Access-Control-Max-Age", "3600")
			}
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
		}
		c.Next()
	}
}

// apiKeyMiddlewareFromEnv requires BAP_API_KEY unless auth is
// explicitly disabled with BAP_DISABLE_AUTH=true.
func apiKeyMiddlewareFromEnv() (gin.HandlerFunc, error) {
	apiKey := strings.TrimSpace(os.Getenv("BAP_API_KEY"))
	if apiKey != "" {
		return apiKeyAuthMiddleware(apiKey), nil
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv("BAP_DISABLE_AUTH")), "true") {
		return nil, nil
	}
	return nil, errors.New("api: missing auth configuration: set BAP_API_KEY or set BAP_DISABLE_AUTH=true")
}

func apiKeyAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := strings.TrimSpace(c.GetHeader("X-API-Key"))
		if got == "" || got != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing API key"})
			return
		}
		c.Next()
	}
}
