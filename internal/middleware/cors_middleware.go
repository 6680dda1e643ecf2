package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CORSPolicy lists the browser origins allowed to call the Task API and
// what they may send. "*" in Origins allows any origin.
type CORSPolicy struct {
	Origins []string
	Methods []string
	Headers []string
	MaxAge  time.Duration
}

// DefaultCORSPolicy allows the task endpoints' methods and the bearer
// header from origins.
func DefaultCORSPolicy(origins []string) CORSPolicy {
	return CORSPolicy{
		Origins: origins,
		Methods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		Headers: []string{"Authorization", "Content-Type"},
		MaxAge:  24 * time.Hour,
	}
}

// CORS answers preflight requests itself. A preflight from an origin
// outside the policy is refused with 403.
func CORS(policy CORSPolicy) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(policy.Origins))
	for _, origin := range policy.Origins {
		allowed[strings.TrimSpace(origin)] = struct{}{}
	}
	_, anyOrigin := allowed["*"]
	methods := strings.Join(policy.Methods, ",")
	headers := strings.Join(policy.Headers, ",")
	maxAge := strconv.Itoa(int(policy.MaxAge / time.Second))

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		permitted := false
		switch {
		case origin == "":
		case anyOrigin:
			permitted = true
			c.Header("Access-Control-Allow-Origin", "*")
		default:
			c.Header("Vary", "Origin")
			if _, ok := allowed[origin]; ok {
				permitted = true
				c.Header("Access-Control-Allow-Origin", origin)
			}
		}

		preflight := c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != ""
		if !preflight {
			c.Next()
			return
		}
		if origin != "" && !permitted {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Header("Access-Control-Allow-Methods", methods)
		c.Header("Access-Control-Allow-Headers", headers)
		c.Header("Access-Control-Max-Age", maxAge)
		c.AbortWithStatus(http.StatusNoContent)
	}
}
