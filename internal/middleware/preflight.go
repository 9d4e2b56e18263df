package middleware

import (
	"net/http"

	"github.com/m1z23r/drift/pkg/drift"
)

// Preflight answers OPTIONS probes with 204 and no body. Register it after
// CORS so allowed origins still receive their headers.
func Preflight() drift.HandlerFunc {
	return func(c *drift.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Response.WriteHeader(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}
