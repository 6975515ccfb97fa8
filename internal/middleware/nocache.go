package middleware

import "github.com/gin-gonic/gin"

// NoCache sets response headers that forbid caching. Applied to match and
// listing reads so that a browser never shows a stale availability status
// after navigating back.
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Next()
	}
}
