package app

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const metricsChallenge = `Basic realm="soulpath-actions metrics"`

// requireBasicAuth guards a route with one fixed credential pair.
// An empty password leaves the route open.
func requireBasicAuth(username, password string) gin.HandlerFunc {
	if password == "" {
		return func(c *gin.Context) { c.Next() }
	}

	wantUser, wantPass := []byte(username), []byte(password)
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		// Both comparisons always run.
		match := subtle.ConstantTimeCompare([]byte(user), wantUser) &
			subtle.ConstantTimeCompare([]byte(pass), wantPass)
		if !ok || match != 1 {
			c.Header("WWW-Authenticate", metricsChallenge)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
