package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HeaderAPIKey carries the shared key on protected routes.
const HeaderAPIKey = "X-Api-Key"

// RequireAPIKey returns a middleware that gates mutating routes behind the
// static shared key. A missing or mismatched key gets a generic 401.
func RequireAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(HeaderAPIKey) != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authorization required"})
			return
		}
		c.Next()
	}
}

// GenerateKey produces a random 32-character key. Used at startup when no
// key is configured; the generated key is surfaced in the startup log.
func GenerateKey() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
