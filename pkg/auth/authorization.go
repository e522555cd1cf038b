package auth

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	firebase "firebase.google.com/go/v4"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware guards the migration routes. With Firebase configured it
// verifies the bearer token as a Firebase ID token; without Firebase it
// compares the bearer token against the configured admin password.
func AdminMiddleware(firebaseApp *firebase.App, adminPassword string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			c.Abort()
			return
		}
		idToken := strings.TrimPrefix(authHeader, "Bearer ")

		if firebaseApp == nil {
			if adminPassword == "" || subtle.ConstantTimeCompare([]byte(idToken), []byte(adminPassword)) != 1 {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid admin password"})
				c.Abort()
				return
			}
			c.Next()
			return
		}

		ctx := context.Background()
		authClient, err := firebaseApp.Auth(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initialize Firebase Auth"})
			c.Abort()
			return
		}

		token, err := authClient.VerifyIDToken(ctx, idToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid ID token"})
			c.Abort()
			return
		}

		// Attach token to the context
		c.Set("token", token)

		c.Next()
	}
}
