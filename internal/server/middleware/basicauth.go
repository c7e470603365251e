// file: internal/server/middleware/basicauth.go
// version: 2.0.0
// guid: 17e74890-db88-4c65-b906-53e7dcdfede8

package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/jdfalk/library-catalog/internal/i18n"
)

// Credentials configure HTTP Basic Authentication. PasswordHash is a bcrypt hash.
type Credentials struct {
	Enabled      bool
	Username     string
	PasswordHash string
}

// CredentialsProvider returns the credentials in effect for the current request.
// It is consulted per request so configuration reloads apply immediately.
type CredentialsProvider func() Credentials

// BasicAuth returns a Gin middleware that enforces HTTP Basic Authentication
// when the provided credentials are enabled. Health and metrics endpoints are exempt.
func BasicAuth(provider CredentialsProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := provider()
		if !creds.Enabled {
			c.Next()
			return
		}

		switch c.Request.URL.Path {
		case "/api/health", "/api/v1/health", "/metrics":
			c.Next()
			return
		}

		user, pass, ok := c.Request.BasicAuth()
		if !ok || !checkCredentials(creds, user, pass) {
			c.Header("WWW-Authenticate", `Basic realm="Library Catalog"`)
			AbortWithError(c, http.StatusUnauthorized, i18n.MsgAuthRequired)
			return
		}

		c.Next()
	}
}

func checkCredentials(creds Credentials, user, pass string) bool {
	userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(creds.Username)) == 1
	// The hash is compared even when the username does not match
	passErr := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(pass))
	return userMatch && passErr == nil
}

// HashPassword returns the bcrypt hash stored in auth.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
