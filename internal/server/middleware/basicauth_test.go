// file: internal/server/middleware/basicauth_test.go
// version: 2.0.0
// guid: 11151e33-05a7-45ef-8394-7ee3a7d810d1

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupBasicAuthRouter(creds Credentials) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(BasicAuth(func() Credentials { return creds }))
	r.GET("/api/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/api/v1/books", func(c *gin.Context) {
		c.String(http.StatusOK, "books")
	})
	return r
}

func enabledCredentials(t *testing.T) Credentials {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	return Credentials{Enabled: true, Username: "admin", PasswordHash: string(hash)}
}

func TestBasicAuth_Disabled(t *testing.T) {
	r := setupBasicAuthRouter(Credentials{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBasicAuth_NoCredentials(t *testing.T) {
	r := setupBasicAuthRouter(enabledCredentials(t))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"errors":["autenticação obrigatória"]}`, w.Body.String())
}

func TestBasicAuth_Credentials(t *testing.T) {
	creds := enabledCredentials(t)
	tests := []struct {
		name       string
		user, pass string
		want       int
	}{
		{"valid", "admin", "secret", http.StatusOK},
		{"wrong password", "admin", "nope", http.StatusUnauthorized},
		{"wrong user", "root", "secret", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupBasicAuthRouter(creds)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
			req.SetBasicAuth(tt.user, tt.pass)
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestBasicAuth_HealthExempt(t *testing.T) {
	r := setupBasicAuthRouter(enabledCredentials(t))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}
