package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(clientKeyHash string) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(clientKeyHash, zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAuthMiddleware_ValidKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("client-key"), bcrypt.MinCost)
	require.NoError(t, err)
	router := newAuthRouter(string(hash))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer client-key")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_WrongKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("client-key"), bcrypt.MinCost)
	require.NoError(t, err)
	router := newAuthRouter(string(hash))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer wrong-key")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("client-key"), bcrypt.MinCost)
	require.NoError(t, err)
	router := newAuthRouter(string(hash))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("client-key"), bcrypt.MinCost)
	require.NoError(t, err)
	router := newAuthRouter(string(hash))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "client-key")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_DisabledWithoutHash(t *testing.T) {
	router := newAuthRouter("")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
