package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhijitam01/drawr/internal/middleware"
)

const secret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims, key string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return token
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", middleware.Auth(secret), func(c *gin.Context) {
		id, ok := middleware.UserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return r
}

func TestAuth(t *testing.T) {
	valid := signToken(t, jwt.MapClaims{"user_id": 42, "exp": time.Now().Add(time.Hour).Unix()}, secret)
	expired := signToken(t, jwt.MapClaims{"user_id": 42, "exp": time.Now().Add(-time.Hour).Unix()}, secret)
	wrongKey := signToken(t, jwt.MapClaims{"user_id": 42}, "other")
	noUser := signToken(t, jwt.MapClaims{"sub": "x"}, secret)

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{name: "bearer header", header: "Bearer " + valid, status: http.StatusOK},
		{name: "query token", query: "?token=" + valid, status: http.StatusOK},
		{name: "missing", status: http.StatusUnauthorized},
		{name: "malformed header", header: "Token " + valid, status: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expired, status: http.StatusUnauthorized},
		{name: "wrong key", header: "Bearer " + wrongKey, status: http.StatusUnauthorized},
		{name: "missing user_id", header: "Bearer " + noUser, status: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			// Act
			authRouter().ServeHTTP(w, req)

			// Assert
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user_id":42}`, w.Body.String())
			}
		})
	}
}

func TestUserIDFromToken(t *testing.T) {
	id, err := middleware.UserIDFromToken(signToken(t, jwt.MapClaims{"user_id": 7}, secret), secret)
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	_, err = middleware.UserIDFromToken(signToken(t, jwt.MapClaims{"user_id": 1.5}, secret), secret)
	assert.ErrorIs(t, err, middleware.ErrInvalidClaim)
}

func TestCORS_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CORS("https://draw.example"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://draw.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogger_OmitsQueryString(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	r := gin.New()
	r.Use(middleware.Logger(log))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	// Act
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing?token=secret", nil))

	// Assert
	out := buf.String()
	assert.Contains(t, out, `"path":"/missing"`)
	assert.Contains(t, out, `"level":"warning"`)
	assert.NotContains(t, out, "secret")
}
