package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/freefirelenden-cell/freefirelenden-sub000/middleware"
	"github.com/freefirelenden-cell/freefirelenden-sub000/models"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(testSecret)
	assert.NoError(t, err)
	return signed
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.AuthMiddleware(testSecret))

	r.GET("/me", func(c *gin.Context) {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": middleware.GetRole(c)})
	})

	admin := r.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_ValidToken(t *testing.T) {
	r := authRouter()
	userID := uuid.NewString()
	token := signToken(t, jwt.MapClaims{
		"user_id": userID,
		"role":    models.RoleUser,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w := get(r, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID)
}

func TestAuth_MissingToken(t *testing.T) {
	w := get(authRouter(), "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"role":    models.RoleUser,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	w := get(authRouter(), "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_MissingUserClaim(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"role": models.RoleUser,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	w := get(authRouter(), "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_RequireRole(t *testing.T) {
	r := authRouter()

	adminToken := signToken(t, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"role":    models.RoleAdmin,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	w := get(r, "/admin/ping", adminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	userToken := signToken(t, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"role":    models.RoleUser,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	w = get(r, "/admin/ping", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
