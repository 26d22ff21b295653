package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hirewise/models"
	"hirewise/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func echoActor(c *gin.Context) {
	c.JSON(http.StatusOK, ActorFrom(c))
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/", JWTAuthMiddleware(), echoActor)

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "garbage").Code)

	token, err := utils.GenerateToken(models.Actor{ID: "u1", ProviderProfileID: "p1"}, time.Hour)
	require.NoError(t, err)
	w := do(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"u1","isAdmin":false,"providerProfileId":"p1"}`, w.Body.String())
}

func TestJWTAuthMiddleware_Expired(t *testing.T) {
	r := gin.New()
	r.GET("/", JWTAuthMiddleware(), echoActor)

	token, err := utils.GenerateToken(models.Actor{ID: "u1"}, -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, token).Code)
}

func TestAdminAuthMiddleware(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("operator-secret"), bcrypt.MinCost)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/", AdminAuthMiddleware(string(hash)), echoActor)

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "wrong").Code)

	w := do(r, "operator-secret")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isAdmin":true`)

	userToken, _ := utils.GenerateToken(models.Actor{ID: "u1"}, time.Hour)
	assert.Equal(t, http.StatusForbidden, do(r, userToken).Code)

	adminToken, _ := utils.GenerateToken(models.Actor{ID: "a1", IsAdmin: true}, time.Hour)
	w = do(r, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"a1"`)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimitMiddleware(2), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, "").Code)
	assert.Equal(t, http.StatusOK, do(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "").Code)
}
