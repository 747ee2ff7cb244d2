package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/commforge/community-backend/internal/app/auth/jwt"
	"github.com/commforge/community-backend/internal/infra/config"
)

func newGatedRouter(t *testing.T, accessTTL time.Duration) (*gin.Engine, *jwt.CodecImpl) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec, err := jwt.NewCodec(&config.Config{
		JWTSecret:       "gate-test-secret",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/whoami", RequireAuth(codec), func(c *gin.Context) {
		ident, ok := IdentityFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, ident)
	})
	return r, codec
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_ValidToken(t *testing.T) {
	r, codec := newGatedRouter(t, time.Minute)

	at, _, err := codec.IssueAccessToken("alice@example.com", 42, "alice")
	require.NoError(t, err)

	w := doGet(r, "Bearer "+at)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"UserID":42`)
	require.Contains(t, w.Body.String(), "alice@example.com")
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	r, _ := newGatedRouter(t, time.Minute)

	w := doGet(r, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "missing bearer token")
}

func TestRequireAuth_NotBearer(t *testing.T) {
	r, codec := newGatedRouter(t, time.Minute)

	at, _, err := codec.IssueAccessToken("alice@example.com", 42, "alice")
	require.NoError(t, err)

	w := doGet(r, "Basic "+at)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "missing bearer token")
}

func TestRequireAuth_Garbage(t *testing.T) {
	r, _ := newGatedRouter(t, time.Minute)

	w := doGet(r, "Bearer not.a.token")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "invalid token")
}

func TestRequireAuth_Tampered(t *testing.T) {
	r, codec := newGatedRouter(t, time.Minute)

	at, _, err := codec.IssueAccessToken("alice@example.com", 42, "alice")
	require.NoError(t, err)

	last := at[len(at)-1]
	flip := "A"
	if last == 'A' {
		flip = "B"
	}
	w := doGet(r, "Bearer "+at[:len(at)-1]+flip)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "invalid token")
}

func TestRequireAuth_Expired(t *testing.T) {
	r, codec := newGatedRouter(t, time.Nanosecond)

	at, _, err := codec.IssueAccessToken("alice@example.com", 42, "alice")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	w := doGet(r, "Bearer "+at)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "token expired")
}

func TestRequireAuth_RefreshTokenRejected(t *testing.T) {
	r, codec := newGatedRouter(t, time.Minute)

	rt, _, err := codec.IssueRefreshToken("alice@example.com", 42)
	require.NoError(t, err)

	w := doGet(r, "Bearer "+rt)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "invalid token")
}

func TestIdentityFrom_Empty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := IdentityFrom(c)
	require.False(t, ok)
}

func TestIdentityFrom_WrongType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(identityKey, "not an identity")

	_, ok := IdentityFrom(c)
	require.False(t, ok)
}
