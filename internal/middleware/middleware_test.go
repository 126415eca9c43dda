package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/kanban-api/internal/constants"
	apierrors "github.com/yukikurage/kanban-api/internal/errors"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/services"
	"github.com/yukikurage/kanban-api/internal/utils"
	"golang.org/x/time/rate"
)

type fakeAuthenticator map[uint64]*models.User

func (f fakeAuthenticator) Authenticate(userID uint64) (*models.User, error) {
	user, ok := f[userID]
	if !ok {
		return nil, services.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, services.ErrAccountPending
	}
	return user, nil
}

func setupAuthRouter(t *testing.T, tokens *utils.TokenIssuer) (*gin.Engine, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := fakeAuthenticator{
		1: {ID: 1, Username: "active", IsActive: true},
		2: {ID: 2, Username: "pending", IsActive: false},
	}
	mutations := 0

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.POST("/login/:id", func(c *gin.Context) {
		session := sessions.Default(c)
		if c.Param("id") == "1" {
			session.Set(constants.ContextKeyUserID, uint64(1))
		} else {
			session.Set(constants.ContextKeyUserID, uint64(2))
		}
		require.NoError(t, session.Save())
		c.Status(http.StatusNoContent)
	})

	protected := r.Group("/api")
	protected.Use(RequireAuth(users, tokens))
	protected.POST("/boards", func(c *gin.Context) {
		mutations++
		userID, _ := GetUserID(c)
		c.JSON(http.StatusCreated, gin.H{"user_id": userID})
	})
	return r, &mutations
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()
	var body apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequireAuth_NoCredentials(t *testing.T) {
	r, mutations := setupAuthRouter(t, utils.NewTokenIssuer("jwt-secret", time.Hour))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/boards", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierrors.ErrCodeUnauthorized, decodeError(t, w).Code)
	assert.Zero(t, *mutations)
}

func TestRequireAuth_BearerToken(t *testing.T) {
	tokens := utils.NewTokenIssuer("jwt-secret", time.Hour)
	r, mutations := setupAuthRouter(t, tokens)

	token, err := tokens.Issue(1, "active")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/boards", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"user_id": 1}`, w.Body.String())
	assert.Equal(t, 1, *mutations)

	req = httptest.NewRequest(http.MethodPost, "/api/boards", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_PendingPrincipalCannotMutate(t *testing.T) {
	tokens := utils.NewTokenIssuer("jwt-secret", time.Hour)
	r, mutations := setupAuthRouter(t, tokens)

	token, err := tokens.Issue(2, "pending")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/boards", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apierrors.ErrCodeAccountPending, decodeError(t, w).Code)
	assert.Zero(t, *mutations)
}

func TestRequireAuth_Session(t *testing.T) {
	r, mutations := setupAuthRouter(t, nil)

	for _, tc := range []struct {
		id     string
		status int
	}{
		{id: "1", status: http.StatusCreated},
		{id: "2", status: http.StatusForbidden},
	} {
		login := httptest.NewRecorder()
		r.ServeHTTP(login, httptest.NewRequest(http.MethodPost, "/login/"+tc.id, nil))
		require.Equal(t, http.StatusNoContent, login.Code)

		req := httptest.NewRequest(http.MethodPost, "/api/boards", nil)
		for _, c := range login.Result().Cookies() {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, "session for user %s", tc.id)
	}
	assert.Equal(t, 1, *mutations)
}

func TestRateLimiter_PerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimiter(rate.Limit(1), 1))
	r.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("127.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, send("127.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, send("192.168.1.1:1000"))
}

func TestRateLimiter_DropsIdleVisitors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	visitors := newVisitorSet(rate.Limit(1), 1, time.Minute, func() time.Time { return now })

	r := gin.New()
	r.Use(rateLimit(visitors))
	r.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 50; i++ {
		send(fmt.Sprintf("10.0.0.%d:1000", i))
	}
	assert.Equal(t, 50, visitors.size())

	now = now.Add(30 * time.Second)
	assert.Equal(t, http.StatusOK, send("10.0.1.1:1000"))
	assert.Equal(t, 51, visitors.size())

	now = now.Add(45 * time.Second)
	assert.Equal(t, http.StatusOK, send("10.0.1.2:1000"))
	assert.Equal(t, 2, visitors.size())
}

func TestPerMinute(t *testing.T) {
	assert.Equal(t, rate.Limit(0.5), PerMinute(30))
	assert.Equal(t, rate.Inf, PerMinute(0))
}

func TestRequestIDAndLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestID(), RequestLogger(logger))
	r.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	id := w.Header().Get(constants.RequestIDHeader)
	require.NotEmpty(t, id)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, id, entry["request_id"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])

	const incoming = "3f1c2d4e-5a6b-4c7d-8e9f-0a1b2c3d4e5f"
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(constants.RequestIDHeader, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Header().Get(constants.RequestIDHeader))
}
