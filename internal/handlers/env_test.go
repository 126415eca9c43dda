package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/kanban-api/internal/constants"
	"github.com/yukikurage/kanban-api/internal/database"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
	"github.com/yukikurage/kanban-api/internal/services"
	"github.com/yukikurage/kanban-api/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	authService *services.AuthService
	boards      *services.BoardService
	columns     *services.ColumnService
	tasks       *services.TaskService
	tags        *services.TagService
	profiles    *services.ProfileService
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))

	log := logrus.New()
	log.SetOutput(io.Discard)

	userRepo := repository.NewUserRepository(db)
	tagRepo := repository.NewTagRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	scope := services.NewAccessScope(boardRepo, columnRepo, taskRepo)

	return testEnv{
		db:          db,
		authService: services.NewAuthService(userRepo),
		boards:      services.NewBoardService(boardRepo, columnRepo, scope),
		columns:     services.NewColumnService(columnRepo, taskRepo, scope),
		tasks:       services.NewTaskService(taskRepo, userRepo, tagRepo, scope, nil),
		tags:        services.NewTagService(tagRepo),
		profiles:    services.NewProfileService(userRepo, storage.NewLocalStore(t.TempDir(), "/media"), log),
	}
}

func (env testEnv) activeUser(t *testing.T, username string) *models.User {
	t.Helper()
	_, err := env.authService.Register(services.RegisterInput{Username: username, Password: "password123"})
	require.NoError(t, err)
	user, err := env.authService.SetActive(username, true)
	require.NoError(t, err)
	return user
}

// newRouter returns an engine with a cookie session store. asUser, when
// non-zero, plays the part of the authentication middleware.
func newRouter(asUser uint64) *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	if asUser != 0 {
		r.Use(func(c *gin.Context) {
			c.Set(constants.ContextKeyUserID, asUser)
			c.Next()
		})
	}
	return r
}

func doJSON(t *testing.T, r http.Handler, method, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
