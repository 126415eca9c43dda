package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/kanban-api/internal/dto"
	apierrors "github.com/yukikurage/kanban-api/internal/errors"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/services"
)

// KanbanHandlerTestSuite covers the board, column and task handlers
type KanbanHandlerTestSuite struct {
	suite.Suite
	env   testEnv
	alice *models.User
	bob   *models.User
}

// SetupTest runs before each test
func (suite *KanbanHandlerTestSuite) SetupTest() {
	suite.env = setupTestEnv(suite.T())
	suite.alice = suite.env.activeUser(suite.T(), "alice")
	suite.bob = suite.env.activeUser(suite.T(), "bob")
}

// routerFor registers every hierarchy route for one principal
func (suite *KanbanHandlerTestSuite) routerFor(user *models.User) *gin.Engine {
	boards := NewBoardHandler(suite.env.boards)
	columns := NewColumnHandler(suite.env.columns, suite.env.tasks)
	tasks := NewTaskHandler(suite.env.tasks)

	r := newRouter(user.ID)
	r.GET("/api/boards", boards.ListBoards)
	r.POST("/api/boards", boards.CreateBoard)
	r.GET("/api/boards/:id", boards.GetBoard)
	r.PATCH("/api/boards/:id", boards.UpdateBoard)
	r.DELETE("/api/boards/:id", boards.DeleteBoard)
	r.GET("/api/boards/:id/columns", boards.ListColumns)
	r.POST("/api/columns", columns.CreateColumn)
	r.PATCH("/api/columns/:id", columns.UpdateColumn)
	r.DELETE("/api/columns/:id", columns.DeleteColumn)
	r.GET("/api/columns/:id/tasks", columns.ListTasks)
	r.POST("/api/columns/:id/suggestions", columns.SuggestTasks)
	r.POST("/api/tasks", tasks.CreateTask)
	r.GET("/api/tasks/:id", tasks.GetTask)
	r.PATCH("/api/tasks/:id", tasks.UpdateTask)
	r.DELETE("/api/tasks/:id", tasks.DeleteTask)
	r.POST("/api/tasks/:id/move", tasks.MoveTask)
	return r
}

func (suite *KanbanHandlerTestSuite) createBoard(r *gin.Engine, name string) dto.BoardDTO {
	w := doJSON(suite.T(), r, http.MethodPost, "/api/boards", map[string]interface{}{"name": name})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.BoardDTO](suite.T(), w)
}

func (suite *KanbanHandlerTestSuite) createColumn(r *gin.Engine, boardID uint64, title string, order int) dto.ColumnDTO {
	w := doJSON(suite.T(), r, http.MethodPost, "/api/columns", map[string]interface{}{
		"board_id": boardID,
		"title":    title,
		"order":    order,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.ColumnDTO](suite.T(), w)
}

func (suite *KanbanHandlerTestSuite) createTask(r *gin.Engine, columnID uint64, title string, order int) dto.TaskDTO {
	w := doJSON(suite.T(), r, http.MethodPost, "/api/tasks", map[string]interface{}{
		"column_id": columnID,
		"title":     title,
		"order":     order,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.TaskDTO](suite.T(), w)
}

// TestCreateBoard_OwnerStamped tests that owner_id in the body is ignored
func (suite *KanbanHandlerTestSuite) TestCreateBoard_OwnerStamped() {
	r := suite.routerFor(suite.alice)

	w := doJSON(suite.T(), r, http.MethodPost, "/api/boards", map[string]interface{}{
		"name":     "Roadmap",
		"owner_id": suite.bob.ID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	board := decode[dto.BoardDTO](suite.T(), w)
	suite.Equal(suite.alice.ID, board.OwnerID)
	suite.Equal("alice", board.OwnerUsername)

	w = doJSON(suite.T(), suite.routerFor(suite.bob), http.MethodGet, "/api/boards", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Empty(decode[[]dto.BoardDTO](suite.T(), w))
}

// TestCreateTask_CreatedByIgnored tests that a client supplied created_by is overridden
func (suite *KanbanHandlerTestSuite) TestCreateTask_CreatedByIgnored() {
	r := suite.routerFor(suite.alice)
	board := suite.createBoard(r, "Board")
	column := suite.createColumn(r, board.ID, "Todo", 0)

	w := doJSON(suite.T(), r, http.MethodPost, "/api/tasks", map[string]interface{}{
		"column_id":   column.ID,
		"title":       "Forged",
		"created_by":  suite.bob.ID,
		"assigned_to": suite.bob.ID,
		"priority":    "high",
		"due_date":    "2030-05-01",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	task := decode[dto.TaskDTO](suite.T(), w)
	suite.Require().NotNil(task.CreatedBy)
	suite.Equal(suite.alice.ID, *task.CreatedBy)
	suite.Equal(suite.bob.ID, *task.AssignedTo)
	suite.Equal("2030-05-01", *task.DueDate)

	var stored models.Task
	suite.Require().NoError(suite.env.db.First(&stored, task.ID).Error)
	suite.Equal(suite.alice.ID, *stored.CreatedByID)
}

// TestCreateTask_InvalidInput tests validation and missing references
func (suite *KanbanHandlerTestSuite) TestCreateTask_InvalidInput() {
	r := suite.routerFor(suite.alice)
	board := suite.createBoard(r, "Board")
	column := suite.createColumn(r, board.ID, "Todo", 0)

	w := doJSON(suite.T(), r, http.MethodPost, "/api/tasks", map[string]interface{}{
		"column_id": column.ID,
		"title":     "x",
		"priority":  "urgent",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = doJSON(suite.T(), r, http.MethodPost, "/api/tasks", map[string]interface{}{
		"column_id":   column.ID,
		"title":       "x",
		"assigned_to": 9999,
	})
	suite.Equal(http.StatusNotFound, w.Code)

	w = doJSON(suite.T(), r, http.MethodPost, "/api/tasks", map[string]interface{}{"title": "no column"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

// TestForeignAndMissingLookLikeTheSame tests the uniform permission error
func (suite *KanbanHandlerTestSuite) TestForeignAndMissingLookLikeTheSame() {
	alice := suite.routerFor(suite.alice)
	board := suite.createBoard(alice, "Board")
	column := suite.createColumn(alice, board.ID, "Todo", 0)
	task := suite.createTask(alice, column.ID, "secret", 0)

	bob := suite.routerFor(suite.bob)
	for _, pattern := range []string{"/api/boards/%d", "/api/columns/%d/tasks", "/api/tasks/%d"} {
		var id uint64
		switch pattern {
		case "/api/boards/%d":
			id = board.ID
		case "/api/columns/%d/tasks":
			id = column.ID
		default:
			id = task.ID
		}
		foreign := doJSON(suite.T(), bob, http.MethodGet, fmt.Sprintf(pattern, id), nil)
		missing := doJSON(suite.T(), bob, http.MethodGet, fmt.Sprintf(pattern, 9999), nil)
		suite.Equal(http.StatusForbidden, foreign.Code, pattern)
		suite.Equal(http.StatusForbidden, missing.Code, pattern)
		suite.Equal(foreign.Body.String(), missing.Body.String(), pattern)
	}

	w := doJSON(suite.T(), bob, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", task.ID), nil)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal(apierrors.ErrCodeForbidden, decode[apierrors.APIError](suite.T(), w).Code)

	w = doJSON(suite.T(), alice, http.MethodGet, "/api/tasks/abc", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

// TestGetBoard_NestedAndOrdered tests the board snapshot
func (suite *KanbanHandlerTestSuite) TestGetBoard_NestedAndOrdered() {
	r := suite.routerFor(suite.alice)
	board := suite.createBoard(r, "Board")
	done := suite.createColumn(r, board.ID, "Done", 2)
	todo := suite.createColumn(r, board.ID, "Todo", 1)
	tieA := suite.createColumn(r, board.ID, "Tie A", 5)
	tieB := suite.createColumn(r, board.ID, "Tie B", 5)
	suite.createTask(r, todo.ID, "second", 2)
	suite.createTask(r, todo.ID, "first", 1)

	w := doJSON(suite.T(), r, http.MethodGet, fmt.Sprintf("/api/boards/%d", board.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	detail := decode[dto.BoardDetailDTO](suite.T(), w)

	suite.Require().Len(detail.Columns, 4)
	suite.Equal(todo.ID, detail.Columns[0].ID)
	suite.Equal(done.ID, detail.Columns[1].ID)
	suite.Equal(tieA.ID, detail.Columns[2].ID)
	suite.Equal(tieB.ID, detail.Columns[3].ID)
	suite.Require().Len(detail.Columns[0].Tasks, 2)
	suite.Equal("first", detail.Columns[0].Tasks[0].Title)
	suite.Equal("second", detail.Columns[0].Tasks[1].Title)
	suite.Empty(detail.Columns[1].Tasks)
}

// TestUpdateTask_NullClearsFields tests partial updates with explicit nulls
func (suite *KanbanHandlerTestSuite) TestUpdateTask_NullClearsFields() {
	r := suite.routerFor(suite.alice)
	board := suite.createBoard(r, "Board")
	column := suite.createColumn(r, board.ID, "Todo", 0)
	tag, err := suite.env.tags.CreateTag(services.CreateTagInput{Name: "bug"})
	suite.Require().NoError(err)

	w := doJSON(suite.T(), r, http.MethodPost, "/api/tasks", map[string]interface{}{
		"column_id":   column.ID,
		"title":       "Task",
		"due_date":    "2030-05-01",
		"assigned_to": suite.bob.ID,
		"tag_ids":     []uint64{tag.ID},
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	task := decode[dto.TaskDTO](suite.T(), w)

	path := fmt.Sprintf("/api/tasks/%d", task.ID)

	w = doJSON(suite.T(), r, http.MethodPatch, path, map[string]interface{}{"title": "Renamed"})
	suite.Require().Equal(http.StatusOK, w.Code)
	updated := decode[dto.TaskDTO](suite.T(), w)
	suite.Equal("Renamed", updated.Title)
	suite.NotNil(updated.DueDate)
	suite.NotNil(updated.AssignedTo)
	suite.Len(updated.Tags, 1)

	w = doJSON(suite.T(), r, http.MethodPatch, path, map[string]interface{}{
		"due_date":    nil,
		"assigned_to": nil,
		"tag_ids":     []uint64{},
		"created_by":  suite.bob.ID,
	})
	suite.Require().Equal(http.StatusOK, w.Code)
	cleared := decode[dto.TaskDTO](suite.T(), w)
	suite.Nil(cleared.DueDate)
	suite.Nil(cleared.AssignedTo)
	suite.Empty(cleared.Tags)
	suite.Equal(suite.alice.ID, *cleared.CreatedBy)
}

func (suite *KanbanHandlerTestSuite) TestUpdateTask_PlacementKeysRejected() {
	r := suite.routerFor(suite.alice)
	board := suite.createBoard(r, "Board")
	source := suite.createColumn(r, board.ID, "Todo", 0)
	target := suite.createColumn(r, board.ID, "Done", 1)
	task := suite.createTask(r, source.ID, "stay", 3)

	path := fmt.Sprintf("/api/tasks/%d", task.ID)
	for _, body := range []map[string]interface{}{
		{"column": target.ID, "order": 0},
		{"column_id": target.ID},
		{"title": "Renamed", "order": 7},
	} {
		w := doJSON(suite.T(), r, http.MethodPatch, path, body)
		suite.Equal(http.StatusBadRequest, w.Code)
		suite.Contains(decode[apierrors.APIError](suite.T(), w).Message, "/move")
	}

	w := doJSON(suite.T(), r, http.MethodGet, path, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	unchanged := decode[dto.TaskDTO](suite.T(), w)
	suite.Equal(source.ID, unchanged.ColumnID)
	suite.Equal(3, unchanged.Order)
	suite.Equal("stay", unchanged.Title)
}

// TestMoveTask tests relocation across columns
func (suite *KanbanHandlerTestSuite) TestMoveTask() {
	r := suite.routerFor(suite.alice)
	board := suite.createBoard(r, "Board")
	source := suite.createColumn(r, board.ID, "Todo", 0)
	target := suite.createColumn(r, board.ID, "Done", 1)
	task := suite.createTask(r, source.ID, "moving", 0)
	suite.createTask(r, target.ID, "low", 1)
	suite.createTask(r, target.ID, "high", 10)

	w := doJSON(suite.T(), r, http.MethodPost, fmt.Sprintf("/api/tasks/%d/move", task.ID), map[string]interface{}{
		"column_id": target.ID,
		"order":     5,
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	moved := decode[dto.TaskDTO](suite.T(), w)
	suite.Equal(target.ID, moved.ColumnID)
	suite.Equal(5, moved.Order)

	w = doJSON(suite.T(), r, http.MethodGet, fmt.Sprintf("/api/columns/%d/tasks", target.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	titles := []string{}
	for _, t := range decode[[]dto.TaskDTO](suite.T(), w) {
		titles = append(titles, t.Title)
	}
	suite.Equal([]string{"low", "moving", "high"}, titles)

	w = doJSON(suite.T(), r, http.MethodGet, fmt.Sprintf("/api/columns/%d/tasks", source.ID), nil)
	suite.Empty(decode[[]dto.TaskDTO](suite.T(), w))

	w = doJSON(suite.T(), r, http.MethodPost, fmt.Sprintf("/api/tasks/%d/move", task.ID), map[string]interface{}{
		"column_id": target.ID,
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

// TestDeleteBoard_Cascades tests board deletion through the API
func (suite *KanbanHandlerTestSuite) TestDeleteBoard_Cascades() {
	r := suite.routerFor(suite.alice)
	board := suite.createBoard(r, "Board")
	first := suite.createColumn(r, board.ID, "A", 0)
	second := suite.createColumn(r, board.ID, "B", 1)
	suite.createTask(r, first.ID, "one", 0)
	suite.createTask(r, first.ID, "two", 1)
	suite.createTask(r, second.ID, "three", 0)

	w := doJSON(suite.T(), r, http.MethodDelete, fmt.Sprintf("/api/boards/%d", board.ID), nil)
	suite.Require().Equal(http.StatusNoContent, w.Code)

	var columns, tasks int64
	suite.env.db.Model(&models.Column{}).Count(&columns)
	suite.env.db.Model(&models.Task{}).Count(&tasks)
	suite.Zero(columns)
	suite.Zero(tasks)

	w = doJSON(suite.T(), r, http.MethodGet, fmt.Sprintf("/api/boards/%d", board.ID), nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

// TestUpdateColumnAndBoard tests the PATCH endpoints
func (suite *KanbanHandlerTestSuite) TestUpdateColumnAndBoard() {
	r := suite.routerFor(suite.alice)
	board := suite.createBoard(r, "Board")
	column := suite.createColumn(r, board.ID, "Todo", 0)

	w := doJSON(suite.T(), r, http.MethodPatch, fmt.Sprintf("/api/columns/%d", column.ID), map[string]interface{}{"order": 3})
	suite.Require().Equal(http.StatusOK, w.Code)
	updated := decode[dto.ColumnDTO](suite.T(), w)
	suite.Equal("Todo", updated.Title)
	suite.Equal(3, updated.Order)

	w = doJSON(suite.T(), r, http.MethodPatch, fmt.Sprintf("/api/boards/%d", board.ID), map[string]interface{}{"name": ""})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = doJSON(suite.T(), r, http.MethodGet, fmt.Sprintf("/api/boards/%d/columns", board.ID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Len(decode[[]dto.ColumnDTO](suite.T(), w), 1)

	w = doJSON(suite.T(), r, http.MethodDelete, fmt.Sprintf("/api/columns/%d", column.ID), nil)
	suite.Equal(http.StatusNoContent, w.Code)
}

// TestSuggestTasks_NotConfigured tests the AI endpoint without a key
func (suite *KanbanHandlerTestSuite) TestSuggestTasks_NotConfigured() {
	r := suite.routerFor(suite.alice)
	board := suite.createBoard(r, "Board")
	column := suite.createColumn(r, board.ID, "Todo", 0)

	w := doJSON(suite.T(), r, http.MethodPost, fmt.Sprintf("/api/columns/%d/suggestions", column.ID), map[string]string{"text": "buy milk"})
	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func TestKanbanHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(KanbanHandlerTestSuite))
}
