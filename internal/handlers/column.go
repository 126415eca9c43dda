package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/kanban-api/internal/dto"
	apierrors "github.com/yukikurage/kanban-api/internal/errors"
	"github.com/yukikurage/kanban-api/internal/services"
)

type ColumnHandler struct {
	columnService *services.ColumnService
	taskService   *services.TaskService
}

func NewColumnHandler(columnService *services.ColumnService, taskService *services.TaskService) *ColumnHandler {
	return &ColumnHandler{
		columnService: columnService,
		taskService:   taskService,
	}
}

// CreateColumn adds a column to a board
func (h *ColumnHandler) CreateColumn(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	var req dto.CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	column, err := h.columnService.CreateColumn(userID, services.CreateColumnInput{
		BoardID: req.BoardID,
		Title:   req.Title,
		Order:   req.Order,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToColumnDTO(*column))
}

// UpdateColumn changes title or order
func (h *ColumnHandler) UpdateColumn(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	columnID, ok := pathID(c, "column")
	if !ok {
		return
	}

	var req dto.UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	column, err := h.columnService.UpdateColumn(userID, columnID, services.UpdateColumnInput{
		Title: req.Title,
		Order: req.Order,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToColumnDTO(*column))
}

// DeleteColumn deletes a column with its tasks
func (h *ColumnHandler) DeleteColumn(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	columnID, ok := pathID(c, "column")
	if !ok {
		return
	}

	if err := h.columnService.DeleteColumn(userID, columnID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListTasks returns the tasks of a column in order
func (h *ColumnHandler) ListTasks(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	columnID, ok := pathID(c, "column")
	if !ok {
		return
	}

	tasks, err := h.columnService.ListTasks(userID, columnID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// SuggestTasks extracts task drafts for a column from free text using AI.
// Nothing is saved.
func (h *ColumnHandler) SuggestTasks(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	columnID, ok := pathID(c, "column")
	if !ok {
		return
	}

	var req dto.SuggestTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	suggestions, err := h.taskService.SuggestTasks(c.Request.Context(), userID, services.SuggestTasksInput{
		ColumnID: columnID,
		Text:     req.Text,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	drafts := make([]dto.SuggestedTaskDTO, len(suggestions))
	for i, s := range suggestions {
		drafts[i] = dto.SuggestedTaskDTO{
			Title:       s.Title,
			Description: s.Description,
			Priority:    s.Priority,
			DueDate:     s.DueDate,
		}
	}

	c.JSON(http.StatusOK, gin.H{"tasks": drafts})
}
