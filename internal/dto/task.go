package dto

import (
	"time"

	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/utils"
)

// TagDTO represents a tag in API responses
type TagDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TaskDTO represents a task in API responses. created_by is read-only and
// has no counterpart in the task requests.
type TaskDTO struct {
	ID          uint64              `json:"id"`
	ColumnID    uint64              `json:"column_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	Order       int                 `json:"order"`
	DueDate     *string             `json:"due_date"`
	AssignedTo  *uint64             `json:"assigned_to"`
	CreatedBy   *uint64             `json:"created_by"`
	CreatedAt   time.Time           `json:"created_at"`
	Tags        []TagDTO            `json:"tags"`
}

// SuggestedTaskDTO is a task draft that has not been saved
type SuggestedTaskDTO struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date"`
}

// ToTagDTO converts a Tag model to TagDTO
func ToTagDTO(tag models.Tag) TagDTO {
	return TagDTO{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
	}
}

// ToTagDTOs converts a list of tags
func ToTagDTOs(tags []models.Tag) []TagDTO {
	result := make([]TagDTO, len(tags))
	for i, tag := range tags {
		result[i] = ToTagDTO(tag)
	}
	return result
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		ColumnID:    task.ColumnID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Order:       task.Order,
		DueDate:     utils.FormatDate(task.DueDate),
		AssignedTo:  task.AssignedToID,
		CreatedBy:   task.CreatedByID,
		CreatedAt:   task.CreatedAt,
		Tags:        ToTagDTOs(task.Tags),
	}
}

// ToTaskDTOs converts a list of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	result := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		result[i] = ToTaskDTO(task)
	}
	return result
}
