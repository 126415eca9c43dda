package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/kanban-api/internal/constants"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
	"github.com/yukikurage/kanban-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTitleRequired          = fmt.Errorf("%w: title is required", ErrValidation)
	ErrTitleTooLong           = fmt.Errorf("%w: title must be at most %d characters", ErrValidation, constants.MaxTaskTitleLength)
	ErrInvalidPriority        = fmt.Errorf("%w: priority must be one of low, medium, high", ErrValidation)
	ErrInvalidDueDate         = fmt.Errorf("%w: due_date must be a date in YYYY-MM-DD format", ErrValidation)
	ErrAssigneeNotFound       = fmt.Errorf("%w: assigned user does not exist", ErrNotFound)
	ErrSuggestionTextRequired = fmt.Errorf("%w: text is required", ErrValidation)
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not suggest any tasks")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	userRepo  repository.UserRepository
	tagRepo   repository.TagRepository
	scope     *AccessScope
	aiService *AIService
}

// NewTaskService creates a new TaskService. aiService may be nil.
func NewTaskService(
	taskRepo repository.TaskRepository,
	userRepo repository.UserRepository,
	tagRepo repository.TagRepository,
	scope *AccessScope,
	aiService *AIService,
) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		tagRepo:   tagRepo,
		scope:     scope,
		aiService: aiService,
	}
}

// CreateTaskInput represents input for creating a task. The author is not
// part of it; it is always the acting principal.
type CreateTaskInput struct {
	ColumnID    uint64
	Title       string
	Description string
	Priority    string
	Order       *int
	DueDate     *string
	AssignedTo  *uint64
	TagIDs      []uint64
}

// UpdateTaskInput represents a partial task update. TagIDs, when non-nil,
// replaces the tag set. ClearDueDate and ClearAssignee null the field.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Priority      *string
	DueDate       *string
	ClearDueDate  bool
	AssignedTo    *uint64
	ClearAssignee bool
	TagIDs        *[]uint64
}

// MoveTaskInput names the destination of a task.
type MoveTaskInput struct {
	ColumnID uint64
	Order    int
}

// GetTask returns a task the principal can access.
func (s *TaskService) GetTask(principalID, taskID uint64) (*models.Task, error) {
	task, _, err := s.scope.Task(principalID, taskID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// CreateTask creates a task in a column owned by the principal.
func (s *TaskService) CreateTask(principalID uint64, input CreateTaskInput) (*models.Task, error) {
	title, err := normalizeTitle(input.Title)
	if err != nil {
		return nil, err
	}

	priority := models.PriorityMedium
	if input.Priority != "" {
		priority = models.TaskPriority(input.Priority)
		if !priority.Valid() {
			return nil, ErrInvalidPriority
		}
	}

	if _, _, err := s.scope.Column(principalID, input.ColumnID); err != nil {
		return nil, err
	}

	task := &models.Task{
		ColumnID:    input.ColumnID,
		Title:       title,
		Description: input.Description,
		Priority:    priority,
		CreatedByID: &principalID,
	}
	if input.Order != nil {
		task.Order = *input.Order
	}

	if input.DueDate != nil {
		dueDate, err := parseDueDate(*input.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = dueDate
	}

	if input.AssignedTo != nil {
		if err := s.ensureUserExists(*input.AssignedTo); err != nil {
			return nil, err
		}
		assignee := *input.AssignedTo
		task.AssignedToID = &assignee
	}

	tagIDs, err := resolveTags(s.tagRepo, input.TagIDs)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(task, tagIDs); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Tags")
}

// UpdateTask applies a partial update. The column, order and author of a
// task cannot be changed here.
func (s *TaskService) UpdateTask(principalID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, _, err := s.scope.Task(principalID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title, err := normalizeTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		priority := models.TaskPriority(*input.Priority)
		if !priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = priority
	}

	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		dueDate, err := parseDueDate(*input.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = dueDate
	}

	if input.ClearAssignee {
		task.AssignedToID = nil
	} else if input.AssignedTo != nil {
		if err := s.ensureUserExists(*input.AssignedTo); err != nil {
			return nil, err
		}
		assignee := *input.AssignedTo
		task.AssignedToID = &assignee
	}

	var tagIDs *[]uint64
	if input.TagIDs != nil {
		ids, err := resolveTags(s.tagRepo, *input.TagIDs)
		if err != nil {
			return nil, err
		}
		tagIDs = &ids
	}

	if err := s.taskRepo.Update(task, tagIDs); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Tags")
}

// MoveTask relocates a task to a column and order. Both the current and the
// destination board must belong to the principal. Siblings are never
// renumbered; equal orders are listed by id.
func (s *TaskService) MoveTask(principalID, taskID uint64, input MoveTaskInput) (*models.Task, error) {
	if _, _, err := s.scope.Task(principalID, taskID); err != nil {
		return nil, err
	}
	if _, _, err := s.scope.Column(principalID, input.ColumnID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Move(taskID, input.ColumnID, input.Order); err != nil {
		return nil, notFoundOr(err, ErrPermissionDenied, "move task")
	}

	return s.taskRepo.FindByID(taskID, "Tags")
}

// DeleteTask deletes a task the principal can access.
func (s *TaskService) DeleteTask(principalID, taskID uint64) error {
	if _, _, err := s.scope.Task(principalID, taskID); err != nil {
		return err
	}
	if err := s.taskRepo.Delete(taskID); err != nil {
		return notFoundOr(err, ErrPermissionDenied, "delete task")
	}
	return nil
}

// SuggestTasksInput represents input for AI task suggestions
type SuggestTasksInput struct {
	ColumnID uint64
	Text     string
}

// SuggestTasks asks the AI service for task drafts for a column. Nothing is
// persisted.
func (s *TaskService) SuggestTasks(ctx context.Context, principalID uint64, input SuggestTasksInput) ([]SuggestedTask, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, ErrSuggestionTextRequired
	}
	if _, _, err := s.scope.Column(principalID, input.ColumnID); err != nil {
		return nil, err
	}
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	suggestions, err := s.aiService.SuggestTasks(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest tasks: %w", err)
	}
	if len(suggestions) > constants.MaxAISuggestedTasks {
		suggestions = suggestions[:constants.MaxAISuggestedTasks]
	}

	valid := make([]SuggestedTask, 0, len(suggestions))
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, suggestion := range suggestions {
		suggestion.Title = strings.TrimSpace(suggestion.Title)
		if suggestion.Title == "" {
			continue
		}
		if utf8.RuneCountInString(suggestion.Title) > constants.MaxTaskTitleLength {
			suggestion.Title = strings.TrimSpace(string([]rune(suggestion.Title)[:constants.MaxTaskTitleLength]))
		}
		if !models.TaskPriority(suggestion.Priority).Valid() {
			suggestion.Priority = string(models.PriorityMedium)
		}
		if suggestion.DueDate != nil {
			if due, err := utils.ParseDueDate(*suggestion.DueDate); err != nil || due.Before(today) {
				suggestion.DueDate = nil
			} else {
				formatted := due.Format(utils.DateLayout)
				suggestion.DueDate = &formatted
			}
		}
		valid = append(valid, suggestion)
	}

	if len(valid) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	return valid, nil
}

func (s *TaskService) ensureUserExists(userID uint64) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssigneeNotFound
		}
		return fmt.Errorf("failed to find assignee: %w", err)
	}
	return nil
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > constants.MaxTaskTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

func parseDueDate(value string) (*time.Time, error) {
	dueDate, err := utils.ParseDueDate(value)
	if err != nil {
		return nil, ErrInvalidDueDate
	}
	return &dueDate, nil
}
