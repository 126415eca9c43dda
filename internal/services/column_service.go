package services

import (
	"fmt"
	"strings"

	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
	"github.com/yukikurage/kanban-api/internal/utils"
)

var ErrColumnTitleRequired = fmt.Errorf("%w: column title is required", ErrValidation)

// ColumnService handles column business logic
type ColumnService struct {
	columnRepo repository.ColumnRepository
	taskRepo   repository.TaskRepository
	scope      *AccessScope
}

// NewColumnService creates a new ColumnService
func NewColumnService(columnRepo repository.ColumnRepository, taskRepo repository.TaskRepository, scope *AccessScope) *ColumnService {
	return &ColumnService{
		columnRepo: columnRepo,
		taskRepo:   taskRepo,
		scope:      scope,
	}
}

// CreateColumnInput represents input for creating a column. A nil Order
// means 0; colliding orders are allowed.
type CreateColumnInput struct {
	BoardID uint64
	Title   string `validate:"max=50"`
	Order   *int
}

// UpdateColumnInput represents input for updating a column
type UpdateColumnInput struct {
	Title *string `validate:"omitempty,max=50"`
	Order *int
}

// CreateColumn adds a column to a board owned by the principal.
func (s *ColumnService) CreateColumn(principalID uint64, input CreateColumnInput) (*models.Column, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, ErrColumnTitleRequired
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, validationError(err.Error())
	}

	if _, err := s.scope.Board(principalID, input.BoardID); err != nil {
		return nil, err
	}

	column := &models.Column{
		BoardID: input.BoardID,
		Title:   input.Title,
	}
	if input.Order != nil {
		column.Order = *input.Order
	}

	if err := s.columnRepo.Create(column); err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}
	return column, nil
}

// UpdateColumn changes the title or the order of a column.
func (s *ColumnService) UpdateColumn(principalID, columnID uint64, input UpdateColumnInput) (*models.Column, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, validationError(err.Error())
	}

	column, _, err := s.scope.Column(principalID, columnID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrColumnTitleRequired
		}
		column.Title = title
	}
	if input.Order != nil {
		column.Order = *input.Order
	}

	if err := s.columnRepo.Update(column); err != nil {
		return nil, fmt.Errorf("failed to update column: %w", err)
	}
	return column, nil
}

// DeleteColumn deletes a column and every task in it.
func (s *ColumnService) DeleteColumn(principalID, columnID uint64) error {
	if _, _, err := s.scope.Column(principalID, columnID); err != nil {
		return err
	}
	if err := s.columnRepo.Delete(columnID); err != nil {
		return notFoundOr(err, ErrPermissionDenied, "delete column")
	}
	return nil
}

// ListTasks lists the tasks of a column in order.
func (s *ColumnService) ListTasks(principalID, columnID uint64) ([]models.Task, error) {
	if _, _, err := s.scope.Column(principalID, columnID); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListByColumn(columnID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}
