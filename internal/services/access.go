package services

import (
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
)

// AccessScope resolves hierarchy nodes to their board and admits only the
// board's owner. Missing nodes and foreign nodes produce the same error so
// callers cannot probe for existence.
type AccessScope struct {
	boardRepo  repository.BoardRepository
	columnRepo repository.ColumnRepository
	taskRepo   repository.TaskRepository
}

// NewAccessScope creates a new AccessScope
func NewAccessScope(boardRepo repository.BoardRepository, columnRepo repository.ColumnRepository, taskRepo repository.TaskRepository) *AccessScope {
	return &AccessScope{
		boardRepo:  boardRepo,
		columnRepo: columnRepo,
		taskRepo:   taskRepo,
	}
}

// CanAccess is the ownership predicate.
func CanAccess(principalID uint64, board *models.Board) bool {
	return board != nil && principalID != 0 && board.OwnerID == principalID
}

// Board returns the board when the principal owns it.
func (s *AccessScope) Board(principalID, boardID uint64) (*models.Board, error) {
	board, err := s.boardRepo.FindByID(boardID)
	if err != nil {
		return nil, notFoundOr(err, ErrPermissionDenied, "find board")
	}
	if !CanAccess(principalID, board) {
		return nil, ErrPermissionDenied
	}
	return board, nil
}

// Column returns the column and its board when the principal owns the board.
func (s *AccessScope) Column(principalID, columnID uint64) (*models.Column, *models.Board, error) {
	column, err := s.columnRepo.FindByID(columnID)
	if err != nil {
		return nil, nil, notFoundOr(err, ErrPermissionDenied, "find column")
	}
	board, err := s.Board(principalID, column.BoardID)
	if err != nil {
		return nil, nil, err
	}
	return column, board, nil
}

// Task returns the task with its column and board when the principal owns
// the board.
func (s *AccessScope) Task(principalID, taskID uint64) (*models.Task, *models.Column, error) {
	task, err := s.taskRepo.FindByID(taskID, "Tags")
	if err != nil {
		return nil, nil, notFoundOr(err, ErrPermissionDenied, "find task")
	}
	column, _, err := s.Column(principalID, task.ColumnID)
	if err != nil {
		return nil, nil, err
	}
	return task, column, nil
}
