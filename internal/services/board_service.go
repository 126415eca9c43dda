package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
	"github.com/yukikurage/kanban-api/internal/utils"
)

var ErrBoardNameRequired = fmt.Errorf("%w: board name is required", ErrValidation)

// BoardService handles board business logic. Every board is visible only
// to its owner.
type BoardService struct {
	boardRepo  repository.BoardRepository
	columnRepo repository.ColumnRepository
	scope      *AccessScope
}

// NewBoardService creates a new BoardService
func NewBoardService(boardRepo repository.BoardRepository, columnRepo repository.ColumnRepository, scope *AccessScope) *BoardService {
	return &BoardService{
		boardRepo:  boardRepo,
		columnRepo: columnRepo,
		scope:      scope,
	}
}

// CreateBoardInput represents input for creating a board
type CreateBoardInput struct {
	Name        string `validate:"max=100"`
	Description string
}

// UpdateBoardInput represents input for updating a board
type UpdateBoardInput struct {
	Name        *string `validate:"omitempty,max=100"`
	Description *string
}

// CreateBoard creates a board owned by the principal.
func (s *BoardService) CreateBoard(principalID uint64, input CreateBoardInput) (*models.Board, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrBoardNameRequired
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, validationError(err.Error())
	}

	board := &models.Board{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     principalID,
	}
	if err := s.boardRepo.Create(board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	return s.boardRepo.FindByID(board.ID)
}

// ListBoards returns the boards owned by the principal.
func (s *BoardService) ListBoards(principalID uint64) ([]models.Board, error) {
	boards, err := s.boardRepo.ListByOwner(principalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

// GetBoard returns the nested snapshot of a board: columns in order, each
// with its tasks in order.
func (s *BoardService) GetBoard(principalID, boardID uint64) (*models.Board, error) {
	if _, err := s.scope.Board(principalID, boardID); err != nil {
		return nil, err
	}

	board, err := s.boardRepo.FindWithHierarchy(boardID)
	if err != nil {
		return nil, notFoundOr(err, ErrPermissionDenied, "load board")
	}
	return board, nil
}

// UpdateBoard renames or re-describes a board.
func (s *BoardService) UpdateBoard(principalID, boardID uint64, input UpdateBoardInput) (*models.Board, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, validationError(err.Error())
	}

	board, err := s.scope.Board(principalID, boardID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrBoardNameRequired
		}
		board.Name = name
	}
	if input.Description != nil {
		board.Description = *input.Description
	}
	board.UpdatedAt = time.Now()

	if err := s.boardRepo.Update(board); err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}
	return board, nil
}

// DeleteBoard deletes a board with all its columns and tasks.
func (s *BoardService) DeleteBoard(principalID, boardID uint64) error {
	if _, err := s.scope.Board(principalID, boardID); err != nil {
		return err
	}
	if err := s.boardRepo.Delete(boardID); err != nil {
		return notFoundOr(err, ErrPermissionDenied, "delete board")
	}
	return nil
}

// ListColumns lists the columns of a board in order.
func (s *BoardService) ListColumns(principalID, boardID uint64) ([]models.Column, error) {
	if _, err := s.scope.Board(principalID, boardID); err != nil {
		return nil, err
	}
	columns, err := s.columnRepo.ListByBoard(boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	return columns, nil
}
