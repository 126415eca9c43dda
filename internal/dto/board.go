package dto

import (
	"time"

	"github.com/yukikurage/kanban-api/internal/models"
)

// BoardDTO represents a board in list responses
type BoardDTO struct {
	ID            uint64    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	OwnerID       uint64    `json:"owner_id"`
	OwnerUsername string    `json:"owner_username"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BoardDetailDTO is the nested snapshot of a board
type BoardDetailDTO struct {
	BoardDTO
	Columns []ColumnDetailDTO `json:"columns"`
}

// ColumnDTO represents a column in API responses
type ColumnDTO struct {
	ID      uint64 `json:"id"`
	BoardID uint64 `json:"board_id"`
	Title   string `json:"title"`
	Order   int    `json:"order"`
}

// ColumnDetailDTO is a column together with its tasks
type ColumnDetailDTO struct {
	ColumnDTO
	Tasks []TaskDTO `json:"tasks"`
}

// ToBoardDTO converts a Board model to BoardDTO. Owner must be preloaded
// for owner_username to be filled.
func ToBoardDTO(board models.Board) BoardDTO {
	return BoardDTO{
		ID:            board.ID,
		Name:          board.Name,
		Description:   board.Description,
		OwnerID:       board.OwnerID,
		OwnerUsername: board.Owner.Username,
		CreatedAt:     board.CreatedAt,
		UpdatedAt:     board.UpdatedAt,
	}
}

// ToBoardDTOs converts a list of boards
func ToBoardDTOs(boards []models.Board) []BoardDTO {
	result := make([]BoardDTO, len(boards))
	for i, board := range boards {
		result[i] = ToBoardDTO(board)
	}
	return result
}

// ToBoardDetailDTO converts a board loaded with its hierarchy. The order of
// columns and tasks is kept as loaded.
func ToBoardDetailDTO(board models.Board) BoardDetailDTO {
	columns := make([]ColumnDetailDTO, len(board.Columns))
	for i, column := range board.Columns {
		columns[i] = ColumnDetailDTO{
			ColumnDTO: ToColumnDTO(column),
			Tasks:     ToTaskDTOs(column.Tasks),
		}
	}
	return BoardDetailDTO{
		BoardDTO: ToBoardDTO(board),
		Columns:  columns,
	}
}

// ToColumnDTO converts a Column model to ColumnDTO
func ToColumnDTO(column models.Column) ColumnDTO {
	return ColumnDTO{
		ID:      column.ID,
		BoardID: column.BoardID,
		Title:   column.Title,
		Order:   column.Order,
	}
}

// ToColumnDTOs converts a list of columns
func ToColumnDTOs(columns []models.Column) []ColumnDTO {
	result := make([]ColumnDTO, len(columns))
	for i, column := range columns {
		result[i] = ToColumnDTO(column)
	}
	return result
}
