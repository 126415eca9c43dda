package repository

import (
	"github.com/yukikurage/kanban-api/internal/models"
	"gorm.io/gorm"
)

// GormBoardRepository is a GORM implementation of BoardRepository
type GormBoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &GormBoardRepository{db: db}
}

// Create creates a new board
func (r *GormBoardRepository) Create(board *models.Board) error {
	return r.db.Omit("Owner", "Columns").Create(board).Error
}

// FindByID finds a board by ID
func (r *GormBoardRepository) FindByID(id uint64) (*models.Board, error) {
	var board models.Board
	if err := r.db.Preload("Owner").First(&board, id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

// FindWithHierarchy loads the full board tree inside one transaction so the
// nested snapshot is read consistently.
func (r *GormBoardRepository) FindWithHierarchy(id uint64) (*models.Board, error) {
	var board models.Board
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.
			Preload("Owner").
			Preload("Columns", byPosition).
			Preload("Columns.Tasks", byPosition).
			Preload("Columns.Tasks.Tags", byID).
			First(&board, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// ListByOwner lists boards owned by a user
func (r *GormBoardRepository) ListByOwner(ownerID uint64) ([]models.Board, error) {
	var boards []models.Board
	if err := r.db.Preload("Owner").
		Where("owner_id = ?", ownerID).
		Scopes(byID).
		Find(&boards).Error; err != nil {
		return nil, err
	}
	return boards, nil
}

// Update updates a board's editable fields and refreshes updated_at
func (r *GormBoardRepository) Update(board *models.Board) error {
	return r.db.Model(board).Select("name", "description", "updated_at").Updates(board).Error
}

// Delete deletes a board and everything below it in a transaction
func (r *GormBoardRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		columnIDs := tx.Model(&models.Column{}).Select("id").Where("board_id = ?", id)
		if err := deleteTasksWhere(tx, "column_id IN (?)", columnIDs); err != nil {
			return err
		}

		if err := tx.Where("board_id = ?", id).Delete(&models.Column{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Board{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
