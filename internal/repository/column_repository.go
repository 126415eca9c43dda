package repository

import (
	"github.com/yukikurage/kanban-api/internal/models"
	"gorm.io/gorm"
)

// GormColumnRepository is a GORM implementation of ColumnRepository
type GormColumnRepository struct {
	db *gorm.DB
}

// NewColumnRepository creates a new ColumnRepository
func NewColumnRepository(db *gorm.DB) ColumnRepository {
	return &GormColumnRepository{db: db}
}

func (r *GormColumnRepository) Create(column *models.Column) error {
	return r.db.Omit("Tasks").Create(column).Error
}

func (r *GormColumnRepository) FindByID(id uint64) (*models.Column, error) {
	var column models.Column
	if err := r.db.First(&column, id).Error; err != nil {
		return nil, err
	}
	return &column, nil
}

func (r *GormColumnRepository) ListByBoard(boardID uint64) ([]models.Column, error) {
	var columns []models.Column
	if err := r.db.Where("board_id = ?", boardID).Scopes(byPosition).Find(&columns).Error; err != nil {
		return nil, err
	}
	return columns, nil
}

// Update updates title and order. The parent board is never rewritten.
func (r *GormColumnRepository) Update(column *models.Column) error {
	return r.db.Model(column).Select("title", "sort_order").Updates(column).Error
}

// Delete deletes a column with its tasks in a transaction
func (r *GormColumnRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteTasksWhere(tx, "column_id = ?", id); err != nil {
			return err
		}

		result := tx.Delete(&models.Column{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
