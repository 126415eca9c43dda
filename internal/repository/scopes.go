package repository

import (
	"github.com/yukikurage/kanban-api/internal/models"
	"gorm.io/gorm"
)

// byPosition orders siblings by their order value; ties break by id so
// repeated reads are stable.
func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("id ASC")
}

func byID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func columnIDsOfBoards(tx *gorm.DB, boardIDs *gorm.DB) *gorm.DB {
	return tx.Model(&models.Column{}).Select("id").Where("board_id IN (?)", boardIDs)
}

// deleteTasksWhere removes matching tasks together with their tag links.
func deleteTasksWhere(tx *gorm.DB, query string, args ...interface{}) error {
	taskIDs := tx.Model(&models.Task{}).Select("id").Where(query, args...)
	if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.TaskTag{}).Error; err != nil {
		return err
	}
	return tx.Where(query, args...).Delete(&models.Task{}).Error
}

// requireRow returns gorm.ErrRecordNotFound when no row of model has the id.
// Row counts of UPDATE statements are not used for this because MySQL
// reports unchanged rows as unaffected.
func requireRow(tx *gorm.DB, model interface{}, id uint64) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
