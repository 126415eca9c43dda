package repository

import (
	"github.com/yukikurage/kanban-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task and its tag links in a transaction
func (r *GormTaskRepository) Create(task *models.Task, tagIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}
		return linkTags(tx, task.ID, tagIDs)
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	// Apply preloading if specified
	for _, p := range preload {
		if p == "Tags" {
			query = query.Preload(p, byID)
			continue
		}
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByColumn lists the tasks of a column in display order
func (r *GormTaskRepository) ListByColumn(columnID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Preload("Tags", byID).
		Where("column_id = ?", columnID).
		Scopes(byPosition).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update writes the editable fields. column_id, sort_order and
// created_by_id are not part of the update set.
func (r *GormTaskRepository) Update(task *models.Task, tagIDs *[]uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(task).
			Select("title", "description", "priority", "due_date", "assigned_to_id").
			Updates(task).Error; err != nil {
			return err
		}

		if tagIDs == nil {
			return nil
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskTag{}).Error; err != nil {
			return err
		}
		return linkTags(tx, task.ID, *tagIDs)
	})
}

// Move relocates a task. Siblings are never renumbered; equal order values
// are left as they are and resolved by id on read.
func (r *GormTaskRepository) Move(taskID, columnID uint64, order int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Task{}, taskID); err != nil {
			return err
		}
		if err := requireRow(tx, &models.Column{}, columnID); err != nil {
			return err
		}

		return tx.Model(&models.Task{}).
			Where("id = ?", taskID).
			Updates(map[string]interface{}{
				"column_id":  columnID,
				"sort_order": order,
			}).Error
	})
}

// Delete deletes a task and its tag links
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskTag{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Task{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func linkTags(tx *gorm.DB, taskID uint64, tagIDs []uint64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	links := make([]models.TaskTag, len(tagIDs))
	for i, tagID := range tagIDs {
		links[i] = models.TaskTag{TaskID: taskID, TagID: tagID}
	}

	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}
