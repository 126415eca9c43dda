package models

// TaskTag is the join row of the task/tag many-to-many relation.
type TaskTag struct {
	TaskID uint64 `gorm:"primarykey" json:"task_id"`
	TagID  uint64 `gorm:"primarykey" json:"tag_id"`
}
