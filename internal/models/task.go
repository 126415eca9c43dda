package models

import (
	"time"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID           uint64       `gorm:"primarykey" json:"id"`
	ColumnID     uint64       `gorm:"not null;index:idx_tasks_column_order,priority:1" json:"column_id"`
	Title        string       `gorm:"type:varchar(200);not null" json:"title"`
	Description  string       `gorm:"type:text" json:"description"`
	Priority     TaskPriority `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	Order        int          `gorm:"column:sort_order;not null;default:0;index:idx_tasks_column_order,priority:2" json:"order"`
	DueDate      *time.Time   `gorm:"type:date" json:"due_date"`
	AssignedToID *uint64      `gorm:"index" json:"assigned_to"`
	CreatedByID  *uint64      `gorm:"index" json:"created_by"`
	CreatedAt    time.Time    `json:"created_at"`

	// Relations
	Column     Column `gorm:"foreignKey:ColumnID" json:"-"`
	AssignedTo *User  `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedBy  *User  `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE" json:"-"`
	Tags       []Tag  `gorm:"many2many:task_tags;constraint:OnDelete:CASCADE" json:"tags"`
}
