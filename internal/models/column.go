package models

type Column struct {
	ID      uint64 `gorm:"primarykey" json:"id"`
	BoardID uint64 `gorm:"not null;index:idx_board_columns_order,priority:1" json:"board_id"`
	Title   string `gorm:"type:varchar(50);not null" json:"title"`
	Order   int    `gorm:"column:sort_order;not null;default:0;index:idx_board_columns_order,priority:2" json:"order"`

	// Relations
	Tasks []Task `gorm:"foreignKey:ColumnID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

// TableName avoids the COLUMNS keyword on the SQL side.
func (Column) TableName() string {
	return "board_columns"
}
