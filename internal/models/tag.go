package models

// Tag names are not unique; identity is the surrogate id.
type Tag struct {
	ID    uint64 `gorm:"primarykey" json:"id"`
	Name  string `gorm:"type:varchar(30);not null" json:"name"`
	Color string `gorm:"type:varchar(20);not null;default:'blue'" json:"color"`
}
