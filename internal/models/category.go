package models

import "time"

// Category groups posts by topic.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"size:1000;not null" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Posts       []Post    `gorm:"foreignKey:CategoryID" json:"-"`
}

// TableName pins the table name used by the SQL migrations.
func (Category) TableName() string {
	return "categories"
}
