package models

import "time"

// DefaultImageName is assigned to every new post until an image is uploaded.
const DefaultImageName = "default.png"

// Post represents a blog post written by a user within a category.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	ImageName  string    `gorm:"size:255" json:"imageName"`
	AddedDate  time.Time `gorm:"not null;index" json:"addedDate"`
	UserID     uint      `gorm:"not null;index" json:"userId"`
	User       User      `gorm:"foreignKey:UserID" json:"user"`
	CategoryID uint      `gorm:"not null;index" json:"categoryId"`
	Category   Category  `gorm:"foreignKey:CategoryID" json:"category"`
	Comments   []Comment `gorm:"foreignKey:PostID" json:"-"`
}
