package models

// Address is the postal address of a user. It lives in the Address
// service's own database and references the user only by id.
type Address struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Lane1  string `gorm:"size:255;not null" json:"lane1"`
	Lane2  string `gorm:"size:255" json:"lane2"`
	City   string `gorm:"size:100;not null" json:"city"`
	State  string `gorm:"size:100;not null" json:"state"`
	Zip    int    `gorm:"not null" json:"zip"`
	UserID uint   `gorm:"not null;uniqueIndex" json:"userId"`
}
