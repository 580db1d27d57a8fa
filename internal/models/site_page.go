package models

import "time"

type SitePage struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Slug  string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Title string `gorm:"size:200;not null" json:"title"`
	Body  string `gorm:"type:text" json:"body"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
