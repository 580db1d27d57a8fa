package models

import "time"

type PracticeArea struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Slug    string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Name    string `gorm:"size:100;not null" json:"name"`
	Summary string `gorm:"size:300" json:"summary"`
	Body    string `gorm:"type:text" json:"body"`
	Order   int    `gorm:"column:display_order;default:0" json:"order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
