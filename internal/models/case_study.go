package models

import "time"

type CaseStudy struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Slug     string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Title    string `gorm:"size:200;not null" json:"title"`
	Summary  string `gorm:"size:300" json:"summary"`
	Body     string `gorm:"type:text" json:"body"`
	CoverURL string `gorm:"size:300" json:"cover_url"`

	Published   bool       `gorm:"default:false" json:"published"`
	PublishedAt *time.Time `json:"published_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
