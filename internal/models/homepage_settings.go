package models

import "time"

// Singleton row holding the hero content of the homepage.
type HomepageSettings struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Headline    string `gorm:"size:200" json:"headline"`
	Subheadline string `gorm:"size:300" json:"subheadline"`
	CTALabel    string `gorm:"size:100" json:"cta_label"`
	CTAUrl      string `gorm:"size:200" json:"cta_url"`

	UpdatedAt time.Time `json:"updated_at"`
}
