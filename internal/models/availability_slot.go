package models

import "time"

// AvailabilitySlot is a single bookable consultation window. Date is a
// calendar date; StartTime/EndTime are "15:04" wall-clock strings in the
// configured timezone. Past-ness is always derived from the clock, never
// stored.
type AvailabilitySlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Date      time.Time `gorm:"type:date;not null;index" json:"date"`
	StartTime string    `gorm:"size:5;not null" json:"start_time"`
	EndTime   string    `gorm:"size:5;not null" json:"end_time"`

	IsAvailable bool `gorm:"default:true" json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StartAt combines Date and StartTime into an instant in loc.
func (s *AvailabilitySlot) StartAt(loc *time.Location) time.Time {
	return combine(s.Date, s.StartTime, loc)
}

func (s *AvailabilitySlot) EndAt(loc *time.Location) time.Time {
	return combine(s.Date, s.EndTime, loc)
}

// IsInPast reports whether the slot's start instant is strictly before now.
func (s *AvailabilitySlot) IsInPast(now time.Time) bool {
	return s.StartAt(now.Location()).Before(now)
}

func combine(date time.Time, hm string, loc *time.Location) time.Time {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		t = time.Time{}
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		loc,
	)
}
