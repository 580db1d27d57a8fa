package models

import (
	"encoding/json"
	"time"
)

// IntakeSession is a free-text enquiry captured before any booking.
// Token is the only identifier exposed outside the owner area.
type IntakeSession struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Token string `gorm:"size:36;uniqueIndex;not null" json:"token"`

	Name    string `gorm:"size:100" json:"name"`
	Email   string `gorm:"size:100" json:"email"`
	RawText string `gorm:"type:text;not null" json:"raw_text"`

	// nil = not yet triaged. Once set, automated triage never overwrites it.
	IsSuitable *bool `json:"is_suitable"`

	// Raw AI results. Triage writes under the "triage" key; the full
	// analysis replaces the whole document except that key.
	StructuredOutput string `gorm:"type:jsonb" json:"structured_output"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StructuredMap decodes StructuredOutput, returning an empty map when the
// column is empty or holds invalid JSON.
func (s *IntakeSession) StructuredMap() map[string]json.RawMessage {
	out := map[string]json.RawMessage{}
	if s.StructuredOutput == "" {
		return out
	}
	_ = json.Unmarshal([]byte(s.StructuredOutput), &out)
	return out
}

func (s *IntakeSession) SetStructuredMap(m map[string]json.RawMessage) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	s.StructuredOutput = string(b)
	return nil
}
