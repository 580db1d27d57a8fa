package httperr

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ValidationError carries field-level messages for form submissions.
// Nothing may have been written to the database when one is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation_failed"
}

func NewValidation() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func WriteValidation(c *gin.Context, ve *ValidationError) {
	c.JSON(422, gin.H{
		"error_code": "validation_failed",
		"fields":     ve.Fields,
	})
}
