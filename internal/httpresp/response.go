// Package httpresp holds the success-side response envelopes shared by
// the public content endpoints (practice areas, blog posts, case studies).
package httpresp

import "github.com/gin-gonic/gin"

// ListResponse wraps collection payloads with their length so front-end
// lists never have to guess at emptiness vs. absence.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func OK(c *gin.Context, data any) {
	c.JSON(200, data)
}

func List[T any](c *gin.Context, data []T) {
	c.JSON(200, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}
