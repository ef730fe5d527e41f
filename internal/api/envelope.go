package api

import "github.com/gin-gonic/gin"

// respond writes the uniform response envelope: {success, message, ...payload}.
// Success is derived from the HTTP status.
func respond(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{
		"success": status < 400,
		"message": message,
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// fail writes an error envelope and stops further handlers.
func fail(c *gin.Context, status int, message string) {
	respond(c, status, message, nil)
	c.Abort()
}

// Pagination is the envelope attached alongside every paginated list.
type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

// NewPagination computes the pagination envelope for a page of results.
// Non-positive page or limit values are normalized first.
func NewPagination(page, limit int, total int64) Pagination {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 1
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}
