package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRespondEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respond(c, http.StatusOK, "done", gin.H{"value": 7})

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if body["message"] != "done" {
		t.Errorf("message = %v, want done", body["message"])
	}
	if body["value"] != float64(7) {
		t.Errorf("value = %v, want 7", body["value"])
	}
}

func TestFailEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	fail(c, http.StatusNotFound, "Post not found")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if !c.IsAborted() {
		t.Error("fail() should abort the handler chain")
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		limit    int
		total    int64
		expected Pagination
	}{
		{
			name:  "first of three pages",
			page:  1,
			limit: 10,
			total: 25,
			expected: Pagination{
				Page: 1, Limit: 10, Total: 25, Pages: 3,
				HasNext: true, HasPrev: false,
			},
		},
		{
			name:  "middle page",
			page:  2,
			limit: 10,
			total: 25,
			expected: Pagination{
				Page: 2, Limit: 10, Total: 25, Pages: 3,
				HasNext: true, HasPrev: true,
			},
		},
		{
			name:  "last page",
			page:  3,
			limit: 10,
			total: 25,
			expected: Pagination{
				Page: 3, Limit: 10, Total: 25, Pages: 3,
				HasNext: false, HasPrev: true,
			},
		},
		{
			name:  "exact division",
			page:  2,
			limit: 5,
			total: 10,
			expected: Pagination{
				Page: 2, Limit: 5, Total: 10, Pages: 2,
				HasNext: false, HasPrev: true,
			},
		},
		{
			name:  "empty result",
			page:  1,
			limit: 10,
			total: 0,
			expected: Pagination{
				Page: 1, Limit: 10, Total: 0, Pages: 0,
				HasNext: false, HasPrev: false,
			},
		},
		{
			name:  "invalid page and limit normalized",
			page:  0,
			limit: 0,
			total: 3,
			expected: Pagination{
				Page: 1, Limit: 1, Total: 3, Pages: 3,
				HasNext: true, HasPrev: false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPagination(tt.page, tt.limit, tt.total)
			if got != tt.expected {
				t.Errorf("NewPagination() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}
