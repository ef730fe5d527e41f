package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/inkwell/internal/db"
	"github.com/inkwell-cms/inkwell/internal/models"
	"github.com/inkwell-cms/inkwell/pkg/logging"
)

// stubPostStore keeps one post and a backing view counter, handing out a
// fresh copy per read the way a real store would.
type stubPostStore struct {
	post       models.Post
	views      int64
	increments int
}

func (s *stubPostStore) List(_ context.Context, _ db.PostFilter) ([]*models.Post, int64, error) {
	return nil, 0, nil
}

func (s *stubPostStore) GetByID(_ context.Context, id int64) (*models.Post, error) {
	if id != s.post.ID {
		return nil, nil
	}
	p := s.post
	p.Views = s.views
	return &p, nil
}

func (s *stubPostStore) GetBySlug(_ context.Context, slug string) (*models.Post, error) {
	if slug != s.post.Slug {
		return nil, nil
	}
	p := s.post
	p.Views = s.views
	return &p, nil
}

func (s *stubPostStore) GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	if s.post.Status != models.PostStatusPublished {
		return nil, nil
	}
	return s.GetBySlug(ctx, slug)
}

func (s *stubPostStore) SlugExists(_ context.Context, _ string) (bool, error) { return false, nil }
func (s *stubPostStore) Create(_ context.Context, _ *models.Post) error       { return nil }
func (s *stubPostStore) Update(_ context.Context, _ *models.Post) error       { return nil }
func (s *stubPostStore) Delete(_ context.Context, _ int64) error              { return nil }

func (s *stubPostStore) IncrementViews(_ context.Context, _ int64) error {
	s.views++
	s.increments++
	return nil
}

type stubApprovedComments struct{}

func (stubApprovedComments) ApprovedRootsByPost(_ context.Context, _ int64) ([]*models.Comment, error) {
	return nil, nil
}

func TestPostGetIncrementsViews(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &stubPostStore{
		post: models.Post{
			ID:     1,
			Slug:   "hello-world",
			Status: models.PostStatusPublished,
		},
		views: 5,
	}
	api := &PostAPI{
		posts:    store,
		comments: stubApprovedComments{},
		logger:   logging.WithComponent("post-api"),
	}

	r := gin.New()
	r.GET("/posts/:slug", api.Get)

	fetch := func() int64 {
		req := httptest.NewRequest(http.MethodGet, "/posts/hello-world", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
		}
		var body struct {
			Post struct {
				Views int64 `json:"views"`
			} `json:"post"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		return body.Post.Views
	}

	// Stored 5 must answer 6, then 7: the response reflects the counter
	// after the increment, without a second read.
	if got := fetch(); got != 6 {
		t.Errorf("first fetch views = %d, want 6", got)
	}
	if got := fetch(); got != 7 {
		t.Errorf("second fetch views = %d, want 7", got)
	}
	if store.increments != 2 {
		t.Errorf("increments = %d, want 2", store.increments)
	}
	if store.views != 7 {
		t.Errorf("stored views = %d, want 7", store.views)
	}
}

func TestQueryLimitClamped(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{
			name:  "default when absent",
			query: "",
			want:  12,
		},
		{
			name:  "caller value within bounds",
			query: "limit=30",
			want:  30,
		},
		{
			name:  "oversized value clamped",
			query: "limit=5000",
			want:  maxPageSize,
		},
		{
			name:  "garbage falls back to default",
			query: "limit=abc",
			want:  12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/posts?"+tt.query, nil)
			if got := queryLimit(c, 12); got != tt.want {
				t.Errorf("queryLimit() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestJoinTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want string
	}{
		{
			name: "lowercased and joined",
			in:   []string{"Go", "Web"},
			want: "go,web",
		},
		{
			name: "whitespace trimmed",
			in:   []string{"  cloud  ", "devops"},
			want: "cloud,devops",
		},
		{
			name: "empty entries dropped",
			in:   []string{"", "  ", "news"},
			want: "news",
		},
		{
			name: "nil input",
			in:   nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinTags(tt.in); got != tt.want {
				t.Errorf("joinTags(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
