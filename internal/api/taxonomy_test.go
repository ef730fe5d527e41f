package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-cms/inkwell/internal/models"
	"github.com/inkwell-cms/inkwell/pkg/logging"
)

// stubCategoryStore enforces the global name/slug uniqueness the real
// store's conflict query provides.
type stubCategoryStore struct {
	categories map[int64]*models.Category
	created    []*models.Category
}

func (s *stubCategoryStore) ListActive(_ context.Context) ([]*models.Category, error) {
	return nil, nil
}

func (s *stubCategoryStore) GetByID(_ context.Context, id int64) (*models.Category, error) {
	return s.categories[id], nil
}

func (s *stubCategoryStore) ExistsConflict(_ context.Context, name, slug string, excludeID int64) (bool, error) {
	for _, c := range s.categories {
		if c.ID == excludeID {
			continue
		}
		if c.Name == name || c.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubCategoryStore) Create(_ context.Context, c *models.Category) error {
	c.ID = int64(len(s.categories) + 1)
	s.categories[c.ID] = c
	s.created = append(s.created, c)
	return nil
}

func (s *stubCategoryStore) Update(_ context.Context, c *models.Category) error { return nil }
func (s *stubCategoryStore) Delete(_ context.Context, _ int64) error            { return nil }

// stubSubCategoryStore scopes slug uniqueness to the parent category.
type stubSubCategoryStore struct {
	subs    map[int64]*models.SubCategory
	created []*models.SubCategory
}

func (s *stubSubCategoryStore) List(_ context.Context, _ int64) ([]*models.SubCategory, error) {
	return nil, nil
}

func (s *stubSubCategoryStore) GetByID(_ context.Context, id int64) (*models.SubCategory, error) {
	return s.subs[id], nil
}

func (s *stubSubCategoryStore) ExistsConflict(_ context.Context, categoryID int64, slug string, excludeID int64) (bool, error) {
	for _, sub := range s.subs {
		if sub.ID == excludeID {
			continue
		}
		if sub.CategoryID == categoryID && sub.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubSubCategoryStore) Create(_ context.Context, sub *models.SubCategory) error {
	sub.ID = int64(len(s.subs) + 1)
	s.subs[sub.ID] = sub
	s.created = append(s.created, sub)
	return nil
}

func (s *stubSubCategoryStore) Update(_ context.Context, _ *models.SubCategory) error { return nil }
func (s *stubSubCategoryStore) Delete(_ context.Context, _ int64) error               { return nil }

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateCategorySlugConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cats := &stubCategoryStore{categories: map[int64]*models.Category{
		1: {ID: 1, Name: "Tech", Slug: "tech"},
	}}
	api := &TaxonomyAPI{cats: cats, logger: logging.WithComponent("taxonomy-api")}

	r := gin.New()
	r.POST("/categories", api.CreateCategory)

	if w := postJSON(r, "/categories", `{"name":"Tech"}`); w.Code != http.StatusBadRequest {
		t.Errorf("duplicate name: status = %d, want 400 (body: %s)", w.Code, w.Body.String())
	}
	// A different name deriving the same slug collides too.
	if w := postJSON(r, "/categories", `{"name":"  tech  "}`); w.Code != http.StatusBadRequest {
		t.Errorf("duplicate slug: status = %d, want 400 (body: %s)", w.Code, w.Body.String())
	}
	if w := postJSON(r, "/categories", `{"name":"News"}`); w.Code != http.StatusOK {
		t.Errorf("fresh name: status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
	if len(cats.created) != 1 || cats.created[0].Slug != "news" {
		t.Errorf("created = %+v, want exactly one category with slug news", cats.created)
	}
}

func TestSubCategorySlugUniquePerParent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cats := &stubCategoryStore{categories: map[int64]*models.Category{
		1: {ID: 1, Name: "Tech", Slug: "tech"},
		2: {ID: 2, Name: "Culture", Slug: "culture"},
	}}
	subs := &stubSubCategoryStore{subs: map[int64]*models.SubCategory{
		10: {ID: 10, Name: "News", Slug: "news", CategoryID: 1},
	}}
	api := &TaxonomyAPI{cats: cats, subcats: subs, logger: logging.WithComponent("taxonomy-api")}

	r := gin.New()
	r.POST("/subcategories", api.CreateSubCategory)

	// Same slug under the same parent collides.
	if w := postJSON(r, "/subcategories", `{"name":"News","categoryId":1}`); w.Code != http.StatusBadRequest {
		t.Errorf("same parent: status = %d, want 400 (body: %s)", w.Code, w.Body.String())
	}
	// The identical name under a different parent is allowed.
	if w := postJSON(r, "/subcategories", `{"name":"News","categoryId":2}`); w.Code != http.StatusOK {
		t.Errorf("other parent: status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
	if len(subs.created) != 1 || subs.created[0].CategoryID != 2 || subs.created[0].Slug != "news" {
		t.Errorf("created = %+v, want one subcategory news under category 2", subs.created)
	}
	// Unknown parent is a 404, not a silent create.
	if w := postJSON(r, "/subcategories", `{"name":"Essays","categoryId":99}`); w.Code != http.StatusNotFound {
		t.Errorf("missing parent: status = %d, want 404 (body: %s)", w.Code, w.Body.String())
	}
}
