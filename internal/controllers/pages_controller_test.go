package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mattn/go-sqlite3"

	"github.com/flowbenchhq/flowbench/internal/domain"
)

// MockPageStore implements PageStore for testing
type MockPageStore struct {
	SaveFunc       func(page *domain.Page) (int64, error)
	FindBySlugFunc func(slug string) (*domain.Page, error)
	FindAllFunc    func() (*[]domain.Page, error)
}

func (m *MockPageStore) Save(page *domain.Page) (int64, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(page)
	}
	return 1, nil
}
func (m *MockPageStore) FindBySlug(slug string) (*domain.Page, error) {
	if m.FindBySlugFunc != nil {
		return m.FindBySlugFunc(slug)
	}
	return nil, nil
}
func (m *MockPageStore) FindAll() (*[]domain.Page, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc()
	}
	return &[]domain.Page{}, nil
}

func TestPagesController_CreatePage_DerivesSlug(t *testing.T) {
	var saved *domain.Page
	store := &MockPageStore{
		SaveFunc: func(page *domain.Page) (int64, error) {
			saved = page
			return 4, nil
		},
	}
	c := NewPagesController(store, &MockUserRepo{})

	body := `{"title": "Hello World!", "body": "welcome"}`
	req := httptest.NewRequest("POST", "/api/pages", strings.NewReader(body))
	w := httptest.NewRecorder()

	c.handleCreatePage(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if saved.Slug != "hello-world" {
		t.Errorf("Slug = %q, want hello-world", saved.Slug)
	}
	var resp domain.Page
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Slug != "hello-world" {
		t.Errorf("Response slug = %q", resp.Slug)
	}
}

func TestPagesController_CreatePage_SlugConflict(t *testing.T) {
	store := &MockPageStore{
		SaveFunc: func(page *domain.Page) (int64, error) {
			return 0, sqlite3.Error{
				Code:         sqlite3.ErrConstraint,
				ExtendedCode: sqlite3.ErrConstraintUnique,
			}
		},
	}
	c := NewPagesController(store, &MockUserRepo{})

	body := `{"title": "Taken"}`
	req := httptest.NewRequest("POST", "/api/pages", strings.NewReader(body))
	w := httptest.NewRecorder()

	c.handleCreatePage(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", w.Code)
	}
}

func TestPagesController_CreatePage_RequiresUsableTitle(t *testing.T) {
	c := NewPagesController(&MockPageStore{}, &MockUserRepo{})

	for _, body := range []string{
		`{}`,
		`{"title": "!!!"}`,
	} {
		req := httptest.NewRequest("POST", "/api/pages", strings.NewReader(body))
		w := httptest.NewRecorder()
		c.handleCreatePage(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Body %s: expected 400, got %d", body, w.Code)
		}
	}
}
