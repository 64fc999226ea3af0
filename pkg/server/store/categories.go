package store

import (
	"errors"

	"github.com/blogplatform/blog-in-go/pkg/model"
)

// ErrCategoryNotFound is returned when a category does not exist
var ErrCategoryNotFound = errors.New("category not found")

// ErrDuplicateCategory is returned when a category with the same name exists
var ErrDuplicateCategory = errors.New("category already exists")

// CategoriesStore provides post category operations
type CategoriesStore interface {
	// CreateCategory inserts a new category by name
	CreateCategory(name string) (*model.Category, error)

	// CategoryByID fetches a category with its posts preloaded
	CategoryByID(id int) (*model.Category, error)

	// CategoryByName fetches a category by exact name
	CategoryByName(name string) (*model.Category, error)

	// ListCategories returns a page of categories ordered by id
	ListCategories(skip, limit int) ([]model.Category, error)
}
