package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/blogplatform/blog-in-go/pkg/model"
	"github.com/blogplatform/blog-in-go/pkg/server/store"
)

// CategoriesStore provides post category operations using GORM
type CategoriesStore struct {
	db *gorm.DB
}

var _ store.CategoriesStore = (*CategoriesStore)(nil)

// NewCategoriesStore creates a new CategoriesStore
func NewCategoriesStore(db *gorm.DB) *CategoriesStore {
	return &CategoriesStore{db: db}
}

// CreateCategory inserts a new category by name
func (s *CategoriesStore) CreateCategory(name string) (*model.Category, error) {
	var count int64
	if err := s.db.Model(&model.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, store.ErrDuplicateCategory
	}

	category := model.Category{Name: name}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CategoryByID fetches a category with its posts preloaded
func (s *CategoriesStore) CategoryByID(id int) (*model.Category, error) {
	var category model.Category
	err := s.db.Preload("Posts").First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// CategoryByName fetches a category by exact name
func (s *CategoriesStore) CategoryByName(name string) (*model.Category, error) {
	var category model.Category
	err := s.db.Where("name = ?", name).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// ListCategories returns a page of categories ordered by id
func (s *CategoriesStore) ListCategories(skip, limit int) ([]model.Category, error) {
	var categories []model.Category
	err := s.db.Preload("Posts").Order("id").Offset(skip).Limit(limit).Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
