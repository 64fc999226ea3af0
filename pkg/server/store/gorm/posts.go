package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/blogplatform/blog-in-go/pkg/model"
	"github.com/blogplatform/blog-in-go/pkg/server/store"
)

// PostsStore provides blog post operations using GORM
type PostsStore struct {
	db *gorm.DB
}

var _ store.PostsStore = (*PostsStore)(nil)

// NewPostsStore creates a new PostsStore
func NewPostsStore(db *gorm.DB) *PostsStore {
	return &PostsStore{db: db}
}

// CreatePost inserts a new post
func (s *PostsStore) CreatePost(post *model.Post) (*model.Post, error) {
	var count int64
	if err := s.db.Model(&model.Post{}).Where("title = ?", post.Title).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, store.ErrDuplicateTitle
	}

	if err := s.db.Create(post).Error; err != nil {
		return nil, err
	}
	return s.PostByID(post.ID)
}

// PostByID fetches a post with its owner, category and comments preloaded
func (s *PostsStore) PostByID(id int) (*model.Post, error) {
	var post model.Post
	err := s.db.
		Preload("Category").
		Preload("Owner").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created DESC")
		}).
		Preload("Comments.Owner").
		Preload("Comments.Likes").
		Preload("Comments.Dislikes").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// PostByTitle fetches a post by exact title
func (s *PostsStore) PostByTitle(title string) (*model.Post, error) {
	var post model.Post
	err := s.db.Where("title = ?", title).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// ListPosts returns published posts matching the filter
func (s *PostsStore) ListPosts(filter store.PostsFilter) ([]model.Post, error) {
	query := s.db.Model(&model.Post{}).
		Preload("Category").
		Preload("Owner").
		Preload("Comments").
		Preload("Comments.Owner").
		Preload("Comments.Likes").
		Preload("Comments.Dislikes").
		Where("is_publish = ?", true)

	if filter.Category != "" {
		query = query.Joins("JOIN postcategories ON postcategories.id = posts.category_id").
			Where("postcategories.name = ?", filter.Category)
	}

	switch filter.SortBy {
	case store.PostSortCreatedAsc:
		query = query.Order("posts.created")
	case store.PostSortRatingAsc:
		query = query.Order("posts.rating")
	case store.PostSortRatingDesc:
		query = query.Order("posts.rating DESC")
	case store.PostSortCommentsAsc:
		query = query.Order("(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id)")
	case store.PostSortCommentsDesc:
		query = query.Order("(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) DESC")
	default:
		query = query.Order("posts.created DESC")
	}

	var posts []model.Post
	err := query.Offset(filter.Skip).Limit(filter.Limit).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost applies the given column updates and returns the fresh row
func (s *PostsStore) UpdatePost(id int, updates map[string]interface{}) (*model.Post, error) {
	result := s.db.Model(&model.Post{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, store.ErrPostNotFound
	}
	return s.PostByID(id)
}

// DeletePost removes a post and its comments
func (s *PostsStore) DeletePost(id int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrPostNotFound
			}
			return err
		}

		if err := tx.Exec(
			"DELETE FROM likes WHERE comment_id IN (SELECT id FROM comments WHERE post_id = ?)", id,
		).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"DELETE FROM dislikes WHERE comment_id IN (SELECT id FROM comments WHERE post_id = ?)", id,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}
