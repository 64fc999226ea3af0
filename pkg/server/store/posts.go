package store

import (
	"errors"

	"github.com/blogplatform/blog-in-go/pkg/model"
)

// ErrPostNotFound is returned when a post does not exist
var ErrPostNotFound = errors.New("post not found")

// ErrDuplicateTitle is returned when a post with the same title exists
var ErrDuplicateTitle = errors.New("post title already exists")

// Sort orders accepted by ListPosts
const (
	PostSortCreatedAsc   = "created_asc"
	PostSortCreatedDesc  = "created_desc"
	PostSortRatingAsc    = "rating_asc"
	PostSortRatingDesc   = "rating_desc"
	PostSortCommentsAsc  = "post_comments_asc"
	PostSortCommentsDesc = "post_comments_desc"
)

// ValidPostSort reports whether sortBy is an accepted sort order
func ValidPostSort(sortBy string) bool {
	switch sortBy {
	case PostSortCreatedAsc, PostSortCreatedDesc,
		PostSortRatingAsc, PostSortRatingDesc,
		PostSortCommentsAsc, PostSortCommentsDesc:
		return true
	}
	return false
}

// PostsFilter narrows and pages the post listing
type PostsFilter struct {
	Category string
	Skip     int
	Limit    int
	SortBy   string
}

// PostsStore provides blog post operations
type PostsStore interface {
	// CreatePost inserts a new post
	CreatePost(post *model.Post) (*model.Post, error)

	// PostByID fetches a post with its owner, category and comments preloaded
	PostByID(id int) (*model.Post, error)

	// PostByTitle fetches a post by exact title
	PostByTitle(title string) (*model.Post, error)

	// ListPosts returns published posts matching the filter
	ListPosts(filter PostsFilter) ([]model.Post, error)

	// UpdatePost applies the given column updates and returns the fresh row
	UpdatePost(id int, updates map[string]interface{}) (*model.Post, error)

	// DeletePost removes a post and its comments
	DeletePost(id int) error
}
