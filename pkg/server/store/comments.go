package store

import (
	"errors"

	"github.com/blogplatform/blog-in-go/pkg/model"
)

// ErrCommentNotFound is returned when a comment does not exist
var ErrCommentNotFound = errors.New("comment not found")

// ErrInvalidRateAction is returned for a rating action other than like or dislike
var ErrInvalidRateAction = errors.New("invalid rate action")

// Rating actions accepted by RateComment
const (
	RateLike    = "like"
	RateDislike = "dislike"
)

// CommentsStore provides comment operations
type CommentsStore interface {
	// CreateComment inserts a new comment on a post
	CreateComment(comment *model.Comment) (*model.Comment, error)

	// CommentByID fetches a comment with its owner, likes and dislikes preloaded
	CommentByID(id int) (*model.Comment, error)

	// UpdateComment replaces the comment body and returns the fresh row
	UpdateComment(id int, body string) (*model.Comment, error)

	// DeleteComment removes a comment and its ratings
	DeleteComment(id int) error

	// RateComment toggles a like or dislike by the given user. Rating one
	// way removes the user's rating the other way.
	RateComment(commentID, userID int, action string) (*model.Comment, error)
}
