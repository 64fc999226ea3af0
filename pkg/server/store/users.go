package store

import (
	"errors"

	"github.com/blogplatform/blog-in-go/pkg/model"
)

// ErrUserNotFound is returned when a user does not exist
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateUsername is returned when the username is already taken
var ErrDuplicateUsername = errors.New("username already registered")

// ErrDuplicateEmail is returned when the email is already registered
var ErrDuplicateEmail = errors.New("email already registered")

// UserPostsFilter narrows the posts returned for a single user
type UserPostsFilter struct {
	Tags      []string
	Category  string
	IsPublish *bool
	MinRating *int
	Skip      int
	Limit     int
}

// UserCommentsFilter narrows the comments returned for a single user.
// RateStatus is "like" or "dislike"; empty means no rating filter.
type UserCommentsFilter struct {
	RateStatus string
	Skip       int
	Limit      int
}

// UsersStore provides user account operations
type UsersStore interface {
	// CreateUser inserts a new user. The password must already be hashed.
	CreateUser(user *model.User) (*model.User, error)

	// UserByID fetches a user by primary key
	UserByID(id int) (*model.User, error)

	// UserByUsername fetches a user by username
	UserByUsername(username string) (*model.User, error)

	// UserByEmail fetches a user by email address
	UserByEmail(email string) (*model.User, error)

	// ListUsers returns a page of users ordered by id
	ListUsers(skip, limit int) ([]model.User, error)

	// UpdateUser applies the given column updates and returns the fresh row
	UpdateUser(id int, updates map[string]interface{}) (*model.User, error)

	// DeleteUser removes a user and everything owned by them
	DeleteUser(id int) error

	// UserPosts returns the posts owned by a user, newest first
	UserPosts(userID int, filter UserPostsFilter) ([]model.Post, error)

	// UserComments returns the comments owned by a user
	UserComments(userID int, filter UserCommentsFilter) ([]model.Comment, error)
}
