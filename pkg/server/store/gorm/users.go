package gorm

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/blogplatform/blog-in-go/pkg/model"
	"github.com/blogplatform/blog-in-go/pkg/server/store"
)

// UsersStore provides user account operations using GORM
type UsersStore struct {
	db *gorm.DB
}

var _ store.UsersStore = (*UsersStore)(nil)

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

// CreateUser inserts a new user. The password must already be hashed.
func (s *UsersStore) CreateUser(user *model.User) (*model.User, error) {
	var count int64
	if err := s.db.Model(&model.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, store.ErrDuplicateUsername
	}
	if err := s.db.Model(&model.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, store.ErrDuplicateEmail
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// UserByID fetches a user by primary key
func (s *UsersStore) UserByID(id int) (*model.User, error) {
	var user model.User
	err := s.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UserByUsername fetches a user by username
func (s *UsersStore) UserByUsername(username string) (*model.User, error) {
	var user model.User
	err := s.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UserByEmail fetches a user by email address
func (s *UsersStore) UserByEmail(email string) (*model.User, error) {
	var user model.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListUsers returns a page of users ordered by id
func (s *UsersStore) ListUsers(skip, limit int) ([]model.User, error) {
	var users []model.User
	err := s.db.Order("id").Offset(skip).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser applies the given column updates and returns the fresh row
func (s *UsersStore) UpdateUser(id int, updates map[string]interface{}) (*model.User, error) {
	result := s.db.Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, store.ErrUserNotFound
	}
	return s.UserByID(id)
}

// DeleteUser removes a user and everything owned by them
func (s *UsersStore) DeleteUser(id int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrUserNotFound
			}
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Dislike{}).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"DELETE FROM likes WHERE comment_id IN (SELECT id FROM comments WHERE owner_id = ?)", id,
		).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"DELETE FROM dislikes WHERE comment_id IN (SELECT id FROM comments WHERE owner_id = ?)", id,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"DELETE FROM comments WHERE post_id IN (SELECT id FROM posts WHERE owner_id = ?)", id,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", id).Delete(&model.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

// UserPosts returns the posts owned by a user, newest first
func (s *UsersStore) UserPosts(userID int, filter store.UserPostsFilter) ([]model.Post, error) {
	query := s.db.Model(&model.Post{}).
		Preload("Category").
		Where("owner_id = ?", userID)

	if len(filter.Tags) > 0 {
		query = query.Where("tags @> ?", pq.Array(filter.Tags))
	}
	if filter.Category != "" {
		query = query.Joins("JOIN postcategories ON postcategories.id = posts.category_id").
			Where("postcategories.name = ?", filter.Category)
	}
	if filter.IsPublish != nil {
		query = query.Where("is_publish = ?", *filter.IsPublish)
	}
	if filter.MinRating != nil {
		query = query.Where("posts.rating >= ?", *filter.MinRating)
	}

	var posts []model.Post
	err := query.Order("created DESC").Offset(filter.Skip).Limit(filter.Limit).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// UserComments returns the comments owned by a user
func (s *UsersStore) UserComments(userID int, filter store.UserCommentsFilter) ([]model.Comment, error) {
	query := s.db.Model(&model.Comment{}).
		Preload("Post").
		Preload("Likes").
		Preload("Dislikes").
		Where("comments.owner_id = ?", userID)

	switch filter.RateStatus {
	case store.RateLike:
		query = query.Joins("JOIN likes ON likes.comment_id = comments.id").Distinct()
	case store.RateDislike:
		query = query.Joins("JOIN dislikes ON dislikes.comment_id = comments.id").Distinct()
	}

	var comments []model.Comment
	err := query.Order("comments.created DESC").Offset(filter.Skip).Limit(filter.Limit).Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}
