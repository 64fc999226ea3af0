package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/blogplatform/blog-in-go/pkg/model"
	"github.com/blogplatform/blog-in-go/pkg/server/store"
)

// CommentsStore provides comment operations using GORM
type CommentsStore struct {
	db *gorm.DB
}

var _ store.CommentsStore = (*CommentsStore)(nil)

// NewCommentsStore creates a new CommentsStore
func NewCommentsStore(db *gorm.DB) *CommentsStore {
	return &CommentsStore{db: db}
}

// CreateComment inserts a new comment on a post
func (s *CommentsStore) CreateComment(comment *model.Comment) (*model.Comment, error) {
	var count int64
	if err := s.db.Model(&model.Post{}).Where("id = ?", comment.PostID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, store.ErrPostNotFound
	}

	if err := s.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return s.CommentByID(comment.ID)
}

// CommentByID fetches a comment with its owner, likes and dislikes preloaded
func (s *CommentsStore) CommentByID(id int) (*model.Comment, error) {
	var comment model.Comment
	err := s.db.
		Preload("Owner").
		Preload("Likes").
		Preload("Dislikes").
		First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// UpdateComment replaces the comment body and returns the fresh row
func (s *CommentsStore) UpdateComment(id int, body string) (*model.Comment, error) {
	result := s.db.Model(&model.Comment{}).Where("id = ?", id).Update("body", body)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, store.ErrCommentNotFound
	}
	return s.CommentByID(id)
}

// DeleteComment removes a comment and its ratings
func (s *CommentsStore) DeleteComment(id int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var comment model.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrCommentNotFound
			}
			return err
		}

		if err := tx.Where("comment_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id = ?", id).Delete(&model.Dislike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
}

// RateComment toggles a like or dislike by the given user. Rating one way
// removes the user's rating the other way.
func (s *CommentsStore) RateComment(commentID, userID int, action string) (*model.Comment, error) {
	if action != store.RateLike && action != store.RateDislike {
		return nil, store.ErrInvalidRateAction
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var comment model.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrCommentNotFound
			}
			return err
		}

		switch action {
		case store.RateLike:
			result := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&model.Like{})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				// Already liked, so the action is a retraction
				return nil
			}
			if err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
				Delete(&model.Dislike{}).Error; err != nil {
				return err
			}
			return tx.Create(&model.Like{CommentID: commentID, UserID: userID}).Error
		default:
			result := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&model.Dislike{})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				return nil
			}
			if err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
				Delete(&model.Like{}).Error; err != nil {
				return err
			}
			return tx.Create(&model.Dislike{CommentID: commentID, UserID: userID}).Error
		}
	})
	if err != nil {
		return nil, err
	}
	return s.CommentByID(commentID)
}
