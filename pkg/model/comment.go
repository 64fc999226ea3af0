package model

import "time"

// Comment represents a comment left on a post
type Comment struct {
	ID       int       `gorm:"column:id;primaryKey"`
	Body     string    `gorm:"column:body;not null"`
	PostID   int       `gorm:"column:post_id"`
	Post     *Post     `gorm:"foreignKey:PostID"`
	OwnerID  int       `gorm:"column:owner_id"`
	Owner    *User     `gorm:"foreignKey:OwnerID"`
	Likes    []User    `gorm:"many2many:likes;joinForeignKey:comment_id;joinReferences:user_id"`
	Dislikes []User    `gorm:"many2many:dislikes;joinForeignKey:comment_id;joinReferences:user_id"`
	Created  time.Time `gorm:"column:created;autoCreateTime"`
	Updated  time.Time `gorm:"column:updated;autoUpdateTime"`
}

func (Comment) TableName() string {
	return "comments"
}

// Like is a row in the likes association table
type Like struct {
	ID        int `gorm:"column:id;primaryKey"`
	CommentID int `gorm:"column:comment_id;not null"`
	UserID    int `gorm:"column:user_id;not null"`
}

func (Like) TableName() string {
	return "likes"
}

// Dislike is a row in the dislikes association table
type Dislike struct {
	ID        int `gorm:"column:id;primaryKey"`
	CommentID int `gorm:"column:comment_id;not null"`
	UserID    int `gorm:"column:user_id;not null"`
}

func (Dislike) TableName() string {
	return "dislikes"
}
