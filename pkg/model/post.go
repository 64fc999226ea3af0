package model

import (
	"time"

	"github.com/lib/pq"
)

// Post represents a blog post written by a user
type Post struct {
	ID         int            `gorm:"column:id;primaryKey"`
	Title      string         `gorm:"column:title;not null"`
	Body       string         `gorm:"column:body;not null"`
	Tags       pq.StringArray `gorm:"column:tags;type:varchar(30)[];not null"`
	CategoryID int            `gorm:"column:category_id"`
	Category   *Category      `gorm:"foreignKey:CategoryID"`
	OwnerID    int            `gorm:"column:owner_id"`
	Owner      *User          `gorm:"foreignKey:OwnerID"`
	Rating     int            `gorm:"column:rating"`
	IsPublish  bool           `gorm:"column:is_publish"`
	Comments   []Comment      `gorm:"foreignKey:PostID"`
	Created    time.Time      `gorm:"column:created;autoCreateTime"`
	Updated    time.Time      `gorm:"column:updated;autoUpdateTime"`
}

func (Post) TableName() string {
	return "posts"
}
