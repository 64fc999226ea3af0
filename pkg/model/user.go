package model

import (
	"time"

	"github.com/lib/pq"
)

// User roles. Staff roles may manage content owned by other users.
const (
	RoleAdmin       = "admin"
	RoleModerator   = "moderator"
	RoleRegularUser = "regular-user"
)

// User represents a registered account
type User struct {
	ID               int            `gorm:"column:id;primaryKey"`
	Username         string         `gorm:"column:username;not null"`
	Role             string         `gorm:"column:role;not null"`
	FirstName        string         `gorm:"column:first_name"`
	LastName         string         `gorm:"column:last_name"`
	Image            string         `gorm:"column:image"`
	Gender           string         `gorm:"column:gender"`
	DateOfBirth      *time.Time     `gorm:"column:date_of_birth"`
	Email            string         `gorm:"column:email;not null"`
	HashedPassword   string         `gorm:"column:hashed_password"`
	IsActive         bool           `gorm:"column:is_active"`
	LastLogin        *time.Time     `gorm:"column:last_login"`
	DateJoined       time.Time      `gorm:"column:date_joined;autoCreateTime"`
	Rating           int            `gorm:"column:rating"`
	About            string         `gorm:"column:about"`
	SocialMediaLinks pq.StringArray `gorm:"column:social_media_links;type:varchar(2083)[]"`
}

func (User) TableName() string {
	return "users"
}

// IsStaff reports whether the user may manage content owned by others.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleModerator
}
