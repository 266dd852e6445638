package model

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin" // moderator: may edit or delete any recipe
)

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FirstName    string    `gorm:"type:varchar(150);not null" json:"first_name"`
	LastName     string    `gorm:"type:varchar(150);not null" json:"last_name"`
	Role         UserRole  `gorm:"type:varchar(20);default:'user'" json:"role"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	DateJoined   time.Time `gorm:"autoCreateTime" json:"date_joined"`

	// Relationships
	Recipes []Recipe `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// IsModerator reports whether the user may mutate resources they do not own.
func (u *User) IsModerator() bool {
	return u.IsActive && u.Role == RoleAdmin
}

// Subscription is a directed edge in the author-subscription graph:
// user follows author. One edge per (user, author) pair; self-edges are
// not blocked, matching the permissive upstream behavior.
type Subscription struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_subscription_user_author" json:"user_id"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_subscription_user_author" json:"author_id"`
	CreatedAt time.Time `json:"created_at"`

	User   User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Author User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
