package model

import (
	"time"
)

const (
	MinCookingTime = 1
	MaxCookingTime = 32000
)

type Recipe struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	Image       string    `gorm:"not null" json:"image"` // storage key, set on create
	CookingTime int       `gorm:"not null" json:"cooking_time"`
	PubDate     time.Time `gorm:"autoCreateTime" json:"pub_date"` // set once, immutable
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`

	// Relationships
	Author      User               `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Tags        []RecipeTag        `gorm:"foreignKey:RecipeID" json:"-"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"-"`

	// Per-requester projection flags, filled by the service, never stored.
	IsFavorited      bool `gorm:"-" json:"is_favorited"`
	IsInShoppingCart bool `gorm:"-" json:"is_in_shopping_cart"`
}

func (Recipe) TableName() string {
	return "recipes"
}
