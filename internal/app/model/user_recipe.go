package model

import (
	"time"
)

// RelationKind discriminates the two user-recipe markings. Favorite is used
// only for listing and filtering; Shopping queues a recipe for ingredient
// aggregation.
type RelationKind string

const (
	RelationFavorite RelationKind = "favorite"
	RelationShopping RelationKind = "shopping"
)

// Valid reports whether k is one of the known relation kinds.
func (k RelationKind) Valid() bool {
	return k == RelationFavorite || k == RelationShopping
}

// UserRecipe is a (user, recipe) marking. Favorite and shopping rows share
// this table and differ only by kind; the unique index keeps each marking
// to one row per pair. Rows are inserted and deleted, never updated.
type UserRecipe struct {
	ID        uint         `gorm:"primarykey" json:"id"`
	UserID    uint         `gorm:"not null;uniqueIndex:idx_user_recipe_kind" json:"user_id"`
	RecipeID  uint         `gorm:"not null;uniqueIndex:idx_user_recipe_kind;index" json:"recipe_id"`
	Kind      RelationKind `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_recipe_kind" json:"kind"`
	CreatedAt time.Time    `json:"created_at"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
}

func (UserRecipe) TableName() string {
	return "user_recipes"
}
