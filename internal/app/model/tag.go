package model

import (
	"time"
)

// MaxTagColor is the largest valid 24-bit RGB color value.
const MaxTagColor = 0xFFFFFF

// Tag is reference data attached to recipes for filtering. Tags are loaded
// by bulk import and read-only through the API.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"name"`
	Color     uint32    `gorm:"uniqueIndex;not null" json:"-"` // 0..0xFFFFFF, rendered as #RRGGBB
	Slug      string    `gorm:"type:varchar(200);not null" json:"slug"`
	CreatedAt time.Time `json:"-"`
}

func (Tag) TableName() string {
	return "tags"
}

// RecipeTag is the recipe<->tag join row. A recipe carries a tag at most once.
type RecipeTag struct {
	ID       uint `gorm:"primarykey" json:"id"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_recipe_tag" json:"recipe_id"`
	TagID    uint `gorm:"not null;uniqueIndex:idx_recipe_tag;index" json:"tag_id"`

	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Tag    Tag    `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"tag,omitempty"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
