package model

// Amount and cooking-time bounds shared by recipe validation.
const (
	MinAmount = 1
	MaxAmount = 32000
)

// Ingredient is reference data. Names are deliberately NOT unique: the same
// name may appear with different measurement units ("sugar"/"g" and
// "sugar"/"tbsp" are separate rows).
type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"type:varchar(200);index;not null" json:"name"`
	MeasurementUnit string `gorm:"type:varchar(200);not null" json:"measurement_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// RecipeIngredient is the recipe<->ingredient join row carrying the amount.
// An ingredient appears at most once per recipe with a single summed amount.
type RecipeIngredient struct {
	ID           uint `gorm:"primarykey" json:"id"`
	RecipeID     uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_recipe_ingredient;index" json:"ingredient_id"`
	Amount       int  `gorm:"not null" json:"amount"` // bounded 1..32000, enforced in service

	Recipe     Recipe     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
