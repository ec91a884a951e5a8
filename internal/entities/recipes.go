package entities

import (
	"time"
)

// User is an account that can log in and publish recipes.
// The username is unique case-insensitively (COLLATE NOCASE at the column level).
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"type:text collate nocase;uniqueIndex;not null;size:100" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	ProfileImage string    `gorm:"size:1024" json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	Recipes []Recipe `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

type Recipe struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:256" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Time        string    `gorm:"not null;size:100" json:"time"` // free-text cook-time label, e.g. "45 min"
	AuthorID    uint      `gorm:"index;not null" json:"author_id"`
	ImagePath   string    `gorm:"size:1024" json:"image_path,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	Author      User         `gorm:"foreignKey:AuthorID" json:"-"`
	Ingredients []Ingredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
	Steps       []Step       `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
}

// Ingredient amounts are free text ("1L", "2 cups"), not structured quantities.
type Ingredient struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	RecipeID uint   `gorm:"index;not null" json:"recipe_id"`
	Name     string `gorm:"not null;size:256" json:"name"`
	Amount   string `gorm:"not null;size:100" json:"amount"`

	Recipe Recipe `gorm:"foreignKey:RecipeID" json:"-"`
}

// Step is one instruction of a recipe. StepOrder is the 1-based position
// assigned at publish time; it is never re-ordered afterwards.
type Step struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	RecipeID    uint   `gorm:"index;not null;uniqueIndex:idx_steps_recipe_order" json:"recipe_id"`
	Name        string `gorm:"size:256" json:"name,omitempty"` // optional headline
	Description string `gorm:"type:text;not null" json:"description"`
	StepOrder   int    `gorm:"not null;uniqueIndex:idx_steps_recipe_order" json:"step_order"`

	Recipe Recipe      `gorm:"foreignKey:RecipeID" json:"-"`
	Photos []StepPhoto `gorm:"foreignKey:StepID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`
}

// StepPhoto is an illustration attached to a step. The schema permits many
// photos per step and a caption, but current write paths create at most one
// photo per step and never set a caption.
type StepPhoto struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	StepID    uint   `gorm:"index;not null" json:"step_id"`
	ImagePath string `gorm:"not null;size:1024" json:"image_path"`
	Caption   string `gorm:"size:512" json:"caption,omitempty"`

	Step Step `gorm:"foreignKey:StepID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (StepPhoto) TableName() string {
	return "step_photos"
}
