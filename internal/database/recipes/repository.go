// Package recipes provides database operations for recipes and their
// ingredients, steps and step photos.
//
// # Usage
//
//	repo := recipes.NewRepository(db)
//	feed, err := repo.ListAll()
package recipes

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/recipegram-app/recipegram/internal/entities"
)

// ErrNotFound is returned when the requested recipe id has no row.
var ErrNotFound = errors.New("recipe not found")

// Summary is the feed projection of a recipe: the row itself plus the
// author's username and ingredient/step counts.
type Summary struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Time             string    `json:"time"`
	AuthorID         uint      `json:"author_id"`
	AuthorName       string    `json:"author_name"`
	ImagePath        string    `json:"image_path,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	IngredientsCount int       `json:"ingredients_count"`
	StepsCount       int       `json:"steps_count"`
}

// StepDetail is a step with its optional photo flattened in.
type StepDetail struct {
	ID          uint   `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description"`
	StepOrder   int    `json:"step_order"`
	ImagePath   string `json:"image_path,omitempty"`
}

// Detail is the full view of a single recipe.
type Detail struct {
	ID          uint                  `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Time        string                `json:"time"`
	AuthorID    uint                  `json:"author_id"`
	AuthorName  string                `json:"author_name"`
	ImagePath   string                `json:"image_path,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	Ingredients []entities.Ingredient `gorm:"-" json:"ingredients"`
	Steps       []StepDetail          `gorm:"-" json:"steps"`
}

// IngredientDraft is one ingredient row of a draft. Rows with a blank name
// are skipped at publish time.
type IngredientDraft struct {
	Name   string
	Amount string
}

// StepDraft is one instruction of a draft, in display order. ImagePath is a
// stable media path or empty for no photo.
type StepDraft struct {
	Name        string
	Description string
	ImagePath   string
}

// Draft is a recipe ready for publishing. All image paths must already be
// persisted by the media store; the repository only writes rows.
type Draft struct {
	Name        string
	Description string
	Time        string
	AuthorID    uint
	ImagePath   string
	Ingredients []IngredientDraft
	Steps       []StepDraft
}

const summarySelect = `
SELECT recipes.id, recipes.name, recipes.description, recipes.time,
       recipes.author_id, recipes.image_path, recipes.created_at,
       users.username AS author_name,
       (SELECT COUNT(*) FROM ingredients WHERE ingredients.recipe_id = recipes.id) AS ingredients_count,
       (SELECT COUNT(*) FROM steps WHERE steps.recipe_id = recipes.id) AS steps_count
FROM recipes
JOIN users ON users.id = recipes.author_id`

// Repository handles all recipe database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new recipes repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAll returns summaries of every recipe, newest first. An empty feed is
// a valid result, not an error.
func (r *Repository) ListAll() ([]Summary, error) {
	var summaries []Summary
	err := r.db.Raw(summarySelect + `
ORDER BY recipes.created_at DESC, recipes.id DESC`).Scan(&summaries).Error
	return summaries, err
}

// ListByAuthor returns summaries of the recipes published by one user,
// newest first.
func (r *Repository) ListByAuthor(userID uint) ([]Summary, error) {
	var summaries []Summary
	err := r.db.Raw(summarySelect+`
WHERE recipes.author_id = ?
ORDER BY recipes.created_at DESC, recipes.id DESC`, userID).Scan(&summaries).Error
	return summaries, err
}

// GetDetail returns the full view of one recipe: the row joined with the
// author's username, ingredients in insertion order, and steps in ascending
// step_order with their optional photo. A step without a photo has an empty
// ImagePath. Returns ErrNotFound when the id has no row.
func (r *Repository) GetDetail(recipeID uint) (*Detail, error) {
	var detail Detail
	res := r.db.Raw(`
SELECT recipes.id, recipes.name, recipes.description, recipes.time,
       recipes.author_id, recipes.image_path, recipes.created_at,
       users.username AS author_name
FROM recipes
JOIN users ON users.id = recipes.author_id
WHERE recipes.id = ?`, recipeID).Scan(&detail)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	err := r.db.Where("recipe_id = ?", recipeID).
		Order("id ASC").
		Find(&detail.Ingredients).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Raw(`
SELECT steps.id, steps.name, steps.description, steps.step_order,
       step_photos.image_path AS image_path
FROM steps
LEFT JOIN step_photos ON step_photos.step_id = steps.id
WHERE steps.recipe_id = ?
ORDER BY steps.step_order ASC`, recipeID).Scan(&detail.Steps).Error
	if err != nil {
		return nil, err
	}

	return &detail, nil
}

// Publish inserts a recipe with its ingredients, steps and step photos in a
// single transaction; a failure partway through rolls everything back.
// Ingredients with a blank name are skipped (tolerated partially-filled form
// rows), steps are numbered 1..N in the supplied order, and a step photo row
// is written only for steps that carry an image path. Returns the new
// recipe's id.
func (r *Repository) Publish(draft Draft) (uint, error) {
	var recipeID uint

	err := r.db.Transaction(func(tx *gorm.DB) error {
		recipe := &entities.Recipe{
			Name:        draft.Name,
			Description: draft.Description,
			Time:        draft.Time,
			AuthorID:    draft.AuthorID,
			ImagePath:   draft.ImagePath,
		}
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		recipeID = recipe.ID

		for _, ing := range draft.Ingredients {
			if strings.TrimSpace(ing.Name) == "" {
				continue
			}
			ingredient := &entities.Ingredient{
				RecipeID: recipe.ID,
				Name:     ing.Name,
				Amount:   ing.Amount,
			}
			if err := tx.Create(ingredient).Error; err != nil {
				return err
			}
		}

		for i, st := range draft.Steps {
			step := &entities.Step{
				RecipeID:    recipe.ID,
				Name:        st.Name,
				Description: st.Description,
				StepOrder:   i + 1,
			}
			if err := tx.Create(step).Error; err != nil {
				return err
			}

			if st.ImagePath != "" {
				photo := &entities.StepPhoto{
					StepID:    step.ID,
					ImagePath: st.ImagePath,
				}
				if err := tx.Create(photo).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return recipeID, nil
}

// GetAuthorID returns the author of a recipe, or ErrNotFound.
func (r *Repository) GetAuthorID(recipeID uint) (uint, error) {
	var recipe entities.Recipe
	err := r.db.Select("id", "author_id").First(&recipe, recipeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return recipe.AuthorID, nil
}

// Delete removes a recipe row. The foreign-key cascade removes its
// ingredients, steps and step photos.
func (r *Repository) Delete(recipeID uint) error {
	return r.db.Delete(&entities.Recipe{}, recipeID).Error
}
