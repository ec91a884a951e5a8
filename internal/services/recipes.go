// Package services orchestrates operations that span the repositories and
// the media store.
package services

import (
	"log"

	"github.com/recipegram-app/recipegram/internal/database/recipes"
)

// MediaStore persists a picked image and returns its stable path.
type MediaStore interface {
	SaveCopy(src string) (string, error)
}

// StepInput is one instruction of a publish request, in display order.
type StepInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURI    string `json:"image_uri"`
}

// IngredientInput is one ingredient row of a publish request.
type IngredientInput struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// PublishRequest carries a validated recipe with transient picker image
// paths still to be persisted.
type PublishRequest struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Time         string            `json:"time"`
	AuthorID     uint              `json:"-"`
	MainImageURI string            `json:"main_image_uri"`
	Ingredients  []IngredientInput `json:"ingredients"`
	Steps        []StepInput       `json:"steps"`
}

// RecipeService publishes recipes: it persists images through the media
// store, then writes all rows through the repository in one transaction.
type RecipeService struct {
	repo  *recipes.Repository
	media MediaStore
}

// NewRecipeService creates a new recipe publishing service.
func NewRecipeService(repo *recipes.Repository, media MediaStore) *RecipeService {
	return &RecipeService{repo: repo, media: media}
}

// Publish copies the main and per-step images into durable storage (a
// failed copy degrades to "no image" and is only logged), then inserts the
// recipe with its children. Returns the new recipe's id.
func (s *RecipeService) Publish(req PublishRequest) (uint, error) {
	draft := recipes.Draft{
		Name:        req.Name,
		Description: req.Description,
		Time:        req.Time,
		AuthorID:    req.AuthorID,
		ImagePath:   s.saveImage(req.MainImageURI),
	}

	for _, ing := range req.Ingredients {
		draft.Ingredients = append(draft.Ingredients, recipes.IngredientDraft{
			Name:   ing.Name,
			Amount: ing.Amount,
		})
	}

	for _, st := range req.Steps {
		draft.Steps = append(draft.Steps, recipes.StepDraft{
			Name:        st.Name,
			Description: st.Description,
			ImagePath:   s.saveImage(st.ImageURI),
		})
	}

	return s.repo.Publish(draft)
}

func (s *RecipeService) saveImage(uri string) string {
	if uri == "" || s.media == nil {
		return ""
	}
	path, err := s.media.SaveCopy(uri)
	if err != nil {
		log.Printf("Failed to save recipe image, continuing without it: %v", err)
		return ""
	}
	return path
}
