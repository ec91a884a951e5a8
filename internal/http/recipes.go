package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/recipegram-app/recipegram/internal/database/recipes"
	"github.com/recipegram-app/recipegram/internal/services"
)

// RecipesController handles recipe browsing, publishing and deletion.
type RecipesController struct {
	repo    *recipes.Repository
	service *services.RecipeService
}

// NewRecipesController creates a new recipes controller.
func NewRecipesController(repo *recipes.Repository, service *services.RecipeService) *RecipesController {
	return &RecipesController{repo: repo, service: service}
}

// Feed returns every recipe summary, newest first.
func (rc *RecipesController) Feed(c *gin.Context) {
	summaries, err := rc.repo.ListAll()
	if err != nil {
		respondInternalError(c, err, "list recipes")
		return
	}
	if summaries == nil {
		summaries = []recipes.Summary{}
	}
	c.JSON(http.StatusOK, summaries)
}

// MyRecipes returns the logged-in user's recipes, newest first.
func (rc *RecipesController) MyRecipes(c *gin.Context) {
	summaries, err := rc.repo.ListByAuthor(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list user recipes")
		return
	}
	if summaries == nil {
		summaries = []recipes.Summary{}
	}
	c.JSON(http.StatusOK, summaries)
}

// Detail returns the full view of one recipe.
func (rc *RecipesController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	detail, err := rc.repo.GetDetail(id)
	if err != nil {
		if errors.Is(err, recipes.ErrNotFound) {
			respondNotFound(c, "recipe")
			return
		}
		respondInternalError(c, err, "get recipe detail")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Publish validates and stores a new recipe authored by the session user.
func (rc *RecipesController) Publish(c *gin.Context) {
	var req services.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if msg, ok := validatePublish(req); !ok {
		respondBadRequest(c, msg)
		return
	}

	req.AuthorID = GetUserID(c)

	recipeID, err := rc.service.Publish(req)
	if err != nil {
		respondInternalError(c, err, "publish recipe")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe_id": recipeID})
}

// Delete removes a recipe owned by the session user, cascading to its
// ingredients, steps and step photos.
func (rc *RecipesController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	authorID, err := rc.repo.GetAuthorID(id)
	if err != nil {
		if errors.Is(err, recipes.ErrNotFound) {
			respondNotFound(c, "recipe")
			return
		}
		respondInternalError(c, err, "load recipe for delete")
		return
	}
	if authorID != GetUserID(c) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "not your recipe"})
		return
	}

	if err := rc.repo.Delete(id); err != nil {
		respondInternalError(c, err, "delete recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted"})
}

// validatePublish enforces the publish preconditions: name and time
// non-empty, at least one named ingredient, at least one step.
func validatePublish(req services.PublishRequest) (string, bool) {
	if strings.TrimSpace(req.Name) == "" {
		return "recipe name is required", false
	}
	if strings.TrimSpace(req.Time) == "" {
		return "cook time is required", false
	}

	hasNamedIngredient := false
	for _, ing := range req.Ingredients {
		if strings.TrimSpace(ing.Name) != "" {
			hasNamedIngredient = true
			break
		}
	}
	if !hasNamedIngredient {
		return "at least one ingredient is required", false
	}

	if len(req.Steps) == 0 {
		return "at least one step is required", false
	}
	for _, st := range req.Steps {
		if strings.TrimSpace(st.Description) == "" {
			return "every step needs a description", false
		}
	}

	return "", true
}
