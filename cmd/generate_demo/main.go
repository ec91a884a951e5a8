// Command generate_demo creates a demo database with sample users and recipes.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/recipegram-app/recipegram/internal/auth"
	"github.com/recipegram-app/recipegram/internal/database"
	"github.com/recipegram-app/recipegram/internal/database/recipes"
	"github.com/recipegram-app/recipegram/internal/database/users"

	"golang.org/x/crypto/bcrypt"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	usersRepo := users.NewRepository(db.DB)
	recipesRepo := recipes.NewRepository(db.DB)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost) // fast hashing, demo data only

	authors := make(map[string]uint)
	for _, u := range demoUsers() {
		hash, err := hasher.Hash(u.password)
		if err != nil {
			log.Fatalf("Failed to hash demo password: %v", err)
		}
		created, err := usersRepo.CreateUser(u.username, hash, "")
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", u.username, err)
		}
		authors[u.username] = created.ID
		log.Printf("Created user: %s (password %q)", u.username, u.password)
	}

	for _, d := range demoRecipes() {
		draft := d.draft
		draft.AuthorID = authors[d.author]
		id, err := recipesRepo.Publish(draft)
		if err != nil {
			log.Printf("Failed to publish %s: %v", draft.Name, err)
			continue
		}
		log.Printf("Published: %s (id %d, %d ingredients, %d steps)",
			draft.Name, id, len(draft.Ingredients), len(draft.Steps))
	}

	log.Println("Demo database generated successfully!")
}

type demoUser struct {
	username string
	password string
}

func demoUsers() []demoUser {
	return []demoUser{
		{username: "marta", password: "demo-password"},
		{username: "olive_oyl", password: "demo-password"},
		{username: "sous_chef", password: "demo-password"},
	}
}

// demoRecipe pairs a draft with the username that publishes it.
type demoRecipe struct {
	author string
	draft  recipes.Draft
}

func demoRecipes() []demoRecipe {
	return []demoRecipe{
		{
			author: "marta",
			draft: recipes.Draft{
				Name:        "Tomato Soup",
				Description: "A weeknight classic. Roasting the tomatoes first makes all the difference.",
				Time:        "40 min",
				Ingredients: []recipes.IngredientDraft{
					{Name: "Tomatoes", Amount: "1 kg"},
					{Name: "Onion", Amount: "1"},
					{Name: "Garlic", Amount: "3 cloves"},
					{Name: "Vegetable stock", Amount: "500 ml"},
					{Name: "Olive oil", Amount: "2 tbsp"},
				},
				Steps: []recipes.StepDraft{
					{Name: "Roast", Description: "Halve the tomatoes, toss with oil and roast at 200C for 25 minutes."},
					{Name: "Sweat", Description: "Soften the chopped onion and garlic in a pot over medium heat."},
					{Description: "Add the roasted tomatoes and stock, simmer 10 minutes, then blend smooth."},
				},
			},
		},
		{
			author: "olive_oyl",
			draft: recipes.Draft{
				Name:        "Spinach Omelette",
				Time:        "10 min",
				Ingredients: []recipes.IngredientDraft{
					{Name: "Eggs", Amount: "3"},
					{Name: "Spinach", Amount: "a handful"},
					{Name: "Butter", Amount: "1 tbsp"},
				},
				Steps: []recipes.StepDraft{
					{Description: "Whisk the eggs with a pinch of salt."},
					{Description: "Wilt the spinach in butter, pour in the eggs and cook over low heat until just set."},
				},
			},
		},
		{
			author: "sous_chef",
			draft: recipes.Draft{
				Name:        "Overnight Oats",
				Description: "Assemble before bed, breakfast is ready when you wake up.",
				Time:        "5 min + overnight",
				Ingredients: []recipes.IngredientDraft{
					{Name: "Rolled oats", Amount: "50 g"},
					{Name: "Milk", Amount: "120 ml"},
					{Name: "Honey", Amount: "1 tsp"},
					{Name: "Berries", Amount: "a handful"},
				},
				Steps: []recipes.StepDraft{
					{Description: "Stir oats, milk and honey together in a jar."},
					{Description: "Refrigerate overnight and top with berries before serving."},
				},
			},
		},
	}
}
