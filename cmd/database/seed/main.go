package main

import (
	"Foodgram-Backend/cmd/config"
	migration "Foodgram-Backend/cmd/database/migrate"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/pkg/ingredient"
	"context"
	"fmt"
	"log"
	"os"
)

// Loads the ingredient catalogue; the file path comes from the first argument or INGREDIENTS_FILE.
func main() {
	utils.LoadConfig()
	utils.InitValidator()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	path := utils.GetConfig("INGREDIENTS_FILE")
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open ingredients file: %v", err)
	}
	defer f.Close()

	fmt.Printf("Loading ingredients from %s...\n", path)

	service := ingredient.NewIngredientService(ingredient.NewIngredientRepository(db), utils.Validate)
	res, err := service.Import(context.Background(), f)
	if err != nil {
		log.Fatalf("Failed to import ingredients: %v", err)
	}

	fmt.Printf("Added %d ingredients, %d in total\n", res.Added, res.Total)
}
