package seed

import (
	"fmt"

	"blogmesh/internal/models"

	"gorm.io/gorm"
)

// BuiltInCategory is a category every seeded database starts with.
type BuiltInCategory struct {
	Title       string
	Description string
}

// BuiltInCategories defines the default blog categories.
var BuiltInCategories = []BuiltInCategory{
	{Title: "Technology", Description: "Software, hardware and the people building them."},
	{Title: "Programming", Description: "Languages, tooling and code craft."},
	{Title: "Travel", Description: "Trips, places and travel notes."},
	{Title: "Food", Description: "Recipes, restaurants and cooking."},
	{Title: "Books", Description: "Reviews, reading lists and writing."},
	{Title: "Music", Description: "Albums, gigs and music discovery."},
	{Title: "Fitness", Description: "Training programs and healthy habits."},
	{Title: "Science", Description: "Research, discoveries and explainers."},
}

// Categories creates the built-in categories that do not exist yet, matching
// on title, and returns all of them.
func Categories(db *gorm.DB) ([]models.Category, error) {
	categories := make([]models.Category, 0, len(BuiltInCategories))
	for _, item := range BuiltInCategories {
		var category models.Category
		err := db.Where(models.Category{Title: item.Title}).
			Attrs(models.Category{Description: item.Description}).
			FirstOrCreate(&category).Error
		if err != nil {
			return nil, fmt.Errorf("seed built-in category %s: %w", item.Title, err)
		}
		categories = append(categories, category)
	}
	return categories, nil
}
