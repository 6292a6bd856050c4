package questions

import (
	_ "embed"
	"encoding/json"
)

// Category describes one entry of the selectable category catalog.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	Grouping string `json:"grouping,omitempty"`
}

//go:embed categories.json
var categoriesJSON []byte

// Categories returns the embedded category catalog.
func Categories() []Category {
	var list []Category
	if err := json.Unmarshal(categoriesJSON, &list); err != nil {
		return nil
	}
	return list
}

// CategoryByID looks a category up in the catalog.
func CategoryByID(id string) (Category, bool) {
	for _, category := range Categories() {
		if category.ID == id {
			return category, true
		}
	}
	return Category{}, false
}
