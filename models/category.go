package models

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	BoardCount  int    `json:"boardCount"`
}

// FindCategory returns the category with id, or nil.
func FindCategory(categories []Category, id int64) *Category {
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i]
		}
	}
	return nil
}
