package models

// categories is the single ordered list of skill categories. The order is the
// display order used by every client.
var categories = []string{
	"Languages & Translation",
	"Academics & Tutoring",
	"Programming & Technology",
	"Design & Creativity",
	"Music, Performing Arts & Writing",
	"Business, Marketing & Management",
	"Cooking & Culinary Arts",
	"Fitness, Sports & Wellness",
	"Lifestyle, Travel & Outdoor Activities",
	"Finance & Investment",
	"Other",
}

// CategoryPlaceholder is the label of the empty option in category pickers.
const CategoryPlaceholder = "Please select a category"

// Categories returns a copy of the ordered category list.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// IsCategory reports whether name is one of the known categories.
func IsCategory(name string) bool {
	for _, c := range categories {
		if c == name {
			return true
		}
	}
	return false
}

// AllModels lists the models managed by migrations.
func AllModels() []interface{} {
	return []interface{}{&User{}, &Skill{}, &Comment{}, &Favorite{}}
}
