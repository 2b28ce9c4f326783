package models

// Category is a place category assigned by the scorer or by human review
type Category string

// Known categories. Declaration order is significant: the scorer breaks ties
// by this order, so it must stay stable across releases.
const (
	CategoryHome       Category = "HOME"
	CategoryWork       Category = "WORK"
	CategoryGym        Category = "GYM"
	CategoryRestaurant Category = "RESTAURANT"
	CategoryShopping   Category = "SHOPPING"
	CategoryTransit    Category = "TRANSIT"
	CategoryEducation  Category = "EDUCATION"
	CategoryUnknown    Category = "UNKNOWN"
)

// AllCategories lists every scoreable category in declaration order.
// UNKNOWN is not scoreable and is excluded.
var AllCategories = []Category{
	CategoryHome,
	CategoryWork,
	CategoryGym,
	CategoryRestaurant,
	CategoryShopping,
	CategoryTransit,
	CategoryEducation,
}

// IsValid reports whether c is a known scoreable category
func (c Category) IsValid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}
