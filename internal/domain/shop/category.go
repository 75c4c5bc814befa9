package shop

// CategoryAll is the sentinel category that selects every book.
const CategoryAll = "all"

// Category is an entry of the fixed category list.
type Category struct {
	ID   string
	Name string
}

var categories = []Category{
	{ID: CategoryAll, Name: "All"},
	{ID: "fiction", Name: "Fiction"},
	{ID: "non-fiction", Name: "Non-fiction"},
	{ID: "business", Name: "Business"},
	{ID: "technology", Name: "Technology"},
	{ID: "self-help", Name: "Self-help"},
	{ID: "education", Name: "Education"},
}

// Categories returns a copy of the fixed category list, "all" first.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// IsKnownCategory reports whether id names one of the fixed categories.
func IsKnownCategory(id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
