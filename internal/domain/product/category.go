package product

// Category is a top-level catalog department.
type Category string

const (
	CategoryTires      Category = "Pneus"
	CategoryWheels     Category = "Rodas"
	CategoryOils       Category = "Óleos"
	CategoryFilters    Category = "Filtros"
	CategoryBrakes     Category = "Freios"
	CategorySuspension Category = "Suspensão"
	CategoryEngine     Category = "Motor"
	CategoryElectrical Category = "Elétrica"
)

var categorySlugs = []struct {
	category Category
	slug     string
}{
	{CategoryTires, "pneus"},
	{CategoryWheels, "rodas"},
	{CategoryOils, "oleos"},
	{CategoryFilters, "filtros"},
	{CategoryBrakes, "freios"},
	{CategorySuspension, "suspensao"},
	{CategoryEngine, "motor"},
	{CategoryElectrical, "eletrica"},
}

// Categories lists every category in menu order.
func Categories() []Category {
	out := make([]Category, len(categorySlugs))
	for i, c := range categorySlugs {
		out[i] = c.category
	}
	return out
}

// Slug returns the URL slug of c, or "" for unknown categories.
func (c Category) Slug() string {
	for _, e := range categorySlugs {
		if e.category == c {
			return e.slug
		}
	}
	return ""
}

// CategoryFromSlug resolves a URL slug.
func CategoryFromSlug(slug string) (Category, bool) {
	for _, e := range categorySlugs {
		if e.slug == slug {
			return e.category, true
		}
	}
	return "", false
}
