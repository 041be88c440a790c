package rsvp

// DefaultActivities is the activity catalog used when none is configured.
var DefaultActivities = []string{
	"Volleyball",
	"Picnic Games",
	"Arts & Crafts",
	"Team Challenges",
	"Swimming",
	"Board Games",
}

// DefaultDietaryOptions lists the dietary choices offered when none are
// configured. The first entry is the default.
var DefaultDietaryOptions = []string{
	DefaultDietary,
	"Vegetarian",
	"Vegan",
	"Gluten-Free",
	"Dairy-Free",
	"Kosher",
	"Halal",
	"Nut Allergy",
}

// catalog is a closed set of names.
type catalog map[string]struct{}

func newCatalog(names []string) catalog {
	c := make(catalog, len(names))
	for _, n := range names {
		c[n] = struct{}{}
	}
	return c
}

func (c catalog) contains(name string) bool {
	_, ok := c[name]
	return ok
}
