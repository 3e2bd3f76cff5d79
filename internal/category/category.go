package category

import "sort"

// Category is a distinct label found on at least one expense. Categories have
// no table of their own.
type Category struct {
	Name string `db:"category"`
}

// Names flattens categories into the list the API returns, keeping the order
// given.
func Names(categories []Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}

// SortedNames is Names in ascending order.
func SortedNames(categories []Category) []string {
	names := Names(categories)
	sort.Strings(names)
	return names
}
