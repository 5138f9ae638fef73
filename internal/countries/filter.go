package countries

import "strings"

// AllRegions is the region selector value that disables region filtering.
const AllRegions = "All"

// FilterByName keeps the countries whose common name contains term,
// ignoring case. An empty term keeps everything.
func FilterByName(list []Country, term string) []Country {
	term = strings.TrimSpace(term)
	if term == "" {
		return list
	}
	term = strings.ToLower(term)

	out := make([]Country, 0, len(list))
	for _, c := range list {
		if strings.Contains(strings.ToLower(c.Name.Common), term) {
			out = append(out, c)
		}
	}
	return out
}

// FilterByRegion keeps the countries in exactly region. An empty region or
// AllRegions keeps everything.
func FilterByRegion(list []Country, region string) []Country {
	if region == "" || region == AllRegions {
		return list
	}

	out := make([]Country, 0, len(list))
	for _, c := range list {
		if c.Region == region {
			out = append(out, c)
		}
	}
	return out
}
