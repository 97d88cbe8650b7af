package citydistance

import "strings"

// unknownCountry is shown when a place has no country.
const unknownCountry = "Unknown"

// Label derives the display label "Name, RegionOrCountry" for a place.
//
// For United States places the suffix is the state or territory named by
// regionCode, falling back to the country as given. For United Kingdom places
// it is England, Wales, Scotland or Northern Ireland, falling back to
// "United Kingdom". Every other country is used as is, and an absent country
// becomes "Unknown".
func Label(name, country, regionCode string) string {
	name = strings.TrimSpace(name)
	country = strings.TrimSpace(country)
	if country == "" {
		country = unknownCountry
	}

	suffix := country
	switch {
	case isUnitedStates(country):
		if state, ok := StateName(regionCode); ok {
			suffix = state
		}
	case isUnitedKingdom(country):
		suffix = "United Kingdom"
		if region, ok := UkRegionName(regionCode); ok {
			suffix = region
		}
	}
	return name + ", " + suffix
}

// Label returns the display label for p.
func (p PlaceRecord) Label() string {
	return Label(p.Name, p.Country, p.RegionCode)
}
