package citydistance

import "strings"

// UsStateCodes maps US state and territory codes to full names.
var UsStateCodes = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho",
	"IL": "Illinois", "IN": "Indiana", "IA": "Iowa", "KS": "Kansas",
	"KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi",
	"MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NY": "New York",
	"NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma",
	"OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah",
	"VT": "Vermont", "VA": "Virginia", "WA": "Washington", "WV": "West Virginia",
	"WI": "Wisconsin", "WY": "Wyoming",
	// Territories
	"DC": "District of Columbia", "AS": "American Samoa", "GU": "Guam",
	"MP": "Northern Mariana Islands", "PR": "Puerto Rico",
	"UM": "United States Minor Outlying Islands", "VI": "Virgin Islands, U.S.",
}

// UkRegionCodes maps the Geonames admin1 codes of the United Kingdom to its
// constituent countries.
var UkRegionCodes = map[string]string{
	"ENG": "England",
	"WLS": "Wales",
	"SCT": "Scotland",
	"NIR": "Northern Ireland",
}

var (
	usSynonyms = map[string]bool{"united states": true, "us": true, "usa": true}
	ukSynonyms = map[string]bool{"united kingdom": true, "uk": true, "gb": true}
)

// normalizeCountry trims and lowercases a country value for synonym checks.
func normalizeCountry(country string) string {
	return strings.ToLower(strings.TrimSpace(country))
}

func isUnitedStates(country string) bool { return usSynonyms[normalizeCountry(country)] }

func isUnitedKingdom(country string) bool { return ukSynonyms[normalizeCountry(country)] }

// StateName returns the US state or territory name for code.
func StateName(code string) (string, bool) {
	name, ok := UsStateCodes[strings.ToUpper(strings.TrimSpace(code))]
	return name, ok
}

// UkRegionName returns the UK constituent country for code.
func UkRegionName(code string) (string, bool) {
	name, ok := UkRegionCodes[strings.ToUpper(strings.TrimSpace(code))]
	return name, ok
}
