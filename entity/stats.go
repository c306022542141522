package entity

import "github.com/biter777/countries"

// Stats feeds the landing page counters.
type Stats struct {
	Registrations int64 `json:"registrations"`
	Cities        int64 `json:"cities"`
	Countries     int64 `json:"countries"`
}

// CountryCount is one data point of the world map: registrant count per
// country, with the ISO alpha-2 code resolved from the free-text country
// name when possible.
type CountryCount struct {
	Country string `json:"country"`
	Code    string `json:"code,omitempty"`
	Count   int64  `json:"count"`
}

// CountryCode resolves a user-entered country name to an ISO alpha-2 code.
// Returns an empty string when the name is not recognized.
func CountryCode(name string) string {
	if name == "" {
		return ""
	}
	if len(name) == 2 {
		return name
	}
	country := countries.ByName(name)
	code := country.Alpha2()
	if len(code) == 2 {
		return code
	}
	return ""
}
