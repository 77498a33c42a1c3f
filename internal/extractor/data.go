package extractor

import "fmt"

// Sentinels substituted for absent or blank site fields.
const (
	NoName      = "No Name"
	NoCategory  = "No Category"
	NoAddress   = "No Address"
	NoZipcode   = "No Zipcode"
	NoTelephone = "No Telephone"
)

// Sentinels substituted for absent or blank nearby place fields.
const (
	NoPlaceName     = "no name"
	NoPlaceCategory = "no category"
	NoPlaceAddress  = "no address"
	NoPlaceCity     = "no city"
)

// Site is a park service site as shown on its detail page.
// Every field is non-empty: missing values carry a sentinel.
type Site struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Address  string `json:"address"`
	Zipcode  string `json:"zipcode"`
	Phone    string `json:"phone"`
	URL      string `json:"url"`
}

// Info renders the one-line listing form "<name> (<category>): <address> <zipcode>".
func (s Site) Info() string {
	return fmt.Sprintf("%s (%s): %s %s", s.Name, s.Category, s.Address, s.Zipcode)
}

// NearbyPlace is one result of a radius search around a site.
type NearbyPlace struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Address  string `json:"address"`
	City     string `json:"city"`
}

// Info renders "<name> (<category>): <address>, <city>".
func (p NearbyPlace) Info() string {
	return fmt.Sprintf("%s (%s): %s, %s", p.Name, p.Category, p.Address, p.City)
}

func orSentinel(value string, sentinel string) string {
	if value == "" {
		return sentinel
	}
	return value
}
