package constants

import (
	_ "embed"
	"encoding/json"
	"strings"
)

const (
	// HomeCountry is the country whose wilayas map to division codes.
	HomeCountry = "الجزائر"

	// ForeignDivisionCode is assigned to every member living abroad.
	ForeignDivisionCode = "88"
)

type jsonWilaya struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

//go:embed data/wilayas.json
var wilayasJSON []byte

// wilayaCodes maps a wilaya name to its 2-digit division code. Loaded
// once at init, read-only afterwards.
var wilayaCodes map[string]string

func init() {
	var wilayas []jsonWilaya
	if err := json.Unmarshal(wilayasJSON, &wilayas); err != nil {
		panic("failed to unmarshal wilayas JSON: " + err.Error())
	}

	wilayaCodes = make(map[string]string, len(wilayas))
	for _, w := range wilayas {
		if len(w.Code) != 2 || w.Name == "" {
			panic("invalid wilaya entry: " + w.Code + " " + w.Name)
		}
		wilayaCodes[w.Name] = w.Code
	}
}

// IsHomeCountry reports whether the given country string counts as the
// home country. Latin spellings are accepted case-insensitively.
func IsHomeCountry(country string) bool {
	country = strings.TrimSpace(country)
	if country == HomeCountry {
		return true
	}
	return strings.EqualFold(country, "algeria") || strings.EqualFold(country, "algerie") || strings.EqualFold(country, "algérie")
}

// WilayaCode looks up the division code for a wilaya name. Any
// parenthetical suffix is stripped before the lookup.
func WilayaCode(name string) (string, bool) {
	if i := strings.IndexAny(name, "(（"); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)

	code, ok := wilayaCodes[name]
	return code, ok
}

func WilayaCount() int {
	return len(wilayaCodes)
}
