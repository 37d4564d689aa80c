// Package geo resolves free-text location strings against the static
// district/mandal administrative tree and classifies areas as village or
// city from reverse-geocode address fields.
package geo

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed districts.yaml
var districtsYAML []byte

// Area type labels surfaced to the UI and stored on complaints.
const (
	AreaVillage = "Village"
	AreaCity    = "City"
)

var villageKeywords = []string{"village", "gram", "mandal", "rural", "revenue village"}

var cityKeywords = []string{"municipality", "city", "urban", "town", "ghmc", "municipal corporation"}

// Hierarchy is the static district -> mandal tree.
type Hierarchy struct {
	districts []district
}

type district struct {
	name    string
	mandals []string
}

// NewHierarchy parses the embedded district tree.
func NewHierarchy() (*Hierarchy, error) {
	raw := map[string][]string{}
	if err := yaml.Unmarshal(districtsYAML, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse district tree: %w", err)
	}

	h := &Hierarchy{districts: make([]district, 0, len(raw))}
	for name, mandals := range raw {
		h.districts = append(h.districts, district{name: name, mandals: mandals})
	}
	// Deterministic match order; the map iteration order is not.
	sort.Slice(h.districts, func(i, j int) bool {
		return h.districts[i].name < h.districts[j].name
	})
	return h, nil
}

// Districts returns the district names in match order.
func (h *Hierarchy) Districts() []string {
	names := make([]string, len(h.districts))
	for i, d := range h.districts {
		names[i] = d.name
	}
	return names
}

// Resolve finds the best-effort (district, mandal) pair for a raw location
// string: case-insensitive substring containment of the district name, then
// of that district's mandals. First match wins, no scoring. When no district
// name appears, a second pass matches mandal names across all districts.
// Unmatched input yields empty strings; resolution failure never blocks
// submission.
func (h *Hierarchy) Resolve(location string) (string, string) {
	if strings.TrimSpace(location) == "" {
		return "", ""
	}
	needle := strings.ToLower(location)

	for _, d := range h.districts {
		if !strings.Contains(needle, strings.ToLower(d.name)) {
			continue
		}
		for _, m := range d.mandals {
			if strings.Contains(needle, strings.ToLower(m)) {
				return d.name, m
			}
		}
		return d.name, ""
	}

	for _, d := range h.districts {
		for _, m := range d.mandals {
			if strings.Contains(needle, strings.ToLower(m)) {
				return d.name, m
			}
		}
	}

	return "", ""
}

// Address holds the reverse-geocode fields the classifier consumes.
type Address struct {
	Village      string `json:"village"`
	Hamlet       string `json:"hamlet"`
	City         string `json:"city"`
	Town         string `json:"town"`
	Municipality string `json:"municipality"`
	County       string `json:"county"`
	District     string `json:"state_district"`
	State        string `json:"state"`
	Postcode     string `json:"postcode"`
	DisplayName  string `json:"-"`
}

// serialize flattens the address for keyword scanning.
func (a Address) serialize() string {
	parts := []string{
		a.Village, a.Hamlet, a.City, a.Town, a.Municipality,
		a.County, a.District, a.State, a.DisplayName,
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// ClassifyArea tags an address as Village or City using keyword sets over the
// serialized address, falling back to the discrete fields. Returns "" when no
// signal is available, which means the user must pick manually.
func ClassifyArea(addr Address) string {
	blob := addr.serialize()

	for _, kw := range villageKeywords {
		if strings.Contains(blob, kw) {
			return AreaVillage
		}
	}
	for _, kw := range cityKeywords {
		if strings.Contains(blob, kw) {
			return AreaCity
		}
	}

	if addr.Village != "" || addr.Hamlet != "" {
		return AreaVillage
	}
	if addr.City != "" || addr.Town != "" || addr.Municipality != "" {
		return AreaCity
	}

	return ""
}
