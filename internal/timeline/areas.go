package timeline

import (
	"fmt"
	"sort"
	"strings"
)

// Area is a visited location.
type Area struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Location returns the entry's location attribute, if it has a code.
func (e Entry) Location() (Area, bool) {
	loc, ok := e.Attributes["location"].(map[string]interface{})
	if !ok {
		return Area{}, false
	}

	var a Area
	if v, ok := loc["name"]; ok && v != nil {
		a.Name = fmt.Sprint(v)
	}
	if v, ok := loc["code"]; ok && v != nil {
		a.Code = fmt.Sprint(v)
	}
	if a.Code == "" {
		return Area{}, false
	}
	return a, true
}

// VisitedAreas collects entry locations, one per code, sorted by name. The
// first entry carrying a code names it.
func VisitedAreas(entries []Entry) []Area {
	seen := make(map[string]bool)
	var areas []Area
	for _, e := range entries {
		a, ok := e.Location()
		if !ok || seen[a.Code] {
			continue
		}
		seen[a.Code] = true
		areas = append(areas, a)
	}

	sort.SliceStable(areas, func(i, j int) bool {
		return strings.ToLower(areas[i].Name) < strings.ToLower(areas[j].Name)
	})
	return areas
}
