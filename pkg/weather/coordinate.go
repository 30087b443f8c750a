// Package weather resolves city names to coordinates and fetches daily
// narratives from a Weather Company Data compatible forecast service.
package weather

// Coordinate is a decimal-degree position. Values are kept as the strings that
// get interpolated into the forecast URL.
type Coordinate struct {
	Latitude  string `json:"latitude,omitempty"`
	Longitude string `json:"longitude,omitempty"`
}

// IsZero reports whether the coordinate is the empty "no match" value.
func (c Coordinate) IsZero() bool {
	return c.Latitude == "" && c.Longitude == ""
}

// Cities maps the city entity values the dialog recognizes to their coordinates.
var Cities = map[string]Coordinate{
	"Cairo": {Latitude: "30.0444", Longitude: "31.2357"},
	"NYC":   {Latitude: "40.7128", Longitude: "74.0059"},
}

// LookupCity returns the coordinate for an exact city name match, or the zero
// Coordinate when the city is unknown.
func LookupCity(name string) Coordinate {
	return Cities[name]
}
