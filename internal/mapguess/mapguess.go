// Package mapguess implements the round engine of the store-guessing game:
// the location catalog and sampler, the round countdown, scoring, and the
// state machine that ties them together. It has zero external dependencies.
package mapguess

import "strings"

// OSM address tag keys used by the catalog.
const (
	TagStreet      = "addr:street"
	TagCity        = "addr:city"
	TagHouseNumber = "addr:housenumber"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location is a candidate target. It is never mutated after the catalog
// that owns it has been built.
type Location struct {
	ID   int64
	Lat  float64
	Lon  float64
	Tags map[string]string
}

func (l Location) Coordinate() Coordinate {
	return Coordinate{Lat: l.Lat, Lon: l.Lon}
}

func (l Location) Tag(key string) string {
	return strings.TrimSpace(l.Tags[key])
}

// Valid reports whether the location has a street and a city.
func (l Location) Valid() bool {
	return l.Tag(TagStreet) != "" && l.Tag(TagCity) != ""
}

// Address formats the location as "street housenumber, city".
func (l Location) Address() string {
	street := strings.TrimSpace(l.Tag(TagStreet) + " " + l.Tag(TagHouseNumber))
	return street + ", " + l.Tag(TagCity)
}

// Settings is the immutable per-session configuration of an Engine.
type Settings struct {
	RoundsTotal  int
	RoundSeconds int
	TimeWeight   float64
}

func DefaultSettings() Settings {
	return Settings{
		RoundsTotal:  10,
		RoundSeconds: 20,
		TimeWeight:   2,
	}
}

func (s Settings) validate() error {
	switch {
	case s.RoundsTotal < 1:
		return errInvalidSettings("rounds total must be at least 1")
	case s.RoundSeconds < 1:
		return errInvalidSettings("round seconds must be at least 1")
	case s.TimeWeight < 0:
		return errInvalidSettings("time weight must not be negative")
	}
	return nil
}
