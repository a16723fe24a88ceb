package geocode

import (
	"fmt"
	"math"
)

// Place is a resolved human-readable location.
type Place struct {
	DisplayName string
	City        *string
	State       *string
	Country     *string
	Postcode    *string
	Source      string
}

// Key identifies a cache slot: coordinates rounded to 4 decimal places
// (roughly 11 m at the equator).
type Key struct {
	Lat float64
	Lng float64
}

func NewKey(lat, lng float64) Key {
	return Key{Lat: round4(lat), Lng: round4(lng)}
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// FallbackName is used when no place could be resolved.
func FallbackName(lat, lng float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lng)
}
