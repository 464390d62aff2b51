package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Valid reports whether both components are finite and inside the WGS84 range.
func (c Coordinate) Valid() bool {
	return validDegrees(c.Lat, 90) && validDegrees(c.Lng, 180)
}

// ParseCoordinate parses loosely typed latitude/longitude values (numbers, numeric strings,
// json.Number, pointers to those) into a Coordinate.
//
// It never fails loudly: ok is false when either component is missing, non-numeric or out of range.
func ParseCoordinate(lat, lng any) (Coordinate, bool) {
	la, ok := ParseDegrees(lat)
	if !ok || !validDegrees(la, 90) {
		return Coordinate{}, false
	}
	ln, ok := ParseDegrees(lng)
	if !ok || !validDegrees(ln, 180) {
		return Coordinate{}, false
	}
	return Coordinate{Lat: la, Lng: ln}, true
}

// CoordinateFromPtrs builds a Coordinate when both pointers are set and form a valid pair.
func CoordinateFromPtrs(lat, lng *float64) *Coordinate {
	if lat == nil || lng == nil {
		return nil
	}
	c, ok := ParseCoordinate(*lat, *lng)
	if !ok {
		return nil
	}
	return &c
}

// ParseDegrees converts a loosely typed value into a float64.
func ParseDegrees(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, true
	case *float64:
		if x == nil {
			return 0, false
		}
		return *x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	case *string:
		if x == nil {
			return 0, false
		}
		return ParseDegrees(*x)
	default:
		return 0, false
	}
}

func validDegrees(v float64, limit float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= -limit && v <= limit
}
