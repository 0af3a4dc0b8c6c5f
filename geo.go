package berlin

import (
	"errors"
	"fmt"
	"math"
	"strings"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/golang/geo/s2"
)

// Distances are planar, in degrees: sqrt(dlat² + dlng²). At the catalog's
// granularity this is close enough for ranking; callers wanting kilometres
// multiply by KmPerDegree or use GreatCircleKm.

// KmPerDegree is the rough length of one degree at the equator.
const KmPerDegree = 111.0

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.01

func coordinatesOf(c Code) (Coordinates, bool) {
	if c == nil {
		return Coordinates{}, false
	}
	loc, ok := c.(Locatable)
	if !ok {
		return Coordinates{}, false
	}
	return loc.Coordinates()
}

func squaredDegrees(a, b Coordinates) float64 {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng
	return dLat*dLat + dLng*dLng
}

// Distance returns the planar distance in degrees between two codes, or
// false if either has no coordinates.
func Distance(a, b Code) (float64, bool) {
	ca, ok := coordinatesOf(a)
	if !ok {
		return 0, false
	}
	cb, ok := coordinatesOf(b)
	if !ok {
		return 0, false
	}
	return math.Sqrt(squaredDegrees(ca, cb)), true
}

// DistanceTo returns the planar distance in degrees from a code to a point.
func DistanceTo(c Code, lat, lng float64) (float64, bool) {
	cc, ok := coordinatesOf(c)
	if !ok {
		return 0, false
	}
	return math.Sqrt(squaredDegrees(cc, Coordinates{Lat: lat, Lng: lng})), true
}

// GreatCircleKm returns the great-circle distance in kilometres between two
// codes, or false if either has no coordinates.
func GreatCircleKm(a, b Code) (float64, bool) {
	ca, ok := coordinatesOf(a)
	if !ok {
		return 0, false
	}
	cb, ok := coordinatesOf(b)
	if !ok {
		return 0, false
	}
	la := s2.LatLngFromDegrees(ca.Lat, ca.Lng)
	lb := s2.LatLngFromDegrees(cb.Lat, cb.Lng)
	return float64(la.Distance(lb)) * earthRadiusKm, true
}

// Nearest returns the location in scope closest to (lat, lng) and its
// distance in degrees. With a non-nil radius, locations farther than the
// radius are never returned. Ties keep catalog order.
func (p *Parser) Nearest(lat, lng float64, radius *float64) (Code, float64, bool) {
	if p.catalog == nil {
		return nil, 0, false
	}
	if radius != nil && *radius < 0 {
		return nil, 0, false
	}

	point := Coordinates{Lat: lat, Lng: lng}
	var best Code
	bestSq := math.Inf(1)
	for _, code := range p.catalog.order[TypeLocation] {
		if !p.inScope(code) {
			continue
		}
		cc, ok := coordinatesOf(code)
		if !ok {
			continue
		}
		sq := squaredDegrees(cc, point)
		if radius != nil && sq > *radius**radius {
			continue
		}
		if sq < bestSq {
			best, bestSq = code, sq
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, math.Sqrt(bestSq), true
}

// Search is Nearest with the radius given as a value and a flag saying
// whether it applies.
func (p *Parser) Search(lat, lng, radius float64, bounded bool) (Code, float64, bool) {
	if !bounded {
		return p.Nearest(lat, lng, nil)
	}
	return p.Nearest(lat, lng, &radius)
}

// Geohash returns the geohash of a code's coordinates.
func Geohash(c Code) (string, bool) {
	cc, ok := coordinatesOf(c)
	if !ok {
		return "", false
	}
	return geohash.Encode(cc.Lat, cc.Lng), true
}

const geohashAlphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

var errBadGeohash = errors.New("not a geohash")

// DecodeGeohash returns the centre of a geohash cell.
func DecodeGeohash(hash string) (Coordinates, error) {
	h := strings.ToLower(strings.TrimSpace(hash))
	if h == "" || len(h) > 12 {
		return Coordinates{}, &QueryError{Component: "geohash", Value: hash, Err: errBadGeohash}
	}
	for _, r := range h {
		if !strings.ContainsRune(geohashAlphabet, r) {
			return Coordinates{}, &QueryError{Component: "geohash", Value: hash, Err: fmt.Errorf("%w: invalid character %q", errBadGeohash, r)}
		}
	}
	center := geohash.Decode(h).Center()
	return Coordinates{Lat: center.Lat(), Lng: center.Lng()}, nil
}
