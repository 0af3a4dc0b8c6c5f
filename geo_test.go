package berlin

import (
	"errors"
	"math"
	"testing"
)

func near(a, b, tolerance float64) bool { return math.Abs(a-b) <= tolerance }

func TestDistanceIsSymmetric(t *testing.T) {
	cat := testCatalog()
	locs := cat.Values(TypeLocation)
	for _, a := range locs {
		for _, b := range locs {
			ab, okAB := Distance(a, b)
			ba, okBA := Distance(b, a)
			if okAB != okBA || ab != ba {
				t.Errorf("Distance(%s, %s) = %v %v, reverse = %v %v", a.Identifier(), b.Identifier(), ab, okAB, ba, okBA)
			}
			if a == b && okAB && ab != 0 {
				t.Errorf("Distance(%s, itself) = %v", a.Identifier(), ab)
			}
		}
	}
}

func TestDistanceWithoutCoordinates(t *testing.T) {
	cat := testCatalog()
	nyc := cat.Get("US NYC", TypeLocation)

	tests := []struct {
		name string
		a, b Code
	}{
		{"location without coordinates", nyc, cat.Get("GB NWH", TypeLocation)},
		{"state", cat.Get("US", TypeState), nyc},
		{"nil", nil, nyc},
	}
	for _, tt := range tests {
		if _, ok := Distance(tt.a, tt.b); ok {
			t.Errorf("%s: Distance ok = true", tt.name)
		}
		if _, ok := GreatCircleKm(tt.a, tt.b); ok {
			t.Errorf("%s: GreatCircleKm ok = true", tt.name)
		}
	}
}

func TestDistanceInDegrees(t *testing.T) {
	cat := testCatalog()
	d, ok := Distance(cat.Get("US NYC", TypeLocation), cat.Get("US BOS", TypeLocation))
	if !ok {
		t.Fatal("Distance ok = false")
	}
	if want := math.Hypot(42.36-40.7, -71.06+74.0); !near(d, want, 1e-9) {
		t.Errorf("Distance = %v, want %v", d, want)
	}

	km, ok := GreatCircleKm(cat.Get("US NYC", TypeLocation), cat.Get("US BOS", TypeLocation))
	if !ok {
		t.Fatal("GreatCircleKm ok = false")
	}
	if km < 280 || km > 330 {
		t.Errorf("GreatCircleKm = %v, want about 306", km)
	}
}

func TestNearest(t *testing.T) {
	p := testCatalog().Parser()
	radius := func(r float64) *float64 { return &r }

	tests := []struct {
		name     string
		lat, lng float64
		radius   *float64
		want     string
		wantDist float64
	}{
		{"unbounded", 40.0, -74.0, nil, "US NYC", 0.7},
		{"inside radius", 40.0, -74.0, radius(1), "US NYC", 0.7},
		{"outside radius", 40.0, -74.0, radius(0.5), "", 0},
		{"negative radius", 40.7, -74.0, radius(-1), "", 0},
		{"exact position", 51.5, -0.12, radius(0), "GB LON", 0},
		{"far away", 51.0, 0.0, nil, "GB LON", math.Hypot(0.5, 0.12)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, dist, ok := p.Nearest(tt.lat, tt.lng, tt.radius)
			if tt.want == "" {
				if ok || code != nil {
					t.Errorf("Nearest = %v, want none", Repr(code))
				}
				return
			}
			if !ok || code.Identifier() != tt.want {
				t.Fatalf("Nearest = %v %v, want %s", code, ok, tt.want)
			}
			if !near(dist, tt.wantDist, 1e-9) {
				t.Errorf("distance = %v, want %v", dist, tt.wantDist)
			}
		})
	}
}

func TestNearestMatchesExhaustiveSearch(t *testing.T) {
	cat := testCatalog()
	p := cat.Parser()
	for lat := -80.0; lat <= 80; lat += 20 {
		for lng := -170.0; lng <= 170; lng += 34 {
			code, dist, ok := p.Nearest(lat, lng, nil)
			if !ok {
				t.Fatalf("Nearest(%v, %v) found nothing", lat, lng)
			}
			for _, other := range cat.Values(TypeLocation) {
				if d, ok := DistanceTo(other, lat, lng); ok && d < dist {
					t.Errorf("Nearest(%v, %v) = %s at %v, but %s is at %v", lat, lng, code.Identifier(), dist, other.Identifier(), d)
				}
			}
		}
	}
}

func TestNearestRespectsState(t *testing.T) {
	p := testCatalog().Parser(WithState("GB"))
	code, _, ok := p.Nearest(40.0, -74.0, nil)
	if !ok || code.Identifier() != "GB LON" {
		t.Errorf("Nearest = %v, want GB LON", Repr(code))
	}
}

func TestSearch(t *testing.T) {
	p := testCatalog().Parser()
	if code, _, ok := p.Search(40.0, -74.0, 0.1, false); !ok || code.Identifier() != "US NYC" {
		t.Errorf("unbounded Search = %v, want US NYC", Repr(code))
	}
	if _, _, ok := p.Search(40.0, -74.0, 0.1, true); ok {
		t.Error("bounded Search found a location outside the radius")
	}
}

func TestGeohash(t *testing.T) {
	cat := testCatalog()
	hash, ok := Geohash(cat.Get("US NYC", TypeLocation))
	if !ok || hash == "" {
		t.Fatalf("Geohash = %q %v", hash, ok)
	}
	if _, ok := Geohash(cat.Get("GB NWH", TypeLocation)); ok {
		t.Error("Geohash of a location without coordinates")
	}

	pos, err := DecodeGeohash(hash)
	if err != nil {
		t.Fatal(err)
	}
	if !near(pos.Lat, 40.7, 1e-4) || !near(pos.Lng, -74.0, 1e-4) {
		t.Errorf("DecodeGeohash(%q) = %v, want about 40.7,-74", hash, pos)
	}

	// The nearest location to a geohash cell is the one it was made from.
	code, _, ok := cat.Parser().Nearest(pos.Lat, pos.Lng, nil)
	if !ok || code.Identifier() != "US NYC" {
		t.Errorf("Nearest(geohash) = %v, want US NYC", Repr(code))
	}
}

func TestDecodeGeohashRejects(t *testing.T) {
	for _, hash := range []string{"", "dr5a", "dr5r!", "dr5ru7c5g2009x"} {
		_, err := DecodeGeohash(hash)
		var qe *QueryError
		if !errors.As(err, &qe) {
			t.Errorf("DecodeGeohash(%q): err = %v, want *QueryError", hash, err)
		}
	}
}
