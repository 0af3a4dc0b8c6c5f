package berlin

func ll(lat, lng float64) *Coordinates {
	return &Coordinates{Lat: lat, Lng: lng}
}

func loc(id, state, sub, name string, coords *Coordinates, alt ...string) *Location {
	return &Location{
		Entity:          Entity{ID: id, Names: append([]string{name}, alt...), Coords: coords},
		State:           state,
		SubdivisionCode: sub,
	}
}

// testCodes is a small US/GB catalog. Both Springfields share a name so
// that hints decide between them.
func testCodes() []Code {
	nyc := loc("US NYC", "US", "NY", "New York", ll(40.7, -74.0), "NYC")
	nyc.Function = "12345---"
	nyc.IATA = "NYC"
	bos := loc("US BOS", "US", "MA", "Boston", ll(42.36, -71.06))
	bos.IATA = "BOS"
	bos.Function = "1--4----"

	return []Code{
		&State{Entity: Entity{ID: "US", Names: []string{"United States", "USA"}}, ISO3: "USA"},
		&State{Entity: Entity{ID: "GB", Names: []string{"United Kingdom"}}, ISO3: "GBR"},
		NewSubdivision("US", "NY", "state", "New York"),
		NewSubdivision("US", "MA", "state", "Massachusetts"),
		NewSubdivision("US", "IL", "state", "Illinois"),
		NewSubdivision("US", "MO", "state", "Missouri"),
		nyc,
		bos,
		loc("US SPI", "US", "IL", "Springfield", ll(39.8, -89.65)),
		loc("US SGF", "US", "MO", "Springfield", ll(37.2, -93.3)),
		loc("GB LON", "GB", "", "London", ll(51.5, -0.12)),
		loc("GB NWH", "GB", "", "Nowhere", nil),
	}
}

func testCatalog() *Catalog {
	return NewCatalog(testCodes())
}
