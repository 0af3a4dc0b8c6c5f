package berlin

import (
	"errors"
	"math"
	"os"
	"testing"

	. "gopkg.in/check.v1"
)

// Hook up gocheck into the "go test" runner.
func Test(t *testing.T) { TestingT(t) }

type CatalogSuite struct {
	cat *Catalog
}

var _ = Suite(&CatalogSuite{})

func (s *CatalogSuite) SetUpSuite(c *C) {
	s.cat = testCatalog()
}

func (s *CatalogSuite) TestNewCatalog(c *C) {
	c.Assert(s.cat.Report().OK(), Equals, true)
	c.Assert(s.cat.Len(TypeState), Equals, 2)
	c.Assert(s.cat.Len(TypeSubdivision), Equals, 4)
	c.Assert(s.cat.Len(TypeLocation), Equals, 6)
	c.Assert(s.cat.Locations(), HasLen, 6)
}

func (s *CatalogSuite) TestGet(c *C) {
	nyc := s.cat.Get("US NYC", TypeLocation)
	c.Assert(nyc, NotNil)
	c.Assert(nyc.Name(), Equals, "New York")

	c.Assert(s.cat.Get("US NYC", TypeState), IsNil)
	c.Assert(s.cat.Get("US ZZZ", TypeLocation), IsNil)
	c.Assert(s.cat.Get("US:NY", TypeSubdivision), NotNil)
}

func (s *CatalogSuite) TestSGet(c *C) {
	c.Assert(s.cat.SGet(" us nyc ", TypeLocation).Identifier(), Equals, "US NYC")
	c.Assert(s.cat.SGet("us", "").CodeType(), Equals, TypeState)
	c.Assert(s.cat.SGet("us:ny", "").CodeType(), Equals, TypeSubdivision)
	c.Assert(s.cat.SGet("", ""), IsNil)
	c.Assert(s.cat.SGet("nowhere", ""), IsNil)
}

func (s *CatalogSuite) TestValuesOrderIsStable(c *C) {
	first := s.cat.Values(TypeLocation)
	second := s.cat.Values(TypeLocation)
	c.Assert(first, HasLen, len(second))
	for i := range first {
		c.Assert(first[i].Identifier(), Equals, second[i].Identifier())
	}
	c.Assert(first[0].Identifier(), Equals, "US NYC")

	// Callers may not reorder the catalog through the returned slice.
	first[0], first[1] = first[1], first[0]
	c.Assert(s.cat.Values(TypeLocation)[0].Identifier(), Equals, "US NYC")
}

func (s *CatalogSuite) TestDefects(c *C) {
	cat := NewCatalog([]Code{
		&State{Entity: Entity{ID: "US"}},
		&State{Entity: Entity{ID: "US", Names: []string{"Duplicate"}}},
		&State{Entity: Entity{Names: []string{"No identifier"}}},
		loc("XX BAD", "XX", "", "Bad", ll(123, 0)),
		loc("XX OK", "XX", "", "Ok", nil),
	})

	report := cat.Report()
	c.Assert(report.OK(), Equals, false)
	c.Assert(report.Count(DefectNoName), Equals, 1)
	c.Assert(report.Count(DefectDuplicate), Equals, 1)
	c.Assert(report.Count(DefectNoIdentifier), Equals, 1)
	c.Assert(report.Count(DefectInvalidCoordinates), Equals, 1)

	// The nameless state is still queryable; the duplicate is not indexed.
	c.Assert(cat.Get("US", TypeState), NotNil)
	c.Assert(cat.Get("US", TypeState).Name(), Equals, "")
	c.Assert(cat.Len(TypeState), Equals, 1)
	c.Assert(cat.Len(TypeLocation), Equals, 2)

	// Invalid coordinates are dropped, so the location is never placed.
	bad := cat.Get("XX BAD", TypeLocation)
	_, has := bad.(*Location).Coordinates()
	c.Assert(has, Equals, false)
	_, ok := Distance(bad, cat.Get("XX OK", TypeLocation))
	c.Assert(ok, Equals, false)
	_, ok = Geohash(bad)
	c.Assert(ok, Equals, false)
	_, _, ok = cat.Parser().Nearest(123, 0, nil)
	c.Assert(ok, Equals, false)
}

func (s *CatalogSuite) TestLoad(c *C) {
	cat, err := Load("testdata/catalog.json")
	c.Assert(err, IsNil)
	c.Assert(cat.Len(TypeState), Equals, 2)
	c.Assert(cat.Len(TypeSubdivision), Equals, 2)
	c.Assert(cat.Len(TypeLocation), Equals, 5)

	report := cat.Report()
	c.Assert(report.Count(DefectInvalidCoordinates), Equals, 1)
	c.Assert(report.Count(DefectUnknownType), Equals, 1)
	c.Assert(report.Count(DefectNoName), Equals, 1)

	sub := cat.Get("US:NY", TypeSubdivision)
	c.Assert(sub, NotNil)
	c.Assert(sub.(*Subdivision).State, Equals, "US")
	c.Assert(cat.Get("US:MA", TypeSubdivision).(*Subdivision).Code, Equals, "MA")

	nyc := cat.Get("US NYC", TypeLocation).(*Location)
	c.Assert(nyc.AlternativeNames(), DeepEquals, []string{"New York", "NYC"})
	c.Assert(nyc.IATA, Equals, "NYC")
	pos, ok := nyc.Coordinates()
	c.Assert(ok, Equals, true)
	c.Assert(math.Abs(pos.Lat-40.7) < 1e-9, Equals, true)
	c.Assert(pos.Lng, Equals, -74.0)

	lon, _ := cat.Get("GB LON", TypeLocation).(*Location).Coordinates()
	c.Assert(lon, Equals, Coordinates{Lat: 51.5, Lng: -0.12})

	_, ok = cat.Get("GB BAD", TypeLocation).(*Location).Coordinates()
	c.Assert(ok, Equals, false)
}

func (s *CatalogSuite) TestLoadMissingFile(c *C) {
	_, err := Load("testdata/does-not-exist.json")
	c.Assert(err, NotNil)
	c.Assert(errors.Is(err, os.ErrNotExist), Equals, true)
}

func (s *CatalogSuite) TestMarshalCodeRoundTrip(c *C) {
	nyc := s.cat.Get("US NYC", TypeLocation)
	b, err := MarshalCode(nyc)
	c.Assert(err, IsNil)

	f, err := os.CreateTemp(c.MkDir(), "catalog-*.json")
	c.Assert(err, IsNil)
	_, err = f.WriteString("[" + string(b) + "]")
	c.Assert(err, IsNil)
	c.Assert(f.Close(), IsNil)

	cat, err := Load(f.Name())
	c.Assert(err, IsNil)
	got := cat.Get("US NYC", TypeLocation).(*Location)
	c.Assert(got.Fields(), DeepEquals, nyc.(*Location).Fields())
	c.Assert(got.AlternativeNames(), DeepEquals, nyc.AlternativeNames())
	c.Assert(got.Coords, DeepEquals, nyc.(*Location).Coords)
}

func (s *CatalogSuite) TestRepr(c *C) {
	c.Assert(Repr(s.cat.Get("US NYC", TypeLocation)), Equals, `<bln|locode#US NYC|"New York">`)
	c.Assert(Repr(&State{Entity: Entity{ID: "ZZ"}}), Equals, `<bln|state#ZZ>`)
}

func (s *CatalogSuite) TestScoringConfig(c *C) {
	cfg, err := LoadScoringConfig("testdata/scoring.yaml")
	c.Assert(err, IsNil)
	c.Assert(cfg.FieldWeight, Equals, 0.25)
	c.Assert(cfg.NearRadius, Equals, 1.5)
	c.Assert(cfg.NameWeight, Equals, DefaultScoring().NameWeight)
	c.Assert(cfg.FuzzyScale, Equals, DefaultFuzzyScale)

	_, err = LoadScoringConfig("testdata/scoring_invalid.yaml")
	c.Assert(err, ErrorMatches, ".*name_weight must be positive.*")

	cat := NewCatalog(testCodes(), WithScoring(cfg))
	c.Assert(cat.Scoring(), Equals, cfg)
}
