package berlin

import (
	"fmt"
	"slices"
	"strings"

	"github.com/golang/geo/s2"
	"go.uber.org/zap"
)

// DefectKind classifies a data-quality problem found while building a catalog.
type DefectKind string

const (
	DefectNoName             DefectKind = "no-name"
	DefectNoIdentifier       DefectKind = "no-identifier"
	DefectDuplicate          DefectKind = "duplicate"
	DefectInvalidCoordinates DefectKind = "invalid-coordinates"
	DefectUnknownType        DefectKind = "unknown-type"
)

// Defect is one data-quality problem. Defects never stop a catalog from
// being built.
type Defect struct {
	Kind       DefectKind
	Type       CodeType
	Identifier string
	Detail     string
}

func (d Defect) String() string {
	s := fmt.Sprintf("%s %s#%s", d.Kind, d.Type, d.Identifier)
	if d.Detail != "" {
		s += ": " + d.Detail
	}
	return s
}

// Report collects the defects found while loading and indexing codes.
type Report struct {
	Defects []Defect
}

// OK reports whether no defect was found.
func (r Report) OK() bool { return len(r.Defects) == 0 }

// Count returns the number of defects of the given kind.
func (r Report) Count(kind DefectKind) int {
	n := 0
	for _, d := range r.Defects {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Catalog is the in-memory code bank. It is built once and never modified,
// so it is safe for concurrent readers.
type Catalog struct {
	codes   map[CodeType]map[string]Code
	order   map[CodeType][]Code
	report  Report
	logger  *zap.Logger
	scoring ScoringConfig
}

// NewCatalog indexes codes by type and identifier. Codes without a name are
// indexed and reported; codes without an identifier, duplicates and codes of
// an unknown type are skipped and reported.
func NewCatalog(codes []Code, opts ...Option) *Catalog {
	cfg := defaultCatalogConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return buildCatalog(codes, nil, cfg)
}

func buildCatalog(codes []Code, defects []Defect, cfg *catalogConfig) *Catalog {
	c := &Catalog{
		codes:   make(map[CodeType]map[string]Code, len(codeTypes)),
		order:   make(map[CodeType][]Code, len(codeTypes)),
		report:  Report{Defects: defects},
		logger:  cfg.logger,
		scoring: cfg.scoring,
	}
	for _, t := range codeTypes {
		c.codes[t] = make(map[string]Code)
	}

	for _, code := range codes {
		if code == nil {
			continue
		}
		t, id := code.CodeType(), code.Identifier()

		byID, ok := c.codes[t]
		if !ok {
			c.flag(Defect{Kind: DefectUnknownType, Type: t, Identifier: id})
			continue
		}
		if id == "" {
			c.flag(Defect{Kind: DefectNoIdentifier, Type: t, Detail: fmt.Sprintf("%q", code.Name())})
			continue
		}
		if _, dup := byID[id]; dup {
			c.flag(Defect{Kind: DefectDuplicate, Type: t, Identifier: id})
			continue
		}
		if len(code.AlternativeNames()) == 0 || code.Name() == "" {
			c.flag(Defect{Kind: DefectNoName, Type: t, Identifier: id})
		}
		if loc, ok := code.(Locatable); ok {
			if ll, has := loc.Coordinates(); has && !validCoordinates(ll) {
				c.flag(Defect{Kind: DefectInvalidCoordinates, Type: t, Identifier: id, Detail: ll.String()})
				if d, ok := code.(coordinateDropper); ok {
					d.dropCoordinates()
				}
			}
		}

		byID[id] = code
		c.order[t] = append(c.order[t], code)
	}

	c.logger.Info("catalog built",
		zap.Int("locations", len(c.order[TypeLocation])),
		zap.Int("subdivisions", len(c.order[TypeSubdivision])),
		zap.Int("states", len(c.order[TypeState])),
		zap.Int("defects", len(c.report.Defects)))
	return c
}

func (c *Catalog) flag(d Defect) {
	c.report.Defects = append(c.report.Defects, d)
	c.logger.Warn("catalog defect",
		zap.String("kind", string(d.Kind)),
		zap.String("type", string(d.Type)),
		zap.String("identifier", d.Identifier),
		zap.String("detail", d.Detail))
}

// coordinateDropper is implemented by codes embedding Entity.
type coordinateDropper interface {
	dropCoordinates()
}

func validCoordinates(ll Coordinates) bool {
	return s2.LatLngFromDegrees(ll.Lat, ll.Lng).IsValid()
}

// Report returns the defects found while the catalog was built.
func (c *Catalog) Report() Report {
	return Report{Defects: slices.Clone(c.report.Defects)}
}

// Scoring returns the scoring constants parsers of this catalog start from.
func (c *Catalog) Scoring() ScoringConfig { return c.scoring }

// Get returns the code with the exact identifier and type, or nil.
func (c *Catalog) Get(id string, t CodeType) Code {
	return c.codes[t][id]
}

// SGet is a forgiving Get: the identifier is trimmed and retried in upper
// case, and an empty type searches states, subdivisions and locations in
// that order. Returns nil when nothing matches.
func (c *Catalog) SGet(id string, t CodeType) Code {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	types := codeTypes
	if t != "" {
		types = []CodeType{t}
	}
	for _, candidate := range []string{id, strings.ToUpper(id)} {
		for _, ct := range types {
			if code := c.Get(candidate, ct); code != nil {
				return code
			}
		}
	}
	return nil
}

// Values returns all codes of a type in load order. The order is the same
// on every call.
func (c *Catalog) Values(t CodeType) []Code {
	return slices.Clone(c.order[t])
}

// Len returns the number of codes of a type.
func (c *Catalog) Len(t CodeType) int {
	return len(c.order[t])
}

// Locations returns all locations in load order.
func (c *Catalog) Locations() []*Location {
	out := make([]*Location, 0, len(c.order[TypeLocation]))
	for _, code := range c.order[TypeLocation] {
		if l, ok := code.(*Location); ok {
			out = append(out, l)
		}
	}
	return out
}

// Parser returns a matcher over this catalog.
func (c *Catalog) Parser(opts ...ParserOption) *Parser {
	p := &Parser{catalog: c, scoring: c.scoring, distances: true}
	for _, opt := range opts {
		opt(p)
	}
	p.names = p.scoring.NameScorer()
	return p
}
