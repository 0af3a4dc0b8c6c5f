package berlin

import (
	"fmt"
	"strings"
)

// CodeType identifies the kind of catalog entry.
type CodeType string

const (
	TypeLocation    CodeType = "locode"
	TypeSubdivision CodeType = "subdivision"
	TypeState       CodeType = "state"
)

// codeTypes is the fixed iteration order used when no type is requested.
var codeTypes = []CodeType{TypeState, TypeSubdivision, TypeLocation}

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lng)
}

// Code is a single catalog entry: a location, a subdivision or a state.
type Code interface {
	Identifier() string
	CodeType() CodeType
	AlternativeNames() []string
	Name() string
	NameScore(test string) float64
}

// Locatable is implemented by codes that may carry coordinates.
type Locatable interface {
	Coordinates() (Coordinates, bool)
}

// StateScoped is implemented by codes that belong to a state.
type StateScoped interface {
	StateCode() string
}

// SubdivisionScoped is implemented by codes holding a subdivision reference.
// SubdivisionRef returns the code within the state ("NY"), or "" when unset.
type SubdivisionScoped interface {
	StateScoped
	SubdivisionRef() string
}

// Field is a named, set value of a code, used for display.
type Field struct {
	Name  string
	Value string
}

// Fielder lists the type-specific fields of a code in display order.
// Unset fields are omitted.
type Fielder interface {
	Fields() []Field
}

// Entity holds what every code carries. The first name is the preferred one.
// Entities are treated as read-only once they are part of a Catalog.
type Entity struct {
	ID     string
	Names  []string
	Coords *Coordinates
}

func (e *Entity) Identifier() string { return e.ID }

// AlternativeNames returns the names of the entity. The slice must not be modified.
func (e *Entity) AlternativeNames() []string { return e.Names }

// Name returns the preferred name, or "" for an unnamed entity.
func (e *Entity) Name() string {
	if len(e.Names) == 0 {
		return ""
	}
	return e.Names[0]
}

func (e *Entity) Coordinates() (Coordinates, bool) {
	if e.Coords == nil {
		return Coordinates{}, false
	}
	return *e.Coords, true
}

func (e *Entity) dropCoordinates() { e.Coords = nil }

// NameScore scores test against the entity's names with the default constants.
func (e *Entity) NameScore(test string) float64 {
	s, _ := DefaultNameScorer.Score(e.Names, test)
	return s
}

// Location is a UN/LOCODE location, identified as "US NYC".
type Location struct {
	Entity
	State           string // supercode, e.g. "US"
	SubdivisionCode string // e.g. "NY", empty when the source gives none
	Function        string // function classifier, e.g. "1-3-----"
	IATA            string
	Status          string
	Date            string
	Remarks         string
}

func (l *Location) CodeType() CodeType     { return TypeLocation }
func (l *Location) StateCode() string      { return l.State }
func (l *Location) SubdivisionRef() string { return l.SubdivisionCode }

// SubdivisionID returns the catalog identifier of the referenced subdivision,
// or "" when no subdivision is set.
func (l *Location) SubdivisionID() string {
	if l.SubdivisionCode == "" {
		return ""
	}
	return SubdivisionID(l.State, l.SubdivisionCode)
}

func (l *Location) Fields() []Field {
	return nonEmpty(
		Field{"supercode", l.State},
		Field{"subdivision_code", l.SubdivisionCode},
		Field{"function", l.Function},
		Field{"iata", l.IATA},
		Field{"status", l.Status},
		Field{"date", l.Date},
		Field{"remarks", l.Remarks},
	)
}

// HasFunction reports whether the function classifier lists fn ("1" port,
// "3" road terminal, ...).
func (l *Location) HasFunction(fn string) bool {
	return fn != "" && fn != "-" && strings.Contains(l.Function, fn)
}

// Subdivision is a first-level administrative division of a state.
type Subdivision struct {
	Entity
	State string
	Code  string
	Kind  string // "state", "province", ...
}

// NewSubdivision builds a subdivision whose identifier is SubdivisionID(state, code).
func NewSubdivision(state, code, kind string, names ...string) *Subdivision {
	return &Subdivision{
		Entity: Entity{ID: SubdivisionID(state, code), Names: names},
		State:  state,
		Code:   code,
		Kind:   kind,
	}
}

// SubdivisionID joins a state and a subdivision code into a catalog identifier.
func SubdivisionID(state, code string) string {
	return state + ":" + code
}

func (s *Subdivision) CodeType() CodeType { return TypeSubdivision }
func (s *Subdivision) StateCode() string  { return s.State }

func (s *Subdivision) Fields() []Field {
	return nonEmpty(
		Field{"supercode", s.State},
		Field{"code", s.Code},
		Field{"type", s.Kind},
	)
}

// State is a country (or state-level entity) keyed by its ISO 3166 code.
type State struct {
	Entity
	ISO3      string
	Continent string
}

func (s *State) CodeType() CodeType { return TypeState }

// StateCode is the state's own code, so a state is in scope of itself.
func (s *State) StateCode() string { return s.ID }

func (s *State) Fields() []Field {
	return nonEmpty(
		Field{"iso3", s.ISO3},
		Field{"continent", s.Continent},
	)
}

// Repr returns the short form <bln|type#id|"name">.
func Repr(c Code) string {
	if c == nil {
		return "<bln|nil>"
	}
	var b strings.Builder
	b.WriteString("<bln|")
	if t := c.CodeType(); t != "" {
		b.WriteString(string(t))
		b.WriteByte('#')
	}
	b.WriteString(c.Identifier())
	if n := c.Name(); n != "" {
		fmt.Fprintf(&b, "|%q", n)
	}
	b.WriteByte('>')
	return b.String()
}

func nonEmpty(fields ...Field) []Field {
	out := fields[:0]
	for _, f := range fields {
		if f.Value != "" {
			out = append(out, f)
		}
	}
	return out
}
