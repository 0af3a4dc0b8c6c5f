package berlin

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrEmptyQuery is returned when a query has no non-blank component.
	ErrEmptyQuery = errors.New("berlin: empty query")
	// ErrNoCatalog is returned by operations that need a catalog when none is attached.
	ErrNoCatalog = errors.New("berlin: no catalog attached")
)

// QueryError reports a query component or argument that could not be parsed.
type QueryError struct {
	Component string
	Value     string
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("berlin: invalid %s %q: %v", e.Component, e.Value, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// NameComponent is the query component holding the entity name text.
const NameComponent = "name"

// Query maps component names to free text. Tags other than "name" are
// stored upper case.
type Query map[string]string

// Name returns the name component.
func (q Query) Name() string { return q[NameComponent] }

// Set stores a component, replacing an earlier value.
func (q Query) Set(component, value string) {
	q[normalizeComponent(component)] = strings.TrimSpace(value)
}

// Empty reports whether every component is blank.
func (q Query) Empty() bool {
	for _, v := range q {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Components returns the non-blank component names, "name" first and the
// rest sorted.
func (q Query) Components() []string {
	out := make([]string, 0, len(q))
	for k, v := range q {
		if k == NameComponent || strings.TrimSpace(v) == "" {
			continue
		}
		out = append(out, k)
	}
	sort.Strings(out)
	if strings.TrimSpace(q.Name()) != "" {
		out = append([]string{NameComponent}, out...)
	}
	return out
}

func (q Query) String() string {
	parts := make([]string, 0, len(q))
	for _, k := range q.Components() {
		parts = append(parts, fmt.Sprintf("%s=%q", k, q[k]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func normalizeComponent(c string) string {
	c = strings.TrimSpace(c)
	if strings.EqualFold(c, NameComponent) {
		return NameComponent
	}
	return strings.ToUpper(c)
}

// ParseQuery builds a query from command tokens. A token "[TAG]" makes the
// following tokens part of component TAG until the next tag; tokens before
// any tag form the name:
//
//	Springfield [CO] US  ->  {name: "Springfield", CO: "US"}
func ParseQuery(tokens []string) (Query, error) {
	parts := map[string][]string{NameComponent: nil}
	current := NameComponent
	for _, tok := range tokens {
		if len(tok) >= 2 && tok[0] == '[' && tok[len(tok)-1] == ']' {
			tag := strings.TrimSpace(tok[1 : len(tok)-1])
			if tag == "" {
				return nil, &QueryError{Component: "tag", Value: tok, Err: errors.New("empty tag")}
			}
			current = normalizeComponent(tag)
			parts[current] = nil
			continue
		}
		parts[current] = append(parts[current], tok)
	}

	q := make(Query, len(parts))
	for k, v := range parts {
		q[k] = strings.TrimSpace(strings.Join(v, " "))
	}
	if q.Empty() {
		return nil, ErrEmptyQuery
	}
	return q, nil
}

// ParseFloat parses a numeric argument, reporting failures as *QueryError.
func ParseFloat(component, value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, &QueryError{Component: component, Value: value, Err: err}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &QueryError{Component: component, Value: value, Err: errors.New("not a finite number")}
	}
	return f, nil
}

// ParseLatLng parses "lat lng" or "lat,lng" in degrees.
func ParseLatLng(component, value string) (Coordinates, error) {
	fields := strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) != 2 {
		return Coordinates{}, &QueryError{Component: component, Value: value, Err: errors.New("want latitude and longitude")}
	}
	lat, err := ParseFloat(component, fields[0])
	if err != nil {
		return Coordinates{}, err
	}
	lng, err := ParseFloat(component, fields[1])
	if err != nil {
		return Coordinates{}, err
	}
	ll := Coordinates{Lat: lat, Lng: lng}
	if !validCoordinates(ll) {
		return Coordinates{}, &QueryError{Component: component, Value: value, Err: errors.New("coordinates out of range")}
	}
	return ll, nil
}
