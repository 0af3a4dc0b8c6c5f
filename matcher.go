package berlin

import (
	"fmt"
	"sort"
	"strings"
)

// Step is one scoring decision, kept for explaining a match.
type Step struct {
	Label        string
	Detail       string
	Contribution float64
}

func (s Step) String() string {
	return fmt.Sprintf("%s:%s:%+.3f", s.Label, s.Detail, s.Contribution)
}

// Match is a scored code. Code is nil when nothing matched.
type Match struct {
	Code  Code
	Score float64
	Trace []Step
}

// Identifier returns the matched code's identifier, or "".
func (m Match) Identifier() string {
	if m.Code == nil {
		return ""
	}
	return m.Code.Identifier()
}

// Parser scores catalog codes against queries. A Parser is immutable and
// may be shared between goroutines.
type Parser struct {
	catalog   *Catalog
	codeType  CodeType
	state     string
	distances bool
	scoring   ScoringConfig
	names     NameScorer
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithCodeType restricts candidates to one code type. Empty means all types.
func WithCodeType(t CodeType) ParserOption {
	return func(p *Parser) { p.codeType = t }
}

// WithState restricts candidates to codes of one state.
func WithState(state string) ParserOption {
	return func(p *Parser) { p.state = strings.ToUpper(strings.TrimSpace(state)) }
}

// WithDistances enables the coordinate ("LL") hint.
func WithDistances(enabled bool) ParserOption {
	return func(p *Parser) { p.distances = enabled }
}

// WithParserScoring overrides the catalog's scoring constants.
func WithParserScoring(s ScoringConfig) ParserOption {
	return func(p *Parser) { p.scoring = s }
}

// NewParser returns a parser over cat, or ErrNoCatalog if cat is nil.
func NewParser(cat *Catalog, opts ...ParserOption) (*Parser, error) {
	if cat == nil {
		return nil, ErrNoCatalog
	}
	return cat.Parser(opts...), nil
}

// candidates lists the codes in scope, in catalog order.
func (p *Parser) candidates() []Code {
	types := codeTypes
	if p.codeType != "" {
		types = []CodeType{p.codeType}
	}
	var out []Code
	for _, t := range types {
		for _, code := range p.catalog.order[t] {
			if p.inScope(code) {
				out = append(out, code)
			}
		}
	}
	return out
}

func (p *Parser) inScope(code Code) bool {
	if p.state == "" {
		return true
	}
	ss, ok := code.(StateScoped)
	return ok && strings.EqualFold(ss.StateCode(), p.state)
}

// Analyse scores every code in scope and returns up to n matches with a
// positive score, best first. Ties keep catalog order. An n below 1 is
// treated as 1. See Best for the single-result form.
func (p *Parser) Analyse(q Query, n int) ([]Match, error) {
	pq, err := p.prepare(q)
	if err != nil {
		return nil, err
	}
	if n < 1 {
		n = 1
	}

	var results []Match
	for _, code := range p.candidates() {
		m := p.score(code, pq)
		if m.Score > 0 {
			results = append(results, m)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > n {
		results = results[:n]
	}
	return results, nil
}

// Best returns the single best match. When nothing scores above zero the
// returned Match has a nil Code and a zero score.
func (p *Parser) Best(q Query) (Match, error) {
	results, err := p.Analyse(q, 1)
	if err != nil {
		return Match{}, err
	}
	if len(results) == 0 {
		return Match{}, nil
	}
	return results[0], nil
}

// Match scores one code against q without searching the catalog.
func (p *Parser) Match(code Code, q Query) (Match, error) {
	if code == nil {
		return Match{}, nil
	}
	pq, err := p.prepare(q)
	if err != nil {
		return Match{}, err
	}
	return p.score(code, pq), nil
}

type hint struct {
	component string
	value     string
	point     Coordinates
}

type preparedQuery struct {
	name  string
	hints []hint
}

// prepare validates q once so scoring itself cannot fail.
func (p *Parser) prepare(q Query) (preparedQuery, error) {
	if p.catalog == nil {
		return preparedQuery{}, ErrNoCatalog
	}
	if q == nil || q.Empty() {
		return preparedQuery{}, ErrEmptyQuery
	}

	var pq preparedQuery
	for _, k := range q.Components() {
		v := strings.TrimSpace(q[k])
		if k == NameComponent {
			pq.name = v
			continue
		}
		h := hint{component: k, value: v}
		if k == "LL" {
			ll, err := ParseLatLng(k, v)
			if err != nil {
				return preparedQuery{}, err
			}
			h.point = ll
		}
		pq.hints = append(pq.hints, h)
	}
	return pq, nil
}

// score combines the weighted name score and the structural hints. The
// total is normalised by the weight of every known query component,
// including hints the code has no value for, so it lies in [-1, 1] and in
// [0, 1] for name-only queries. Only unknown components and a coordinate
// hint with distances disabled carry no weight.
func (p *Parser) score(code Code, pq preparedQuery) Match {
	m := Match{Code: code}
	var total, weights float64

	if pq.name != "" {
		s, tier := p.names.Score(code.AlternativeNames(), pq.name)
		c := p.scoring.NameWeight * s
		m.Trace = append(m.Trace, Step{Label: NameComponent, Detail: fmt.Sprintf("%s %.3f", tier, s), Contribution: c})
		total += c
		weights += p.scoring.NameWeight
	}

	for _, h := range pq.hints {
		step, w := p.scoreHint(code, h)
		m.Trace = append(m.Trace, step)
		total += step.Contribution
		weights += w
	}

	if weights > 0 {
		m.Score = total / weights
	}
	return m
}

// scoreHint returns the step for one hint and its weight. A hint the code
// has no value for keeps its weight and contributes nothing.
func (p *Parser) scoreHint(code Code, h hint) (Step, float64) {
	w := p.scoring.FieldWeight
	switch h.component {
	case "ST", "CO":
		ss, ok := code.(StateScoped)
		if !ok {
			return notApplicable(h.component), w
		}
		ref := ss.StateCode()
		return p.compareRef(h, ref, func() Code { return p.catalog.Get(ref, TypeState) })

	case "SD", "SUB":
		sd, ok := code.(SubdivisionScoped)
		if !ok {
			if s, isSub := code.(*Subdivision); isSub {
				return p.compareRef(h, s.Code, func() Code { return s })
			}
			return notApplicable(h.component), w
		}
		ref := sd.SubdivisionRef()
		return p.compareRef(h, ref, func() Code {
			return p.catalog.Get(SubdivisionID(sd.StateCode(), ref), TypeSubdivision)
		})

	case "IATA":
		l, ok := code.(*Location)
		if !ok || l.IATA == "" {
			return notApplicable(h.component), w
		}
		if strings.EqualFold(l.IATA, h.value) {
			return Step{Label: h.component, Detail: "code " + l.IATA, Contribution: w}, w
		}
		return Step{Label: h.component, Detail: fmt.Sprintf("mismatch %s != %s", h.value, l.IATA), Contribution: -w}, w

	case "FN":
		l, ok := code.(*Location)
		if !ok || l.Function == "" {
			return notApplicable(h.component), w
		}
		if l.HasFunction(h.value) {
			return Step{Label: h.component, Detail: "function " + l.Function, Contribution: w}, w
		}
		return Step{Label: h.component, Detail: fmt.Sprintf("mismatch %s not in %s", h.value, l.Function), Contribution: -w}, w

	case "LL":
		if !p.distances {
			return Step{Label: h.component, Detail: "ignored (distances disabled)"}, 0
		}
		d, ok := DistanceTo(code, h.point.Lat, h.point.Lng)
		if !ok {
			return Step{Label: h.component, Detail: "no coordinates"}, w
		}
		if d <= p.scoring.NearRadius {
			return Step{Label: h.component, Detail: fmt.Sprintf("near %.4f deg", d), Contribution: w}, w
		}
		return Step{Label: h.component, Detail: fmt.Sprintf("far %.4f deg", d), Contribution: -w}, w
	}
	return Step{Label: h.component, Detail: "ignored"}, 0
}

// compareRef compares a hint against a reference held by the code. The hint
// agrees when it equals the reference code or, failing that, names the
// referenced entity well enough.
func (p *Parser) compareRef(h hint, ref string, resolve func() Code) (Step, float64) {
	w := p.scoring.FieldWeight
	if ref == "" {
		return Step{Label: h.component, Detail: "unset"}, w
	}
	if strings.EqualFold(ref, h.value) {
		return Step{Label: h.component, Detail: "code " + ref, Contribution: w}, w
	}
	if target := resolve(); target != nil {
		s, tier := p.names.Score(target.AlternativeNames(), h.value)
		if s >= p.scoring.AgreeThreshold {
			return Step{Label: h.component, Detail: fmt.Sprintf("name %s (%s %.3f)", target.Identifier(), tier, s), Contribution: w}, w
		}
	}
	return Step{Label: h.component, Detail: fmt.Sprintf("mismatch %s != %s", h.value, ref), Contribution: -w}, w
}

func notApplicable(component string) Step {
	return Step{Label: component, Detail: "n/a"}
}
