package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/andreiashu/berlin"
)

var (
	// ErrMissingArgument is returned when a command lacks required arguments.
	ErrMissingArgument = errors.New("missing argument")
	// ErrUnknownCommand is returned by Exec for names that resolve to no command.
	ErrUnknownCommand = errors.New("unknown command")
)

// Handler runs commands against a catalog and writes text to out.
type Handler struct {
	catalog  *berlin.Catalog
	out      io.Writer
	logger   *zap.Logger
	handlers map[Command]func(args []string) error
}

// NewHandler returns a handler, or berlin.ErrNoCatalog if cat is nil.
func NewHandler(cat *berlin.Catalog, out io.Writer, logger *zap.Logger) (*Handler, error) {
	if cat == nil {
		return nil, berlin.ErrNoCatalog
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{catalog: cat, out: out, logger: logger}
	h.handlers = map[Command]func([]string) error{
		Consistency:      h.doConsistency,
		QueryByState:     h.doQueryByState,
		Query:            h.doQuery,
		LocodeQuery:      h.typedQuery(berlin.TypeLocation),
		SubdivisionQuery: h.typedQuery(berlin.TypeSubdivision),
		StateQuery:       h.typedQuery(berlin.TypeState),
		Locode:           h.show(berlin.TypeLocation),
		Subdivision:      h.show(berlin.TypeSubdivision),
		State:            h.show(berlin.TypeState),
		Match:            h.doMatch,
		Help:             h.doHelp,
		Point:            h.doPoint,
		Distance:         h.doDistance,
		JSON:             h.doJSON,
	}
	return h, nil
}

// Run executes one command.
func (h *Handler) Run(cmd Command, args []string) error {
	fn, ok := h.handlers[cmd]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownCommand, cmd)
	}
	h.logger.Debug("running command", zap.Stringer("command", cmd), zap.Strings("args", args))
	if err := fn(args); err != nil {
		return fmt.Errorf("%s: %w", cmd, err)
	}
	return nil
}

// Exec parses and runs one line such as "Q 3 Springfield [CO] US".
// Blank lines are ignored.
func (h *Handler) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, ok := Lookup(fields[0])
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}
	return h.Run(cmd, fields[1:])
}

func (h *Handler) printf(format string, a ...any) {
	fmt.Fprintf(h.out, format+"\n", a...)
}

func (h *Handler) doQuery(args []string) error {
	return h.runQuery(h.catalog.Parser(berlin.WithDistances(false)), args)
}

func (h *Handler) doQueryByState(args []string) error {
	if len(args) < 2 {
		return ErrMissingArgument
	}
	p := h.catalog.Parser(
		berlin.WithCodeType(berlin.TypeLocation),
		berlin.WithState(args[0]),
		berlin.WithDistances(false),
	)
	return h.runQuery(p, args[1:])
}

func (h *Handler) typedQuery(t berlin.CodeType) func([]string) error {
	return func(args []string) error {
		return h.runQuery(h.catalog.Parser(berlin.WithCodeType(t), berlin.WithDistances(false)), args)
	}
}

// runQuery takes an optional leading match count; one match prints the
// single best result.
func (h *Handler) runQuery(p *berlin.Parser, args []string) error {
	if len(args) == 0 {
		return ErrMissingArgument
	}
	matches := 1
	if n, err := strconv.Atoi(args[0]); err == nil {
		if n < 1 {
			return &berlin.QueryError{Component: "matches", Value: args[0], Err: errors.New("must be at least 1")}
		}
		matches = n
		args = args[1:]
	}

	q, err := berlin.ParseQuery(args)
	if err != nil {
		return err
	}
	h.printf("%s", q)

	var results []berlin.Match
	if matches == 1 {
		best, err := p.Best(q)
		if err != nil {
			return err
		}
		results = []berlin.Match{best}
	} else {
		results, err = p.Analyse(q, matches)
		if err != nil {
			return err
		}
	}

	if len(results) == 0 {
		h.printf("[NO MATCH]")
	}
	for _, m := range results {
		if m.Code == nil {
			h.printf("[NO MATCH]")
			continue
		}
		h.printf("%s", formatMatch(m, true))
	}
	return nil
}

func (h *Handler) show(t berlin.CodeType) func([]string) error {
	return func(args []string) error {
		if len(args) == 0 {
			return ErrMissingArgument
		}
		c := h.catalog.SGet(strings.Join(args, " "), t)
		if c == nil {
			h.printf("[NOT FOUND]")
			return nil
		}
		h.printf("%s", Paragraph(c))
		return nil
	}
}

func (h *Handler) doJSON(args []string) error {
	if len(args) == 0 {
		return ErrMissingArgument
	}
	c := h.catalog.SGet(strings.Join(args, " "), "")
	if c == nil {
		h.printf("[NOT FOUND]")
		return nil
	}
	b, err := berlin.MarshalCode(c)
	if err != nil {
		return err
	}
	h.printf("%s", b)
	return nil
}

// doMatch scores one code. Location identifiers contain a space, so the
// first two tokens are tried before the first token alone.
func (h *Handler) doMatch(args []string) error {
	var t berlin.CodeType
	if len(args) > 0 && strings.EqualFold(args[0], "[ST]") {
		t = berlin.TypeState
		args = args[1:]
	}
	if len(args) == 0 {
		return ErrMissingArgument
	}

	var (
		code berlin.Code
		rest []string
	)
	if t == "" && len(args) > 1 {
		code, rest = h.catalog.SGet(args[0]+" "+args[1], t), args[2:]
	}
	if code == nil {
		code, rest = h.catalog.SGet(args[0], t), args[1:]
	}
	if code == nil {
		h.printf("[NOT FOUND]")
		return nil
	}

	q, err := berlin.ParseQuery(rest)
	if err != nil {
		return err
	}
	h.printf("%s", q)
	m, err := h.catalog.Parser(berlin.WithCodeType(t), berlin.WithDistances(false)).Match(code, q)
	if err != nil {
		return err
	}
	h.printf("%s", formatMatch(m, false))
	return nil
}

// doPoint takes LAT LNG [RADIUS_KM] or a single geohash.
func (h *Handler) doPoint(args []string) error {
	var (
		ll     berlin.Coordinates
		radius float64
		bound  bool
		err    error
	)
	switch len(args) {
	case 0:
		return ErrMissingArgument
	case 1:
		if ll, err = berlin.DecodeGeohash(args[0]); err != nil {
			return err
		}
	default:
		if ll, err = berlin.ParseLatLng("point", args[0]+" "+args[1]); err != nil {
			return err
		}
		if len(args) > 2 {
			km, err := berlin.ParseFloat("radius", args[2])
			if err != nil {
				return err
			}
			radius, bound = km/berlin.KmPerDegree, true
		}
	}

	p := h.catalog.Parser(berlin.WithCodeType(berlin.TypeLocation))
	code, dist, ok := p.Search(ll.Lat, ll.Lng, radius, bound)
	if !ok {
		h.printf("[NO NEARBY LOCODE]")
		return nil
	}
	h.printf("DISTANCE (deg): %.4f", dist)
	h.printf("%s", Paragraph(code))
	return nil
}

// doDistance takes CODE CODE or CODE LAT LNG. Codes may be given as two
// tokens ("US NYC").
func (h *Handler) doDistance(args []string) error {
	first, rest := h.location(args)
	if first == nil {
		if len(args) == 0 {
			return ErrMissingArgument
		}
		h.printf("[NOT FOUND]")
		return nil
	}
	if len(rest) == 0 {
		return ErrMissingArgument
	}

	if second, tail := h.location(rest); second != nil && len(tail) == 0 {
		d, ok := berlin.Distance(first, second)
		if !ok {
			h.printf("[COULD NOT CALCULATE]")
			return nil
		}
		h.printf("%.4f (in deg)", d)
		if km, ok := berlin.GreatCircleKm(first, second); ok {
			h.printf("%.1f (great-circle km)", km)
		}
		return nil
	}

	if len(rest) != 2 {
		h.printf("[NOT FOUND]")
		return nil
	}
	ll, err := berlin.ParseLatLng("point", rest[0]+" "+rest[1])
	if err != nil {
		return err
	}
	d, ok := berlin.DistanceTo(first, ll.Lat, ll.Lng)
	if !ok {
		h.printf("[COULD NOT CALCULATE]")
		return nil
	}
	h.printf("%.4f (in deg)", d)
	return nil
}

// location resolves a location from the first one or two tokens.
func (h *Handler) location(args []string) (berlin.Code, []string) {
	if len(args) == 0 {
		return nil, nil
	}
	if c := h.catalog.SGet(args[0], berlin.TypeLocation); c != nil {
		return c, args[1:]
	}
	if len(args) > 1 {
		if c := h.catalog.SGet(args[0]+" "+args[1], berlin.TypeLocation); c != nil {
			return c, args[2:]
		}
	}
	return nil, args
}

func (h *Handler) doConsistency(_ []string) error {
	missing, err := berlin.Check(h.catalog)
	if err != nil {
		return err
	}
	if missing.Empty() {
		h.printf("CONSISTENT")
		return nil
	}

	h.printf("INCONSISTENCIES - The following subdivisions could not be matched")
	for _, st := range missing.States() {
		label := st
		if s := h.catalog.Get(st, berlin.TypeState); s != nil && s.Name() != "" {
			label = s.Name()
		}
		var groups []string
		for _, code := range missing.Codes(st) {
			var names []string
			for _, loc := range missing[st][code] {
				names = append(names, loc.Name())
			}
			groups = append(groups, fmt.Sprintf("%s (%s)", code, strings.Join(names, ", ")))
		}
		h.printf("%s: %s", label, strings.Join(groups, ", "))
	}
	return nil
}

func (h *Handler) doHelp(args []string) error {
	if len(args) > 0 {
		cmd, ok := Lookup(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
		}
		h.printf("%s %s\n%s", cmd, cmd.Usage(), cmd.Doc())
		return nil
	}

	lines := make([]string, 0, len(allCommands))
	for _, cmd := range allCommands {
		lines = append(lines, strings.Join(registry[cmd].names, " "))
	}
	sort.SliceStable(lines, func(i, j int) bool { return len(lines[i]) < len(lines[j]) })
	h.printf("%s", strings.Join(lines, "\n"))
	return nil
}
