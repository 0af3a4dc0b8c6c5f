// Package commands implements the berliner command set: a closed list of
// commands, their handlers and the text rendering of codes and matches.
package commands

import "strings"

// Command is one of the fixed commands understood by the Handler.
type Command int

const (
	Consistency Command = iota
	QueryByState
	Query
	LocodeQuery
	SubdivisionQuery
	StateQuery
	Locode
	Subdivision
	State
	Match
	Help
	Point
	Distance
	JSON
)

type commandInfo struct {
	names []string // first name is canonical
	usage string
	doc   string
}

var registry = map[Command]commandInfo{
	Consistency: {[]string{"CONSISTENCY", "C"}, "",
		"Lists locations whose subdivision code does not resolve, grouped by state."},
	QueryByState: {[]string{"QUERYST", "QS"}, "STATE [N] TEXT...",
		"Searches the locations of one state."},
	Query: {[]string{"QUERY", "Q"}, "[N] TEXT... [[TAG] TEXT...]",
		"Searches all codes. Tags: [CO]/[ST] state, [SD] subdivision, [IATA], [FN] function."},
	LocodeQuery: {[]string{"LQUERY", "R"}, "[N] TEXT...",
		"Searches locations only."},
	SubdivisionQuery: {[]string{"SDQUERY", "T"}, "[N] TEXT...",
		"Searches subdivisions only."},
	StateQuery: {[]string{"STQUERY", "U"}, "[N] TEXT...",
		"Searches states only."},
	Locode: {[]string{"LOCODE", "L"}, "CODE",
		"Shows a location, e.g. \"US NYC\"."},
	Subdivision: {[]string{"SUBDIVISION", "B"}, "CODE",
		"Shows a subdivision, e.g. \"US:NY\"."},
	State: {[]string{"STATE", "S"}, "CODE",
		"Shows a state, e.g. \"US\"."},
	Match: {[]string{"MATCH", "M"}, "[[ST]] CODE TEXT...",
		"Scores one code against a query and prints the trace."},
	Help: {[]string{"HELP", "?"}, "[COMMAND]",
		"Lists commands, or describes one."},
	Point: {[]string{"POINT", "P"}, "LAT LNG [RADIUS_KM] | GEOHASH",
		"Finds the nearest location to a point."},
	Distance: {[]string{"DISTANCE", "D"}, "CODE (CODE | LAT LNG)",
		"Distance in degrees between two locations or a location and a point."},
	JSON: {[]string{"JSON", "J"}, "CODE",
		"Prints the catalog record of a code."},
}

// allCommands is the order used by help.
var allCommands = []Command{
	Query, LocodeQuery, SubdivisionQuery, StateQuery, QueryByState,
	Locode, Subdivision, State, JSON,
	Match, Point, Distance, Consistency, Help,
}

// byName resolves every name and alias; built once.
var byName = func() map[string]Command {
	m := make(map[string]Command)
	for cmd, s := range registry {
		for _, n := range s.names {
			m[n] = cmd
		}
	}
	return m
}()

// Lookup resolves a command name or alias, case-insensitively.
func Lookup(name string) (Command, bool) {
	cmd, ok := byName[strings.ToUpper(strings.TrimSpace(name))]
	return cmd, ok
}

// Commands returns every command in help order.
func Commands() []Command {
	return append([]Command(nil), allCommands...)
}

// String returns the canonical name.
func (c Command) String() string {
	if s, ok := registry[c]; ok {
		return s.names[0]
	}
	return "UNKNOWN"
}

// Aliases returns the names other than the canonical one.
func (c Command) Aliases() []string {
	return append([]string(nil), registry[c].names[1:]...)
}

// Usage returns the argument synopsis.
func (c Command) Usage() string { return registry[c].usage }

// Doc returns the one-line description.
func (c Command) Doc() string { return registry[c].doc }
