package commands

import (
	"fmt"
	"strings"

	"github.com/andreiashu/berlin"
)

// Describe returns a one-line description of a code and its fields.
func Describe(c berlin.Code) string {
	var fields []string
	if f, ok := c.(berlin.Fielder); ok {
		for _, fv := range f.Fields() {
			fields = append(fields, fmt.Sprintf("%s=%s", fv.Name, fv.Value))
		}
	}
	return fmt.Sprintf("<BerlinCode [%s#%s] with fields {%s}>", c.CodeType(), c.Identifier(), strings.Join(fields, ", "))
}

// Paragraph renders a code over several lines.
func Paragraph(c berlin.Code) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n[DE] %s\n[DF] %s\n", c.Identifier(), Describe(c), c.Identifier())

	if f, ok := c.(berlin.Fielder); ok {
		for _, fv := range f.Fields() {
			fmt.Fprintf(&b, "\n%s: %s", strings.ToUpper(fv.Name), fv.Value)
		}
	}
	if loc, ok := c.(berlin.Locatable); ok {
		if ll, has := loc.Coordinates(); has {
			fmt.Fprintf(&b, "\nCOORDINATES: %s", ll)
			if gh, ok := berlin.Geohash(c); ok {
				fmt.Fprintf(&b, "\nGEOHASH: %s", gh)
			}
		}
	}
	fmt.Fprintf(&b, "\nALTERNATIVE NAMES: [%s]", strings.Join(c.AlternativeNames(), "] ["))
	return b.String()
}

// formatMatch renders a match with its trace and, when it has a code, the
// indented paragraph of the code.
func formatMatch(m berlin.Match, withParagraph bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "MATCH(%s:%.3f):\n", m.Identifier(), m.Score)
	for _, step := range m.Trace {
		fmt.Fprintf(&b, "%s\n", step)
	}
	if withParagraph && m.Code != nil {
		for _, line := range strings.Split(Paragraph(m.Code), "\n") {
			fmt.Fprintf(&b, "    %s\n", line)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
