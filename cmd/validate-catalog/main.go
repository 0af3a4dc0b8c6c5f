// Command validate-catalog loads a catalog and reports data-quality defects
// and unresolved subdivision references.
//
// Usage:
//
//	go run ./cmd/validate-catalog ./berlin-data/catalog.json
//
// Exits with status 1 when the catalog cannot be loaded and 2 when it
// loads with defects or inconsistencies.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/andreiashu/berlin"
)

func main() {
	path := "./berlin-data/catalog.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	os.Exit(run(path, os.Stdout, os.Stderr))
}

// run validates the catalog at path and returns the exit status.
func run(path string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "Validating catalog %s...\n", path)
	cat, err := berlin.Load(path)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(out, "      Locations: %d\n", cat.Len(berlin.TypeLocation))
	fmt.Fprintf(out, "      Subdivisions: %d\n", cat.Len(berlin.TypeSubdivision))
	fmt.Fprintf(out, "      States: %d\n", cat.Len(berlin.TypeState))

	status := 0
	for _, d := range cat.Report().Defects {
		fmt.Fprintf(out, "      DEFECT %s\n", d)
		status = 2
	}

	missing, err := berlin.Check(cat)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	for _, st := range missing.States() {
		for _, code := range missing.Codes(st) {
			fmt.Fprintf(out, "      ORPHAN %s:%s (%d locations)\n", st, code, len(missing[st][code]))
		}
		status = 2
	}

	if status == 0 {
		fmt.Fprintln(out, "Catalog is valid.")
	}
	return status
}
