package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/syssam/dsg/compiler/gen"
	"github.com/syssam/dsg/internal/verify"
)

var (
	okColor   = color.New(color.FgHiGreen)
	failColor = color.New(color.FgRed)
	nounColor = color.New(color.FgCyan)
	dimColor  = color.New(color.FgHiBlack)
)

func okMark() string    { return okColor.Sprint("✔") }
func errorMark() string { return failColor.Sprint("✖") }

// printGenerated prints the module count per top-level directory.
func printGenerated(w io.Writer, modules []gen.Module, dest string) {
	var (
		order  []string
		counts = make(map[string]int)
	)
	for _, m := range modules {
		dir, _, _ := strings.Cut(m.Path, "/")
		if _, ok := counts[dir]; !ok {
			order = append(order, dir)
		}
		counts[dir]++
	}
	fmt.Fprintf(w, "%s Generated %d modules in %s\n", okMark(), len(modules), nounColor.Sprint(dest))
	for _, dir := range order {
		fmt.Fprintf(w, "  %s %s\n", nounColor.Sprintf("%-12s", dir), dimColor.Sprintf("%d modules", counts[dir]))
	}
}

// printValidated prints one line per document.
func printValidated(w io.Writer, paths []string, failed map[string]error) {
	for _, p := range paths {
		if err, ok := failed[p]; ok {
			fmt.Fprintf(w, "%s %s: %v\n", errorMark(), nounColor.Sprint(p), err)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", okMark(), nounColor.Sprint(p))
	}
	if err, ok := failed[""]; ok {
		fmt.Fprintf(w, "%s %v\n", errorMark(), err)
	}
}

// printVerified prints the tables found after a verification.
func printVerified(w io.Writer, r *verify.Report, missing []string) {
	mark := okMark()
	if len(missing) > 0 {
		mark = errorMark()
	}
	fmt.Fprintf(w, "%s Applied %d statements on %s\n", mark, r.Statements, nounColor.Sprint(r.Provider))
	for _, t := range r.Tables {
		fmt.Fprintf(w, "  %s\n", t)
	}
	for _, t := range missing {
		fmt.Fprintf(w, "  %s %s\n", failColor.Sprint(t), dimColor.Sprint("(missing)"))
	}
}
