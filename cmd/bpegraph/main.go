// Command bpegraph renders a trained dictionary's merge forest as a
// Graphviz .dot file: one node per symbol, one edge from each composite
// symbol to each of its two children.
package main

import (
	"bufio"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/bytepair/bpec/bpe"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "bpegraph: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("bpegraph", flag.ContinueOnError)
	flagSet.Usage = func() {
		fmt.Fprintf(flagSet.Output(), "Usage: bpegraph [options] <dictionary-path>\n\nOptions:\n")
		flagSet.PrintDefaults()
	}
	includeLeaves := flagSet.Bool("leaves", false, "include the 256 leaf symbols as nodes")
	outPath := flagSet.StringP("out", "o", "", "output .dot path (default: stdout)")

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		flagSet.Usage()
		return fmt.Errorf("exactly one dictionary path is required")
	}

	f, err := os.Open(flagSet.Arg(0))
	if err != nil {
		return fmt.Errorf("open %s: %w", flagSet.Arg(0), err)
	}
	defer f.Close()

	d, err := bpe.LoadDictionary(f)
	if err != nil {
		return fmt.Errorf("load dictionary: %w", err)
	}

	out := os.Stdout
	if *outPath != "" {
		created, err := os.Create(*outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", *outPath, err)
		}
		defer created.Close()
		out = created
	}

	w := bufio.NewWriter(out)
	if err := writeDot(w, d, *includeLeaves); err != nil {
		return err
	}
	return w.Flush()
}

func writeDot(w *bufio.Writer, d *bpe.Dictionary, includeLeaves bool) error {
	fmt.Fprintln(w, "digraph dictionary {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=circle];")

	start := bpe.Symbol(0)
	if !includeLeaves {
		start = 256
	}

	for s := start; int(s) < d.Len(); s++ {
		rule, err := d.Rule(s)
		if err != nil {
			return err
		}
		if rule.A == s {
			fmt.Fprintf(w, "  %d [label=%q];\n", s, fmt.Sprintf("%d (%q)", s, byte(s)))
			continue
		}
		fmt.Fprintf(w, "  %d;\n", s)
		fmt.Fprintf(w, "  %d -> %d;\n", s, rule.A)
		fmt.Fprintf(w, "  %d -> %d;\n", s, rule.B)
	}

	fmt.Fprintln(w, "}")
	return nil
}
