// Command bpedump renders a trained dictionary as a human-readable table:
// one row per composite symbol, showing its children and its full byte
// expansion.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mattn/go-runewidth"
	flag "github.com/spf13/pflag"

	"github.com/bytepair/bpec/bpe"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "bpedump: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("bpedump", flag.ContinueOnError)
	flagSet.Usage = func() {
		fmt.Fprintf(flagSet.Output(), "Usage: bpedump <dictionary-path>\n\nOptions:\n")
		flagSet.PrintDefaults()
	}
	leavesToo := flagSet.Bool("leaves", false, "also print the 256 leaf entries")

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

	memo := make(map[bpe.Symbol][]byte)
	start := bpe.Symbol(0)
	if !*leavesToo {
		start = 256
	}

	idCol := 0
	for s := start; int(s) < d.Len(); s++ {
		idCol = maxWidth(idCol, strconv.Itoa(int(s)))
	}

	for s := start; int(s) < d.Len(); s++ {
		rule, err := d.Rule(s)
		if err != nil {
			return err
		}
		expansion, err := d.Expand(s, memo)
		if err != nil {
			return fmt.Errorf("expand symbol %d: %w", s, err)
		}
		idStr := strconv.Itoa(int(s))
		pad := idCol - runewidth.StringWidth(idStr)
		if pad < 0 {
			pad = 0
		}
		fmt.Printf("%s%s  (%d, %d)  %q\n", idStr, spaces(pad), rule.A, rule.B, string(expansion))
	}
	return nil
}

func maxWidth(cur int, s string) int {
	w := runewidth.StringWidth(s)
	if w > cur {
		return w
	}
	return cur
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
