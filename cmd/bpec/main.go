// Command bpec trains a BPE dictionary from an input file and writes the
// trained token stream and dictionary to disk.
package main

import (
	"context"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/bytepair/bpec/bpe"
	"github.com/bytepair/bpec/internal/config"
	"github.com/bytepair/bpec/internal/tokenfile"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "bpec: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("bpec", flag.ContinueOnError)
	flagSet.Usage = func() {
		fmt.Fprintf(flagSet.Output(), "Usage: bpec [options] <input-path>\n\nOptions:\n")
		flagSet.PrintDefaults()
	}

	workers := flagSet.Int("workers", 0, "frequency-counting worker count (0 = use config/default)")
	chunkSize := flagSet.Int("chunk-size", 0, "work-stealing chunk size in tokens (0 = use config/default)")
	configPath := flagSet.StringP("config", "c", "", "path to a JSONC config file")
	outDict := flagSet.StringP("dict-out", "d", "", "dictionary output path (default: <input-path>.bpdict)")
	outTokens := flagSet.StringP("tokens-out", "t", "", "token stream output path (default: <input-path>.bptok)")

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	if flagSet.NArg() != 1 {
		flagSet.Usage()
		return fmt.Errorf("exactly one input path is required")
	}
	inputPath := flagSet.Arg(0)

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getwd: %w", err)
	}

	cfg, err := config.Load(workDir, *configPath)
	if err != nil {
		return err
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *chunkSize > 0 {
		cfg.ChunkSizeBytes = *chunkSize
	}

	input, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", inputPath, err)
	}

	opts := bpe.DefaultOptions()
	opts.Counter = cfg.ToCounterOptions()

	result, err := bpe.Compress(context.Background(), input, opts)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	dictPath := *outDict
	if dictPath == "" {
		dictPath = inputPath + ".bpdict"
	}
	if err := bpe.SaveDictionary(result.Dictionary, dictPath); err != nil {
		return fmt.Errorf("save dictionary: %w", err)
	}

	tokensPath := *outTokens
	if tokensPath == "" {
		tokensPath = inputPath + ".bptok"
	}
	if err := tokenfile.Write(tokensPath, result.Tokens); err != nil {
		return fmt.Errorf("save tokens: %w", err)
	}

	fmt.Printf("trained %d symbols over %d bytes -> %d tokens\n",
		result.Dictionary.Len(), len(input), len(result.Tokens))
	fmt.Printf("dictionary: %s\n", dictPath)
	fmt.Printf("tokens:     %s\n", tokensPath)
	return nil
}
