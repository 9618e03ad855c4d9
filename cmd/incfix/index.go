package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"incfix/internal/symbols"
)

var indexCmd = &cobra.Command{
	Use:   "index [flags] <symbol-finder-output>...",
	Short: "Build the symbol index used by insert --symbol",
	Long: `Read the output of the symbol finder (one "symbol file" pair per line,
"-" for stdin), drop duplicate pairs and store the result as a symbol index.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringP("out", "o", "", "index file to write (default from config or .incfix.idx)")
	indexCmd.Flags().Bool("print", false, "print the deduplicated symbol table")
	indexCmd.Flags().IntP("align", "a", 0, "width of the symbol column printed by --print (default 40)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if out == "" {
		out = cfg.Index.Path
	}
	printTable, err := cmd.Flags().GetBool("print")
	if err != nil {
		return err
	}
	align, err := cmd.Flags().GetInt("align")
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("align") {
		align = cfg.Insert.Align
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	acc := symbols.NewAccumulator()
	for _, input := range args {
		if err := parseSymbolInput(cmd.InOrStdin(), input, acc); err != nil {
			return fmt.Errorf("index: %w", err)
		}
	}

	idx := acc.Index()
	if err := idx.Save(out); err != nil {
		return fmt.Errorf("index: %w", err)
	}
	if logger != nil {
		logger.Debug("index written", zap.String("path", out), zap.Int("entries", idx.Len()))
	}

	if printTable {
		if err := symbols.Write(cmd.OutOrStdout(), acc.Entries(), align); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "symbols: %d unique (%d duplicates dropped)\n", acc.Len(), acc.Duplicates())
	return nil
}

func parseSymbolInput(stdin io.Reader, input string, acc *symbols.Accumulator) error {
	add := func(e symbols.Entry) { acc.Add(e) }
	if input == "-" {
		return symbols.Parse(stdin, add)
	}
	// #nosec G304 -- path is provided by the user
	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := symbols.Parse(f, add); err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	return nil
}
