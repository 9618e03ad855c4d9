package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"incfix/internal/directive"
	"incfix/internal/driver"
	"incfix/internal/symbols"
)

var insertCmd = &cobra.Command{
	Use:   "insert [flags] <directive> <file>...",
	Short: "Add an #include directive to files that lack it",
	Long: `Insert #include <name> or #include "name" into every file that does not
contain it yet. The directive goes in front of the first include of the same
style (for quoted includes, the second one, since the first is usually the
file's own header), else in front of the first include of the other style,
else at the top of the file.

A directive given as <name> is an angle include; "name" or a bare name is a
quoted include.`,
	Example: `  incfix insert '<vector>' src/*.cc
  incfix insert -e"for absl::StrCat" absl/strings/str_cat.h foo.cc
  incfix insert --symbol StrCat src/*.cc`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInsert,
}

func init() {
	insertCmd.Flags().StringP("explain", "e", "", "print the file name followed by this text for every file that got the directive")
	insertCmd.Flags().IntP("align", "a", 0, "width of the file column printed by --explain (default 40)")
	insertCmd.Flags().String("symbol", "", "look the header up in the symbol index instead of passing a directive")
	insertCmd.Flags().String("index", "", "symbol index to use with --symbol (default from config or .incfix.idx)")
	addBatchFlags(insertCmd)
}

func runInsert(cmd *cobra.Command, args []string) error {
	explanation, err := cmd.Flags().GetString("explain")
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
	if align < 0 {
		return fmt.Errorf("--align must not be negative, got %d", align)
	}
	symbol, err := cmd.Flags().GetString("symbol")
	if err != nil {
		return err
	}

	var (
		target directive.Target
		files  []string
	)
	if symbol != "" {
		target, err = targetForSymbol(cmd, symbol)
		if err != nil {
			return err
		}
		if explanation == "" {
			explanation = symbol
		}
		files = args
	} else {
		if len(args) < 2 {
			return fmt.Errorf("insert: expected a directive and at least one file")
		}
		target, err = directive.ParseTarget(args[0])
		if err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		files = args[1:]
	}
	target = target.WithExplanation(explanation)

	return runBatch(cmd, driver.OpInsert, target, files, align)
}

func targetForSymbol(cmd *cobra.Command, symbol string) (directive.Target, error) {
	indexPath, err := cmd.Flags().GetString("index")
	if err != nil {
		return directive.Target{}, err
	}
	if indexPath == "" {
		indexPath = cfg.Index.Path
	}
	idx, err := symbols.Load(indexPath)
	if err != nil {
		return directive.Target{}, fmt.Errorf("insert: symbol index: %w", err)
	}
	header, err := idx.Resolve(symbol)
	if err != nil {
		return directive.Target{}, fmt.Errorf("insert: %w", err)
	}
	return directive.QuotedTarget(header), nil
}
