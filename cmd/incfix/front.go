package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"incfix/internal/directive"
	"incfix/internal/driver"
)

var frontCmd = &cobra.Command{
	Use:   "front [flags] <header> <file>...",
	Short: "Move an #include directive in front of all others",
	Long: `If #include "header" is found in a file, move that line, trailing comment
included, in front of the first #include of the file. A blank line separates
it from the rest unless one already follows it.

Typical use is putting a source file's own header first:
  incfix front foo/bar.h src/foo/bar.cc`,
	Args: cobra.MinimumNArgs(2),
	RunE: runFront,
}

func init() {
	addBatchFlags(frontCmd)
}

func runFront(cmd *cobra.Command, args []string) error {
	target, err := directive.ParseTarget(args[0])
	if err != nil {
		return fmt.Errorf("front: %w", err)
	}
	return runBatch(cmd, driver.OpFront, target, args[1:], cfg.Insert.Align)
}
