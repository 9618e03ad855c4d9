package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"incfix/internal/directive"
	"incfix/internal/driver"
	"incfix/internal/logging"
	"incfix/internal/rewrite"
	"incfix/internal/source"
)

// addBatchFlags registers the flags shared by the file-editing commands.
func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("jobs", "j", 0, "files processed in parallel (default: number of CPUs)")
	cmd.Flags().Bool("dry-run", false, "print the planned edits without writing")
	cmd.Flags().Bool("check-unchanged", false, "refuse to replace files modified after they were read")
}

type batchSettings struct {
	jobs           int
	dryRun         bool
	checkUnchanged bool
	quiet          bool
	timings        bool
	timingsJSON    bool
	pathMode       string
	ui             uiMode
}

// readBatchSettings merges flags over the loaded config.
func readBatchSettings(cmd *cobra.Command) (batchSettings, error) {
	var s batchSettings
	var err error

	if s.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return s, err
	}
	if !cmd.Flags().Changed("jobs") {
		s.jobs = cfg.Insert.Jobs
	}
	if s.jobs < 0 {
		return s, fmt.Errorf("--jobs must not be negative, got %d", s.jobs)
	}
	if s.dryRun, err = cmd.Flags().GetBool("dry-run"); err != nil {
		return s, err
	}
	if s.checkUnchanged, err = cmd.Flags().GetBool("check-unchanged"); err != nil {
		return s, err
	}
	if !cmd.Flags().Changed("check-unchanged") {
		s.checkUnchanged = cfg.Insert.CheckUnchanged
	}
	if s.quiet, err = cmd.Flags().GetBool("quiet"); err != nil {
		return s, err
	}
	if !cmd.Flags().Changed("quiet") {
		s.quiet = cfg.Insert.Quiet
	}
	if s.timings, err = cmd.Flags().GetBool("timings"); err != nil {
		return s, err
	}
	format, err := cmd.Flags().GetString("timings-format")
	if err != nil {
		return s, err
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text":
	case "json":
		s.timingsJSON = true
	default:
		return s, fmt.Errorf("invalid --timings-format value %q (expected text|json)", format)
	}
	if s.pathMode, err = stringSetting(cmd, "path-mode", cfg.UI.PathMode); err != nil {
		return s, err
	}
	if !source.ValidPathMode(s.pathMode) {
		return s, fmt.Errorf("invalid --path-mode value %q (expected %s)", s.pathMode, strings.Join(source.PathModes, "|"))
	}
	mode, err := stringSetting(cmd, "ui", cfg.UI.Mode)
	if err != nil {
		return s, err
	}
	if s.ui, err = readUIMode(mode); err != nil {
		return s, err
	}
	return s, nil
}

// runBatch drives op over files and reports every outcome. It returns
// errFailed when any file failed so that the process exits with 1.
func runBatch(cmd *cobra.Command, op driver.Op, target directive.Target, files []string, align int) error {
	settings, err := readBatchSettings(cmd)
	if err != nil {
		return err
	}

	cleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	// дубликаты обрабатываются один раз, и прогресс видит тот же список
	files = driver.DedupPaths(files)

	log := logging.OrNop(logger)
	req := driver.Request{
		Op:      op,
		Target:  target,
		Jobs:    settings.jobs,
		DryRun:  settings.dryRun,
		Rewrite: rewrite.Options{CheckUnchanged: settings.checkUnchanged},
		Logger:  log,
		Stdin:   cmd.InOrStdin(),
		Stdout:  cmd.OutOrStdout(),
	}
	log.Debug("batch", zap.String("op", op.String()), zap.String("directive", target.Text),
		zap.Int("files", len(files)), zap.Int("jobs", settings.jobs))

	var results []driver.FileResult
	if shouldUseTUI(settings.ui, files) {
		results, err = runBatchWithUI(cmd.Context(), fmt.Sprintf("%s %s", op, target.Text), files, req)
	} else {
		results, err = driver.Run(cmd.Context(), files, req)
	}

	rep := &reporter{
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
		quiet:    settings.quiet,
		align:    align,
		dryRun:   settings.dryRun,
		pathMode: settings.pathMode,
		log:      log,
	}
	for _, res := range results {
		rep.report(op, target, res)
	}
	if err != nil {
		return err
	}

	if settings.timings {
		if err := printTimings(cmd.ErrOrStderr(), op, results, settings.timingsJSON); err != nil {
			return err
		}
	}

	summary := driver.Summarize(results)
	log.Debug("batch done", zap.Int("changed", summary.Changed), zap.Int("unchanged", summary.NoOps),
		zap.Int("planned", summary.Planned), zap.Int("failed", summary.Failed))
	if !summary.OK() {
		return errFailed
	}
	return nil
}

func printTimings(out io.Writer, op driver.Op, results []driver.FileResult, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprint(out, driver.Timings(results).Summary())
		return err
	}
	data, err := driver.TimingsJSON(op, results)
	if err != nil {
		return fmt.Errorf("encode timings: %w", err)
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}
