package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"incfix/internal/config"
	"incfix/internal/logging"
	"incfix/internal/source"
	"incfix/internal/version"
)

var (
	// logger и cfg заполняются в PersistentPreRunE
	logger *zap.Logger
	cfg    = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "incfix",
	Short: "Insert and reorder #include directives in C/C++ sources",
	Long: `incfix edits C and C++ files in place to add a missing #include or to move
an existing one in front of all others. Files are rewritten through a temp
file and a rename, so an interrupted run never leaves a half-written source.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg = loaded

		colorMode, err := stringSetting(cmd, "color", cfg.UI.Color)
		if err != nil {
			return err
		}
		if err := applyColorMode(colorMode); err != nil {
			return err
		}

		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return err
		}
		logger, err = logging.New(verbose)
		if err != nil {
			return err
		}
		if cfg.Path != "" {
			logger.Debug("config loaded", zap.String("path", cfg.Path))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(frontCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress notices about files left unchanged")
	rootCmd.PersistentFlags().Bool("verbose", false, "log every planning decision")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("timings-format", "text", "timing output format (text|json)")
	rootCmd.PersistentFlags().String("path-mode", source.PathAsGiven, "how reported paths are shown ("+strings.Join(source.PathModes, "|")+")")
	rootCmd.PersistentFlags().String("ui", "auto", "progress UI (auto|on|off)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime trace to this file")
	rootCmd.PersistentFlags().String("config", "", "path to "+config.FileName+" (default: search upward from the working directory)")
}

// main executes the root command. Errors are printed once here; commands that
// already reported per-file failures return errFailed, which only sets the exit code.
func main() {
	rootCmd.Version = version.Version

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			printError(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// errFailed marks a run where at least one file failed and was already reported.
var errFailed = errors.New("one or more files failed")

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(".")
}

// stringSetting returns the flag value when it was set explicitly, the config value otherwise.
func stringSetting(cmd *cobra.Command, name, fromConfig string) (string, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", err
	}
	if cmd.Flags().Changed(name) || fromConfig == "" {
		return value, nil
	}
	return fromConfig, nil
}

func applyColorMode(mode string) error {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "", "auto":
		color.NoColor = os.Getenv("NO_COLOR") != "" || !isTerminal(os.Stderr)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
