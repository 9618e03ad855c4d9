package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"incfix/internal/driver"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// shouldUseTUI decides whether to show the progress view. In auto mode it is
// only worth it for more than one file on an interactive stdout. Filtering
// stdin writes the result to stdout, so the view never runs then.
func shouldUseTUI(mode uiMode, files []string) bool {
	if slices.Contains(files, driver.StdinPath) {
		return false
	}
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return len(files) > 1 && isTerminal(os.Stdout)
	}
}
