package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quill/internal/driver"
	"quill/internal/project"
	"quill/internal/trace"
)

// driverOptions собирает driver.Options из флагов и ближайшего quill.toml.
// Флаги командной строки имеют приоритет над манифестом.
func driverOptions(cmd *cobra.Command) (driver.Options, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	traceFlag, err := cmd.Root().PersistentFlags().GetString("trace")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get trace flag: %w", err)
	}

	// значения по умолчанию из манифеста, если он есть
	if manifest, ok, merr := project.LoadNearest("."); merr == nil && ok {
		if maxDiagnostics == 0 {
			maxDiagnostics = manifest.Config.Expand.MaxDiagnostics
		}
		if traceFlag == "off" && manifest.Config.Expand.Trace != "" {
			traceFlag = manifest.Config.Expand.Trace
		}
	}

	level, err := trace.ParseLevel(traceFlag)
	if err != nil {
		return driver.Options{}, err
	}

	return driver.Options{
		MaxDiagnostics: maxDiagnostics,
		Tracer:         trace.New(os.Stderr, level),
	}, nil
}

// useColor решает по флагу --color и терминалу, красить ли вывод.
func useColor(cmd *cobra.Command, f *os.File) bool {
	colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f))
}
