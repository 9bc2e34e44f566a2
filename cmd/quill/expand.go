package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quill/internal/diagfmt"
	"quill/internal/driver"
	"quill/internal/project"
)

var expandCmd = &cobra.Command{
	Use:   "expand [flags] path",
	Short: "Expand a quill file (or every .ql file in a directory)",
	Long:  `Expand runs the hygienic macro expander and prints the resulting core term`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExpand,
}

func init() {
	expandCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	expandCmd.Flags().Int("jobs", 0, "parallel jobs for directory expansion (0 = NumCPU)")
	expandCmd.Flags().Bool("no-cache", false, "skip the on-disk expansion cache")
}

func runExpand(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	showTimings, _ := cmd.Root().PersistentFlags().GetBool("timings")

	opts, err := driverOptions(cmd)
	if err != nil {
		return err
	}
	if !noCache {
		if cache, cerr := driver.OpenDiskCache("quill"); cerr == nil {
			opts.Cache = cache
		}
	}

	info, err := os.Stat(args[0])
	if err != nil {
		return err
	}
	if info.IsDir() {
		return expandDirectory(cmd, args[0], jobs, format, opts)
	}
	return expandFile(cmd, args[0], format, showTimings, opts)
}

func expandFile(cmd *cobra.Command, path, format string, showTimings bool, opts driver.Options) error {
	result, err := driver.Expand(path, opts)
	if err != nil {
		return fmt.Errorf("expansion failed: %w", err)
	}

	if result.Bag.Len() > 0 {
		driver.PrintDiagnostics(os.Stderr, result.Bag, result.FileSet, useColor(cmd, os.Stderr))
	}
	if result.Bag.HasErrors() {
		return fmt.Errorf("expansion produced errors")
	}

	if showTimings && result.Timer != nil {
		fmt.Fprint(os.Stderr, result.Timer.Summary())
	}

	switch format {
	case "pretty":
		fmt.Fprintln(os.Stdout, result.Pretty)
		return nil
	case "json":
		return diagfmt.FormatCoreJSON(os.Stdout, result.Tree, result.Strings)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func expandDirectory(cmd *cobra.Command, dir string, jobs int, format string, opts driver.Options) error {
	if jobs == 0 {
		if manifest, ok, err := project.LoadNearest(dir); err == nil && ok {
			jobs = manifest.Config.Expand.Jobs
		}
	}

	results, err := driver.ExpandDir(context.Background(), dir, jobs, opts)
	if err != nil {
		return fmt.Errorf("directory expansion failed: %w", err)
	}

	failed := 0
	for _, r := range results {
		fmt.Fprintf(os.Stdout, "== %s\n", r.Path)
		if r.Result.Bag.Len() > 0 {
			driver.PrintDiagnostics(os.Stderr, r.Result.Bag, r.Result.FileSet, useColor(cmd, os.Stderr))
		}
		if r.Result.Bag.HasErrors() {
			failed++
			continue
		}
		switch format {
		case "json":
			if err := diagfmt.FormatCoreJSON(os.Stdout, r.Result.Tree, r.Result.Strings); err != nil {
				return err
			}
		default:
			fmt.Fprintln(os.Stdout, r.Result.Pretty)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed to expand", failed)
	}
	return nil
}
