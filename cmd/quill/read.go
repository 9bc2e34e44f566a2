package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quill/internal/driver"
	"quill/internal/source"
)

var readCmd = &cobra.Command{
	Use:   "read [flags] file.ql",
	Short: "Read a quill source file into syntax objects",
	Long:  `Read parses a quill source file and dumps the resulting syntax objects`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRead,
}

func runRead(cmd *cobra.Command, args []string) error {
	opts, err := driverOptions(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Read(args[0], opts)
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}

	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		driver.PrintDiagnostics(os.Stderr, result.Bag, result.FileSet, useColor(cmd, os.Stderr))
	}
	if result.Bag.HasErrors() {
		return fmt.Errorf("read produced errors")
	}

	if result.Read.Lang != source.NoStringID {
		fmt.Fprintf(os.Stdout, "#lang %s\n", result.Strings.MustLookup(result.Read.Lang))
	}
	for _, form := range result.Read.Body {
		fmt.Fprintln(os.Stdout, form.Dump(result.Strings))
	}
	return nil
}
