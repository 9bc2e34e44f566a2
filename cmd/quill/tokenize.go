package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quill/internal/diagfmt"
	"quill/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.ql",
	Short: "Tokenize a quill source file",
	Long:  `Tokenize breaks a quill source file into its constituent tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	opts, err := driverOptions(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(args[0], opts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		driver.PrintDiagnostics(os.Stderr, result.Bag, result.FileSet, useColor(cmd, os.Stderr))
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
