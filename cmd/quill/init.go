package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"quill/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Scaffold a quill.toml in the current directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	name := filepath.Base(wd)
	if len(args) == 1 {
		name = args[0]
	}

	path, err := project.Scaffold(wd, name)
	if err != nil {
		return err
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(os.Stdout, "created %s\n", path)
	}
	return nil
}
