package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"quill/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Quill macro-language front end",
	Long:  `Quill reads S-expression syntax and expands hygienic macros into a core term`,
}

func main() {
	// версия для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("trace", "off", "trace level (off|phase|task)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
