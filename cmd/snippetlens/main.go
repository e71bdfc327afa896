package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "snippetlens",
	Short:         "Explain code snippets line by line",
	Long:          `snippetlens annotates a code snippet with an overview, per-line explanations and improvement suggestions`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(languagesCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
