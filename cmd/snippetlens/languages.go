package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"snippetlens/internal/analysis"
	"snippetlens/internal/render"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the accepted language labels",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return err
		}
		useColor, err := render.ColorMode(colorFlag)
		if err != nil {
			return err
		}
		def := color.New(color.FgYellow, color.Bold)
		if useColor {
			def.EnableColor()
		} else {
			def.DisableColor()
		}
		out := cmd.OutOrStdout()
		for _, lang := range analysis.Languages {
			if lang == analysis.DefaultLanguage {
				fmt.Fprintf(out, "%s %s\n", lang, def.Sprint("(default)"))
				continue
			}
			fmt.Fprintln(out, lang)
		}
		return nil
	},
}
