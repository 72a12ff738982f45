package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"preset-selector/preset"
)

var listCmd = &cobra.Command{
	Use:   "list [file]",
	Short: "List preset files, or the numbered presets of one file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := newEngine()
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, f := range engine.Loader().ListFiles() {
				fmt.Fprintln(out, f)
			}
			return nil
		}
		lines := engine.Loader().Load(args[0])
		fmt.Fprintln(out, preset.GeneratePresetList(lines))
		return nil
	},
}
