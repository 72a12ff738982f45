package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"preset-selector/preset"
)

var (
	selAbsolutePath string
	selKeywords     string
	selKeywordMode  string
	selMode         string
	selIndex        int
	selSeed         uint64
	selNoWildcards  bool
	selRepeat       int
	selShowInfo     bool
	selShowList     bool
)

var selectCmd = &cobra.Command{
	Use:   "select [file]",
	Short: "Select one preset and print it",
	Long: `Select one preset from a file in the preset directories (or from
--absolute-path) and print its text.

With --repeat N the selection runs N times in one process, so
"Sequential (continue)" walks through the presets and Random with a fixed
seed repeats its pick.

Example:
  preset-selector select shots.txt -k 'front -wide' --keyword-mode AND -m continue --repeat 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSelect,
}

func init() {
	f := selectCmd.Flags()
	f.StringVar(&selAbsolutePath, "absolute-path", "", "absolute path of a preset file (wins over [file])")
	f.StringVarP(&selKeywords, "keywords", "k", "", `keyword query, e.g. 'front, "low angle" -wide'`)
	f.StringVar(&selKeywordMode, "keyword-mode", "OFF", "OFF, AND or OR")
	f.StringVarP(&selMode, "mode", "m", "Manual", `Manual, Sequential, "Sequential (continue)" or Random`)
	f.IntVarP(&selIndex, "index", "i", 0, "preset index (taken modulo the filtered count)")
	f.Uint64Var(&selSeed, "seed", 0, "seed for Random mode and random wildcards")
	f.BoolVar(&selNoWildcards, "no-wildcards", false, "print the preset without expanding wildcards")
	f.IntVar(&selRepeat, "repeat", 1, "number of selections to run")
	f.BoolVar(&selShowInfo, "info", false, "print the selection summary after each pick")
	f.BoolVar(&selShowList, "list", false, "print the numbered preset list first")
}

func runSelect(cmd *cobra.Command, args []string) error {
	km, err := preset.ParseKeywordMode(selKeywordMode)
	if err != nil {
		return err
	}
	sm, err := preset.ParseSelectionMode(selMode)
	if err != nil {
		return err
	}
	if selIndex < 0 {
		return fmt.Errorf("--index must not be negative")
	}
	req := preset.Request{
		AbsolutePath:  selAbsolutePath,
		Keywords:      selKeywords,
		KeywordMode:   km,
		SelectionMode: sm,
		PresetIndex:   selIndex,
		Seed:          selSeed,
		Wildcards:     !selNoWildcards,
	}
	if len(args) > 0 {
		req.Source = args[0]
	}

	engine := newEngine()
	state := preset.NewState()
	out := cmd.OutOrStdout()
	for i := 0; i < max(selRepeat, 1); i++ {
		res := engine.Select(state, req)
		if res.Err != nil {
			if res.Info != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), res.Info)
			}
			return res.Err
		}
		if selShowList && i == 0 {
			fmt.Fprintln(out, res.PresetList)
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, res.Text)
		if selShowInfo {
			fmt.Fprintln(out, res.Info)
		}
	}
	return nil
}
