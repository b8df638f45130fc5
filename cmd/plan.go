package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mt4110/quickcut/internal/control"
	"github.com/mt4110/quickcut/internal/mkvtool"
	"github.com/mt4110/quickcut/internal/runner"
)

var (
	planTargetStyle = lipgloss.NewStyle().Bold(true)
	planSkipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0A0A0"))
	planBuildStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
)

var planCmd = &cobra.Command{
	Use:   "plan [controlFilesOrDirs...]",
	Short: "実行計画を表示します (何も実行しません)",
	Long:  `コントロールファイルを読み込み、target ごとの切り出し範囲・パーツ名・スキップ判定を表示します。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := resolveControlFiles(args, cfg.ControlFile)
		if err != nil {
			return err
		}
		for _, file := range files {
			plan, err := loadPlan(file)
			if err != nil {
				return err
			}
			printPlan(cmd.OutOrStdout(), file, plan, newRunner(nil, cfg, file))
		}
		return nil
	},
}

func printPlan(w io.Writer, file string, plan *control.Plan, r *runner.Runner) {
	fmt.Fprintf(w, "%s (%d targets, mode: %s)\n", file, plan.Len(), r.Opts.Mode)
	for _, target := range plan.Targets() {
		action := planBuildStyle.Render("build")
		if r.ShouldSkip(plan, target) {
			action = planSkipStyle.Render("skip (exists)")
		}
		fmt.Fprintf(w, "\n%s  %s\n", planTargetStyle.Render(target), action)

		for i, cut := range plan.Cuts(target) {
			segment := filepath.Base(mkvtool.SegmentPath(target, i+1))
			fmt.Fprintf(w, "  %d. %s [%s - %s] -> %s\n", i+1, cut.Source, cut.CutFrom, cut.CutTo, segment)
		}
		if !r.Opts.Merge {
			fmt.Fprintln(w, planSkipStyle.Render("  (no merge: parts are kept)"))
		}
	}
}

func init() {
	rootCmd.AddCommand(planCmd)
}
