package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/mt4110/quickcut/internal/control"
	"github.com/mt4110/quickcut/internal/mkvtool"
	"github.com/mt4110/quickcut/internal/runner"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [controlFilesOrDirs...]",
	Short: "残ったパーツファイルを削除します",
	Long:  `--no-merge や途中で失敗した実行で残った <target>-<n>.mkv を削除します。target 自体は削除しません。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := resolveControlFiles(args, cfg.ControlFile)
		if err != nil {
			return err
		}

		removed := 0
		for _, file := range files {
			plan, err := loadPlan(file)
			if err != nil {
				return err
			}
			segments, err := leftoverSegments(plan, newRunner(nil, cfg, file))
			if err != nil {
				return err
			}
			for _, seg := range segments {
				if cfg.DryRun {
					log.Printf("[DryRun] Would remove %s", seg)
					continue
				}
				if err := os.Remove(seg); err != nil {
					return fmt.Errorf("❌ パーツの削除に失敗: %w", err)
				}
				log.Printf("🗑 %s", seg)
				removed++
			}
		}

		log.Printf("✅ %d 個のパーツを削除しました", removed)
		return nil
	},
}

// leftoverSegments lists existing <target>-<n>.mkv files for every target,
// leaving out files that are targets themselves.
func leftoverSegments(plan *control.Plan, r *runner.Runner) ([]string, error) {
	targets := make(map[string]bool)
	for _, target := range plan.Targets() {
		targets[r.Resolve(target)] = true
	}

	var out []string
	for _, target := range plan.Targets() {
		targetPath := r.Resolve(target)
		base := strings.TrimSuffix(targetPath, filepath.Ext(targetPath))

		matches, err := doublestar.FilepathGlob(escapeMeta(base) + "-*" + mkvtool.SegmentExt)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if isSegmentOf(m, base) && !targets[m] {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func isSegmentOf(path, base string) bool {
	index := strings.TrimSuffix(strings.TrimPrefix(filepath.ToSlash(path), filepath.ToSlash(base)+"-"), mkvtool.SegmentExt)
	n, err := strconv.Atoi(index)
	return err == nil && n > 0 && strconv.Itoa(n) == index
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
