package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mt4110/quickcut/internal/config"
	"github.com/mt4110/quickcut/internal/control"
	"github.com/mt4110/quickcut/internal/mkvtool"
	"github.com/mt4110/quickcut/internal/runner"
)

func newTool(c *config.Config) *mkvtool.Tool {
	tool := mkvtool.New(c.MkvmergeBin)
	tool.SplitWarnCodes = c.SplitWarnCodes
	tool.MergeWarnCodes = c.MergeWarnCodes
	tool.DryRun = c.DryRun
	return tool
}

func runnerOptions(c *config.Config, controlFile string) runner.Options {
	opts := runner.DefaultOptions()
	opts.SkipExisting = !c.NoSkip
	opts.Merge = !c.NoMerge
	opts.AlwaysRebuildLast = c.AlwaysRebuildLast
	opts.DryRun = c.DryRun
	if c.PartsTimecodes {
		opts.Mode = mkvtool.Timecodes
	}
	opts.BaseDir = filepath.Dir(controlFile)
	return opts
}

func newRunner(tool runner.Cutter, c *config.Config, controlFile string) *runner.Runner {
	return runner.New(tool, runnerOptions(c, controlFile))
}

// loadPlan loads a control file and reports rows that were dropped.
func loadPlan(file string) (*control.Plan, error) {
	plan, stats, err := control.Load(file)
	if err != nil {
		return nil, err
	}
	if stats.Skipped > 0 {
		log.Printf("ℹ️ %s: %d/%d rows skipped (need source,target,cut_from,cut_to)", file, stats.Skipped, stats.Rows)
	}
	return plan, nil
}

func runControlFile(ctx context.Context, tool runner.Cutter, c *config.Config, file string) (runner.Summary, error) {
	log.Printf("📄 %s", file)
	plan, err := loadPlan(file)
	if err != nil {
		return runner.Summary{}, err
	}
	return newRunner(tool, c, file).Run(ctx, plan)
}

// resolveControlFiles expands the arguments into control file paths.
// Directories are searched recursively for defaultName, patterns are
// expanded with doublestar, and plain paths are kept even when they do not
// exist so that loading reports them.
func resolveControlFiles(args []string, defaultName string) ([]string, error) {
	if defaultName == "" {
		defaultName = control.DefaultFile
	}
	if len(args) == 0 {
		return []string{defaultName}, nil
	}

	home, _ := os.UserHomeDir()
	var files []string
	for _, input := range args {
		processedInput := input
		if input == "~" {
			processedInput = home
		} else if strings.HasPrefix(input, "~/") {
			processedInput = filepath.Join(home, input[2:])
		}

		info, err := os.Stat(processedInput)
		if err == nil && info.IsDir() {
			matches, err := doublestar.FilepathGlob(filepath.Join(escapeMeta(processedInput), "**", escapeMeta(defaultName)))
			if err != nil {
				return nil, fmt.Errorf("パターン '%s' の検索に失敗しました: %w", input, err)
			}
			if len(matches) == 0 {
				log.Printf("警告: %s に %s が見つかりません", input, defaultName)
			}
			files = append(files, matches...)
			continue
		}

		if err == nil || !hasMeta(processedInput) {
			files = append(files, processedInput)
			continue
		}

		matches, err := doublestar.FilepathGlob(processedInput)
		if err != nil {
			return nil, fmt.Errorf("パターン '%s' の検索に失敗しました: %w", input, err)
		}
		if len(matches) == 0 {
			log.Printf("警告: パターン '%s' に一致するファイルがありません", input)
		}
		files = append(files, matches...)
	}

	// Unique
	seen := make(map[string]bool)
	var result []string
	for _, f := range files {
		if !seen[f] {
			seen[f] = true
			result = append(result, f)
		}
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("no control file found in %v", args)
	}
	return result, nil
}

const globMeta = "*?[]{}"

func hasMeta(path string) bool {
	return strings.ContainsAny(path, globMeta)
}

// escapeMeta quotes glob metacharacters so path matches only itself.
func escapeMeta(path string) string {
	if !hasMeta(path) {
		return path
	}
	var b strings.Builder
	for _, r := range path {
		if strings.ContainsRune(globMeta, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
