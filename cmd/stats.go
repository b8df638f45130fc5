package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mt4110/quickcut/internal/logger"
	"github.com/mt4110/quickcut/internal/runner"
)

type buildStats struct {
	Targets  int
	Segments int
	Size     int64
	Duration float64
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "作成統計を表示します",
	Long:  `過去の実行履歴(ログファイル)を集計し、作成した target 数・パーツ数・サイズ・処理時間を表示します。`,
	Run: func(cmd *cobra.Command, args []string) {
		logPath := logger.DefaultPath()
		if cfg != nil && cfg.LogFile != "" {
			logPath = cfg.LogFile
		}

		f, err := os.Open(logPath)
		if err != nil {
			log.Fatalf("ログファイルを開けませんでした: %v", err)
		}
		defer f.Close()

		st := collectStats(f)

		const separator = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
		fmt.Println(separator)
		fmt.Printf("📊 quickcut 統計レポート\n")
		fmt.Println(separator)
		fmt.Printf("作成 target 数: %d 本\n", st.Targets)
		fmt.Printf("切り出しパーツ: %d 個\n", st.Segments)
		fmt.Printf("合計サイズ:     %s\n", formatBytes(st.Size))
		fmt.Printf("合計処理時間:   %s\n", formatDuration(st.Duration))
		fmt.Println(separator)
	},
}

// collectStats sums up the target_result lines of a log. Log lines start
// with a date and file prefix, so the JSON part is cut out first.
func collectStats(r io.Reader) buildStats {
	var st buildStats
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.Index(line, "{")
		if idx == -1 {
			continue
		}

		var entry runner.ResultEntry
		if err := json.Unmarshal([]byte(line[idx:]), &entry); err != nil {
			continue
		}
		if entry.Type != runner.ResultType || entry.DryRun {
			continue
		}
		st.Targets++
		st.Segments += entry.Segments
		st.Size += entry.Size
		st.Duration += entry.DurationSec
	}
	return st
}

func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

func formatDuration(sec float64) string {
	d := time.Duration(sec * float64(time.Second))
	return d.String()
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
