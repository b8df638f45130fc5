package cmd

import (
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mt4110/quickcut/internal/control"
	"github.com/mt4110/quickcut/internal/logger"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "環境の診断を行います",
	Long:  `mkvmerge のインストール状況、ログディレクトリの権限、コントロールファイルの状態をチェックします。`,
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("🏥 環境診断を開始します...")
		hasError := false

		// 1. mkvmerge check
		tool := newTool(cfg)
		if err := tool.Check(); err != nil {
			log.Printf("❌ %v", err)
			hasError = true
		} else {
			log.Printf("✅ %s found", tool.Bin)
			if version, err := tool.Version(cmd.Context()); err == nil {
				log.Printf("   Version: %s", version)
			}
		}

		// 2. Log Directory check
		logPath := cfg.LogFile
		if logPath == "" {
			logPath = logger.DefaultPath()
		}
		logDir := filepath.Dir(logPath)
		if info, err := os.Stat(logDir); err != nil {
			log.Printf("⚠️ ログディレクトリ (%s) にアクセスできません: %v", logDir, err)
		} else if !info.IsDir() {
			log.Printf("⚠️ %s はディレクトリではありません", logDir)
		} else {
			// Write check
			testFile := filepath.Join(logDir, "quickcut-write-test")
			if f, err := os.Create(testFile); err != nil {
				log.Printf("❌ ログディレクトリへの書き込み権限がありません: %v", err)
				hasError = true
			} else {
				f.Close()
				os.Remove(testFile)
				log.Println("✅ ログディレクトリ権限 OK")
			}
		}

		// 3. Control file check
		if plan, stats, err := control.Load(cfg.ControlFile); err != nil {
			log.Printf("ℹ️ コントロールファイル %s を読み込めません (`quickcut init` で作成できます): %v", cfg.ControlFile, firstLine(err))
		} else {
			log.Printf("✅ %s: %d targets, %d rows (%d skipped)", cfg.ControlFile, plan.Len(), stats.Rows, stats.Skipped)
		}

		if hasError {
			log.Println("\n❌ いくつかの問題が見つかりました。修正してください。")
			os.Exit(1)
		} else {
			log.Println("\n✅ 診断完了: 概ね問題なさそうです！")
		}
	},
}

func firstLine(err error) string {
	s := err.Error()
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
