package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/mt4110/quickcut/internal/config"
	"github.com/mt4110/quickcut/internal/logger"
	"github.com/mt4110/quickcut/internal/updater"
	"github.com/mt4110/quickcut/internal/watcher"
)

var (
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "quickcut [controlFilesOrDirs...]",
	Short: "コントロールファイルに従って MKV を切り出し・結合します。",
	Long: `quickcut.csv (source,target,cut_from,cut_to) に書かれた範囲を mkvmerge で切り出し、
target ごとに結合します。既に存在する target はスキップされます (最後の target を除く)。`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {

		// Initialize Config
		loadedCfg, err := config.Load()
		if err != nil {
			log.Printf("設定ファイルの読み込みに失敗しました (デフォルト値を使用します): %v", err)
			loadedCfg = config.NewDefault()
		}
		cfg = loadedCfg

		updateConfigFromFlags(cmd, cfg)

		// Setup Logger
		logger.Setup(cfg.LogFile)

		// Check Updates
		updater.CheckMkvmerge(cfg.MkvmergeBin)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		tool := newTool(cfg)
		if err := tool.Check(); err != nil {
			return err
		}

		files, err := resolveControlFiles(args, cfg.ControlFile)
		if err != nil {
			return err
		}

		if flagWatch {
			if len(files) != 1 {
				return fmt.Errorf("--watch needs exactly one control file, got %d", len(files))
			}
			w := watcher.New(files[0], newRunner(tool, cfg, files[0]), time.Duration(cfg.WatchDebounceMs)*time.Millisecond)
			log.Println("👀 監視モードを開始しました (Ctrl+C で終了)")
			return w.Run(cmd.Context())
		}

		for _, file := range files {
			if _, err := runControlFile(cmd.Context(), tool, cfg, file); err != nil {
				return err
			}
		}
		return nil
	},
}

// Temporary variables for flags
var (
	flagNoMerge        bool
	flagNoSkip         bool
	flagPartsTimecodes bool
	flagMkvmergeBin    string
	flagLogFile        string
	flagDryRun         bool
	flagWatch          bool
	flagProfile        string
)

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoMerge, "no-merge", false, "結合せず、切り出したパーツを残す")
	rootCmd.PersistentFlags().BoolVar(&flagNoSkip, "no-skip", false, "既存の target もすべて作り直す")
	rootCmd.PersistentFlags().BoolVar(&flagPartsTimecodes, "parts-timecodes", false, `cut_from, cut_to をタイムコード "[HH:]MM:SS[.sss]" として扱う (既定はフレーム番号)`)
	rootCmd.PersistentFlags().StringVar(&flagMkvmergeBin, "mkvmerge-bin", "", "mkvmergeのバイナリパスを明示的に指定する")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "ログファイルのパス")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "実行せずにコマンドを表示する")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "使用するプロファイル名")
	rootCmd.Flags().BoolVar(&flagWatch, "watch", false, "コントロールファイルを監視して保存のたびに再実行する")
}

func updateConfigFromFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()

	// 1. Apply Profile first if exists
	if flags.Changed("profile") {
		if c.ApplyProfile(flagProfile) {
			log.Printf("ℹ️ プロファイル '%s' を適用しました", flagProfile)
		} else {
			log.Printf("⚠️ プロファイル '%s' は見つかりませんでした。デフォルト設定を使用します。", flagProfile)
		}
	}

	if flags.Changed("no-merge") {
		c.NoMerge = flagNoMerge
	}
	if flags.Changed("no-skip") {
		c.NoSkip = flagNoSkip
	}
	if flags.Changed("parts-timecodes") {
		c.PartsTimecodes = flagPartsTimecodes
	}
	if flags.Changed("mkvmerge-bin") {
		c.MkvmergeBin = flagMkvmergeBin
	}
	if flags.Changed("log-file") {
		c.LogFile = flagLogFile
	}
	if flags.Changed("dry-run") {
		c.DryRun = flagDryRun
	}
}
