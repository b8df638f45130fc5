package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mt4110/quickcut/internal/logger"
	"github.com/mt4110/quickcut/internal/tui"
	"github.com/mt4110/quickcut/internal/watcher"
)

var flagTUIWatch bool

var tuiCmd = &cobra.Command{
	Use:   "tui [controlFile]",
	Short: "TUIモードで進捗を表示しながら実行します (Interactive)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tool := newTool(cfg)
		if err := tool.Check(); err != nil {
			return err
		}

		file := cfg.ControlFile
		if len(args) == 1 {
			file = args[0]
		}
		plan, err := loadPlan(file)
		if err != nil {
			return err
		}

		// Mute stdout logging to prevent TUI corruption
		logger.MuteStdout()

		eventChan := make(chan interface{}, 100)
		r := newRunner(tool, cfg, file)
		r.EventChan = eventChan

		ctx := cmd.Context()
		runErr := make(chan error, 1)
		if flagTUIWatch {
			w := watcher.New(file, r, time.Duration(cfg.WatchDebounceMs)*time.Millisecond)
			w.EventChan = eventChan
			go func() {
				if err := w.Run(ctx); err != nil {
					eventChan <- tui.DoneMsg{Err: err}
				}
			}()
		} else {
			go func() {
				_, err := r.Run(ctx, plan)
				runErr <- err
				eventChan <- tui.DoneMsg{Err: err}
			}()
		}

		m := tui.NewModel(file, plan.Targets(), eventChan)
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("tui: %w", err)
		}

		// Quitting before the run finished leaves nothing to report.
		select {
		case err := <-runErr:
			return err
		default:
			return nil
		}
	},
}

func init() {
	tuiCmd.Flags().BoolVar(&flagTUIWatch, "watch", false, "コントロールファイルを監視して保存のたびに再実行する")
	rootCmd.AddCommand(tuiCmd)
}
