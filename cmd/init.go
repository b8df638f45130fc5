package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mt4110/quickcut/internal/control"
)

var flagForce bool

var initCmd = &cobra.Command{
	Use:   "init [controlFile]",
	Short: "コントロールファイルのひな形を作成します",
	Long:  `source,target,cut_from,cut_to のヘッダーと記入例を持つ quickcut.csv を作成します。`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.ControlFile
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil && !flagForce {
			overwrite := false
			confirm := huh.NewConfirm().
				Title(fmt.Sprintf("%s は既に存在します。上書きしますか？", path)).
				Affirmative("Yes").
				Negative("No").
				Value(&overwrite)
			if err := confirm.Run(); err != nil {
				return err
			}
			if !overwrite {
				log.Println("スキップしました。")
				return nil
			}
		}

		if err := os.WriteFile(path, []byte(control.Template), 0644); err != nil {
			return fmt.Errorf("コントロールファイルの作成に失敗: %w", err)
		}
		log.Printf("✅ コントロールファイルを作成: %s", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&flagForce, "force", false, "確認せずに上書きする")
	rootCmd.AddCommand(initCmd)
}
