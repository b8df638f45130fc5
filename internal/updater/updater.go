package updater

import (
	"log"
	"os/exec"
	"strings"
)

// CheckMkvmerge only gives hints; it never fails the run.
func CheckMkvmerge(bin string) {
	if _, err := exec.LookPath(bin); err != nil {
		log.Printf("⚠️ %s が見つかりません。MKVToolNix のインストールを推奨します: `brew install mkvtoolnix`", bin)
		return
	}

	if _, err := exec.LookPath("brew"); err == nil {
		output, err := exec.Command("brew", "outdated", "mkvtoolnix").CombinedOutput()
		if err == nil && IsOutdated(string(output)) {
			log.Println("ℹ️ mkvtoolnix のアップデートが可能です。以下で更新できます:")
			log.Println("   brew upgrade mkvtoolnix")
		}
	}
}

// IsOutdated reads the output of `brew outdated mkvtoolnix`.
func IsOutdated(output string) bool {
	return strings.Contains(output, "mkvtoolnix")
}
