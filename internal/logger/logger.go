package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/natefinch/lumberjack.v2"
)

var rotator *lumberjack.Logger

// DefaultPath is where the log goes when no logFile is configured.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "quickcut.log"
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "quickcut.log")
	}
	return filepath.Join(home, ".local", "state", "quickcut", "quickcut.log")
}

func Setup(logFilePath string) {
	if logFilePath == "" {
		logFilePath = DefaultPath()
	}

	fmt.Printf("Log file: %s\n", logFilePath)

	// Lumberjack logger for rotation
	rotator = &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     7,    // days
		Compress:   true, // gzip
	}

	mw := io.MultiWriter(os.Stdout, rotator)

	log.SetOutput(mw)
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

func MuteStdout() {
	if rotator != nil {
		log.SetOutput(rotator)
	}
}
