package output

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// If JF_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.jflow/logs/jf.log
func GetLogFilePath() string {
	if customPath := os.Getenv("JF_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if we can't get home dir
		return "jf.log"
	}

	return filepath.Join(homeDir, ".jflow", "logs", "jf.log")
}
