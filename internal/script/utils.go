package script

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/keyframer/internal/system"
)

// GenerateScriptPath creates a timestamped script filename in dir
func GenerateScriptPath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("script_%s.yaml", timestamp))
}

// FindLatestScript finds the most recent script file (YAML or text) in dir
func FindLatestScript(dir string) (string, error) {
	return system.FindLatestFile(dir, ".yaml", ".yml", ".txt")
}

// IsTextScript reports whether path uses the plain text format
func IsTextScript(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}
