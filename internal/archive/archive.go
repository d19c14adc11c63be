// Package archive moves the outputs of an earlier run out of the way
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// ArchiveOutputs moves every existing path into an archive directory next
// to it, suffixing the name with a timestamp. Missing paths are skipped.
// It returns the new locations in argument order.
func ArchiveOutputs(paths ...string) ([]string, error) {
	now := time.Now()
	var archived []string

	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		} else if err != nil {
			return archived, fmt.Errorf("failed to stat %s: %w", path, err)
		}

		target, err := archivePath(path, now)
		if err != nil {
			return archived, err
		}

		if err := os.Rename(path, target); err != nil {
			return archived, fmt.Errorf("failed to archive %s: %w", path, err)
		}

		log.Info("archived previous output", "from", path, "to", target)
		archived = append(archived, target)
	}

	return archived, nil
}

// archivePath returns a free archive/<stem>-<timestamp><ext> path for path
func archivePath(path string, now time.Time) (string, error) {
	archiveDir := filepath.Join(filepath.Dir(path), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	candidate := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", stem, now.Format("20060102-150405"), ext))
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate, nil
	}

	// Add microseconds to make it unique
	candidate = filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", stem, time.Now().Format("20060102-150405.000000"), ext))
	for i := 1; ; i++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
		candidate = filepath.Join(archiveDir, fmt.Sprintf("%s-%s-%d%s", stem, now.Format("20060102-150405"), i, ext))
	}
}
