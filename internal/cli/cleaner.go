package cli

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const generatedMarker = "// Code generated by metagen. DO NOT EDIT."

// Cleaner removes generated files
type Cleaner struct{}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean removes every *_gen.go file carrying the metagen header below the
// given directories and returns the removed paths. Missing directories are skipped.
func (c *Cleaner) Clean(directories []string) ([]string, error) {
	var removed []string
	for _, dir := range directories {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, "_gen.go") {
				return nil
			}
			generated, err := isGenerated(path)
			if err != nil || !generated {
				return err
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to remove file %s: %w", path, err)
			}
			removed = append(removed, path)
			return nil
		})
		if err != nil {
			return removed, fmt.Errorf("failed to clean directory %s: %w", dir, err)
		}
	}
	return removed, nil
}

// isGenerated reports whether the first line of path is the metagen header
func isGenerated(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to check file %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return false, scanner.Err()
	}
	return strings.TrimSpace(scanner.Text()) == generatedMarker, nil
}
