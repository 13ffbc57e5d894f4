package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ModelExtension is the extension of model definition files
const ModelExtension = ".mg"

// ModelScanner finds model files from command arguments
type ModelScanner struct {
	skipDirs map[string]bool
}

// NewModelScanner creates a scanner skipping vendor and testdata directories
func NewModelScanner() *ModelScanner {
	return &ModelScanner{
		skipDirs: map[string]bool{"vendor": true, "testdata": true, "node_modules": true},
	}
}

// Scan expands args into model files. An argument is a model file, a
// directory (its own model files) or a Go-style "dir/..." pattern (every
// model file below dir). The result is sorted and free of duplicates.
func (s *ModelScanner) Scan(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		if strings.HasSuffix(arg, "/...") || arg == "..." {
			base := strings.TrimSuffix(strings.TrimSuffix(arg, "..."), "/")
			if base == "" {
				base = "."
			}
			found, err := s.walk(base)
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				add(f)
			}
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to access %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(filepath.Clean(arg))
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && filepath.Ext(entry.Name()) == ModelExtension {
				add(filepath.Join(arg, entry.Name()))
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

func (s *ModelScanner) walk(base string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != base && (s.skipDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ModelExtension {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", base, err)
	}
	return files, nil
}
