package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// contentExtensions are the file extensions scored by default
var contentExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
}

// FileHelper provides file operation utilities
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// CollectContentFiles collects markdown and HTML files from paths. Exclude patterns use
// gitignore syntax and are matched against the path relative to each walked root.
// Include patterns, when present, are matched against the file name.
func (h *FileHelper) CollectContentFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string
	excluder := ignore.CompileIgnoreLines(excludePatterns...)

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if h.isContentFile(path, includePatterns) && !excluder.MatchesPath(path) {
				files = append(files, path)
			}
			continue
		}

		root := path
		err = filepath.WalkDir(root, func(filePath string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			rel, relErr := filepath.Rel(root, filePath)
			if relErr != nil {
				rel = filePath
			}

			if d.IsDir() {
				if filePath == root {
					return nil
				}
				if !recursive || excluder.MatchesPath(rel) || excluder.MatchesPath(rel+"/") {
					return filepath.SkipDir
				}
				return nil
			}

			if h.isContentFile(filePath, includePatterns) && !excluder.MatchesPath(rel) {
				files = append(files, filePath)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// IsContentFile reports whether a file is markdown or HTML by extension
func (h *FileHelper) IsContentFile(path string) bool {
	return contentExtensions[strings.ToLower(filepath.Ext(path))]
}

// FileExists checks if a file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// isContentFile checks the extension, then the include patterns if any
func (h *FileHelper) isContentFile(path string, includePatterns []string) bool {
	if !h.IsContentFile(path) {
		return false
	}
	if len(includePatterns) == 0 {
		return true
	}
	base := filepath.Base(path)
	for _, pattern := range includePatterns {
		// "**/" prefixes only matter for directory depth, which the walk already covers
		pattern = strings.TrimPrefix(pattern, "**/")
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// ResolveFilePaths resolves file paths, returning existing files directly
// or collecting files from directories
func ResolveFilePaths(
	fileHelper *FileHelper,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
) ([]string, error) {
	// Explicitly named files are scored whatever their extension
	allFiles := true
	for _, path := range paths {
		exists, err := fileHelper.FileExists(path)
		if err != nil || !exists {
			allFiles = false
			break
		}
	}

	if allFiles {
		return paths, nil
	}

	return fileHelper.CollectContentFiles(paths, recursive, includePatterns, excludePatterns)
}
