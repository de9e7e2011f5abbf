package scenario

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	// ErrPathNotFound is returned when the scenario path does not exist
	ErrPathNotFound = errors.New("path not found")
	// ErrNoScenarioFiles is returned when a directory holds no scenario documents
	ErrNoScenarioFiles = errors.New("no scenario files found")
)

// DiscoverOptions controls how a directory is searched.
type DiscoverOptions struct {
	// Recursive descends into subdirectories
	Recursive bool
	// Exclude holds doublestar patterns matched against the path relative
	// to the searched directory, e.g. "drafts/**"
	Exclude []string
}

// Discover returns the scenario files under path. A regular file is returned
// as is. For a directory every *.yaml file is listed before every *.yml file,
// each group sorted by path. Malformed exclude patterns are rejected up front.
func Discover(path string, opts DiscoverOptions) ([]string, error) {
	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var yamlFiles, ymlFiles []string
	visit := func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == path {
				return nil
			}
			if !opts.Recursive || excluded(filepath.ToSlash(rel), opts.Exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || excluded(filepath.ToSlash(rel), opts.Exclude) {
			return nil
		}

		name := d.Name()
		if ok, _ := doublestar.Match("*.yaml", name); ok {
			yamlFiles = append(yamlFiles, p)
		} else if ok, _ := doublestar.Match("*.yml", name); ok {
			ymlFiles = append(ymlFiles, p)
		}
		return nil
	}
	if err := filepath.WalkDir(path, visit); err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", path, err)
	}

	sort.Strings(yamlFiles)
	sort.Strings(ymlFiles)
	files := append(yamlFiles, ymlFiles...)
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoScenarioFiles, path)
	}
	return files, nil
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
