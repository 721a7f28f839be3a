package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/lexandro/contextengine-mcp/ignore"
)

var (
	// ErrRootNotFound is returned when the scan root does not exist.
	ErrRootNotFound = errors.New("root path does not exist")
	// ErrRootNotDir is returned when the scan root is not a directory.
	ErrRootNotDir = errors.New("root path is not a directory")
)

// PathMatcher reports whether a root-relative path (directories with a
// trailing slash) is excluded from the scan.
type PathMatcher interface {
	Matches(relativePath string) bool
}

// Snapshot is the list of visible files under a root, sorted lexicographically
// with forward-slash separators. It is built once per query and never mutated.
type Snapshot struct {
	Root  string
	Files []string

	set map[string]struct{}
}

// NewSnapshot builds a snapshot from an already filtered file list.
func NewSnapshot(root string, files []string) *Snapshot {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)
	set := make(map[string]struct{}, len(sorted))
	for _, f := range sorted {
		set[f] = struct{}{}
	}
	return &Snapshot{Root: root, Files: sorted, set: set}
}

// Contains reports whether path is verbatim one of the snapshot's files.
func (s *Snapshot) Contains(path string) bool {
	_, ok := s.set[path]
	return ok
}

// Len returns the number of files.
func (s *Snapshot) Len() int {
	return len(s.Files)
}

// Source produces snapshots for a root directory.
type Source interface {
	Snapshot(root string) (*Snapshot, error)
}

// Fresh rescans the tree on every call. It is the default Source.
type Fresh struct {
	CustomPatterns []string
	Logger         *slog.Logger
}

// Snapshot compiles a new ignore spec for root and scans it.
func (f Fresh) Snapshot(root string) (*Snapshot, error) {
	matcher := ignore.NewMatcher(ignore.MatcherOptions{
		RootDir:        root,
		CustomPatterns: f.CustomPatterns,
	})
	snapshot, err := Scan(root, matcher)
	if err != nil {
		return nil, err
	}
	if f.Logger != nil {
		f.Logger.Info("scanned repository", "root", root, "files", snapshot.Len())
	}
	return snapshot, nil
}

// ValidateRoot checks that root exists and is a directory.
func ValidateRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return fmt.Errorf("checking root %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrRootNotDir, root)
	}
	return nil
}

// Scan walks root top-down and returns every regular file not excluded by
// matcher. Excluded directories are pruned before descending. A symlinked
// root is followed; symlinks below it and unreadable entries are skipped
// silently.
func Scan(root string, matcher PathMatcher) (*Snapshot, error) {
	if err := ValidateRoot(root); err != nil {
		return nil, err
	}
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}

	var files []string
	walkErr := filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == walkRoot {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == walkRoot {
			return nil
		}

		relPath, relErr := filepath.Rel(walkRoot, path)
		if relErr != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if matcher.Matches(relPath + "/") {
				return filepath.SkipDir
			}
			return nil
		}
		// Symlinks, sockets, devices and pipes are not source files.
		if d.Type()&fs.ModeType != 0 {
			return nil
		}
		if matcher.Matches(relPath) {
			return nil
		}
		files = append(files, relPath)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, walkErr)
	}

	return NewSnapshot(root, files), nil
}
