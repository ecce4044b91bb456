package discovery

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	gitMetadataDirectoryNameConstant = ".git"
	unreadableDirectoryMessage       = "skipping unreadable directory"
	logFieldPathConstant             = "path"
)

// IsCheckoutRoot reports whether a .git entry exists directly under the provided directory.
// Gitfiles used by worktrees and submodules count; the metadata contents are not validated.
func IsCheckoutRoot(directoryPath string) bool {
	_, statError := os.Stat(filepath.Join(directoryPath, gitMetadataDirectoryNameConstant))
	return statError == nil
}

// FilesystemRepositoryDiscoverer locates git checkout roots on disk.
type FilesystemRepositoryDiscoverer struct {
	logger *zap.Logger
}

// NewFilesystemRepositoryDiscoverer constructs a repository discoverer backed by filepath.WalkDir.
func NewFilesystemRepositoryDiscoverer(logger *zap.Logger) *FilesystemRepositoryDiscoverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilesystemRepositoryDiscoverer{logger: logger}
}

// WalkCheckoutRoots lazily yields checkout roots beneath baseDirectory in lexical
// depth-first order. Traversal never descends below a checkout root, so nested
// checkouts are not reported. Unreadable directories, including a missing base,
// are skipped silently. The walk stops early when the context is cancelled.
func (discoverer *FilesystemRepositoryDiscoverer) WalkCheckoutRoots(executionContext context.Context, baseDirectory string) iter.Seq[string] {
	return func(yield func(string) bool) {
		walkRoot := discoverer.resolveWalkRoot(baseDirectory)
		_ = filepath.WalkDir(walkRoot, func(path string, directoryEntry fs.DirEntry, walkError error) error {
			if executionContext != nil && executionContext.Err() != nil {
				return fs.SkipAll
			}

			if walkError != nil {
				discoverer.logger.Debug(unreadableDirectoryMessage, zap.String(logFieldPathConstant, path), zap.Error(walkError))
				if directoryEntry != nil && directoryEntry.IsDir() {
					return fs.SkipDir
				}
				return nil
			}

			if !directoryEntry.IsDir() {
				return nil
			}

			if !IsCheckoutRoot(path) {
				return nil
			}

			if !yield(filepath.Clean(path)) {
				return fs.SkipAll
			}
			return fs.SkipDir
		})
	}
}

// resolveWalkRoot lets a symlinked base directory be traversed: WalkDir does not
// follow a symlink root unless the path names the directory behind it.
func (discoverer *FilesystemRepositoryDiscoverer) resolveWalkRoot(baseDirectory string) string {
	linkInformation, linkError := os.Lstat(baseDirectory)
	if linkError != nil || linkInformation.Mode()&fs.ModeSymlink == 0 {
		return baseDirectory
	}
	targetInformation, targetError := os.Stat(baseDirectory)
	if targetError != nil || !targetInformation.IsDir() {
		return baseDirectory
	}
	return baseDirectory + string(os.PathSeparator)
}
