// Package commands contains the core traversal logic for the dirmap tool.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dirmap/internal/types"
)

const (
	// hiddenNamePrefix marks directory names that are excluded from traversal.
	hiddenNamePrefix = "."

	// errorReadDirectoryFormat is used when a directory cannot be listed.
	errorReadDirectoryFormat = "reading directory %s: %w"
)

// TreeBuilder builds directory hierarchy mappings using configured guards.
//
// MaxDepth bounds traversal in edges from the root; a negative value means
// unlimited. StopPaths holds directory paths that appear in the output but
// are never explored; membership is an exact string comparison against the
// joined path of each visited directory, with no normalization. DetectCycles
// enables a guard that refuses to descend into a directory whose resolved
// real path was already visited, so symlink loops terminate.
type TreeBuilder struct {
	MaxDepth     int
	StopPaths    map[string]struct{}
	DetectCycles bool
}

// traversalFrame is one pending directory on the explicit work stack.
type traversalFrame struct {
	path  string
	depth int
	node  types.TreeNode
}

// BuildTree walks the directory tree rooted at rootDirectoryPath and returns
// a nested mapping of its subdirectories. Files never appear in the mapping,
// hidden directories are skipped entirely, and stop paths and the depth
// limit terminate descent while keeping the directory visible as an empty
// node. The depth check happens before a directory is listed, so a level at
// the limit produces an empty mapping without touching the filesystem.
//
// The traversal uses an explicit work stack instead of recursion, so
// pathologically deep trees cannot exhaust the call stack. A failure to list
// any visited directory aborts the build; no partial result is returned.
func (treeBuilder *TreeBuilder) BuildTree(rootDirectoryPath string) (types.TreeNode, error) {
	rootNode := types.TreeNode{}

	var visitedRealPaths map[string]struct{}
	if treeBuilder.DetectCycles {
		visitedRealPaths = map[string]struct{}{}
		markVisited(visitedRealPaths, rootDirectoryPath)
	}

	workStack := []traversalFrame{{path: rootDirectoryPath, depth: 0, node: rootNode}}
	for len(workStack) > 0 {
		currentFrame := workStack[len(workStack)-1]
		workStack = workStack[:len(workStack)-1]

		if treeBuilder.MaxDepth >= 0 && currentFrame.depth >= treeBuilder.MaxDepth {
			continue
		}

		directoryEntries, readDirectoryError := os.ReadDir(currentFrame.path)
		if readDirectoryError != nil {
			return nil, fmt.Errorf(errorReadDirectoryFormat, currentFrame.path, readDirectoryError)
		}

		for _, directoryEntry := range directoryEntries {
			entryName := directoryEntry.Name()
			if strings.HasPrefix(entryName, hiddenNamePrefix) {
				continue
			}
			childPath := filepath.Join(currentFrame.path, entryName)
			if !isDirectory(childPath, directoryEntry) {
				continue
			}

			childNode := types.TreeNode{}
			currentFrame.node[entryName] = childNode

			if _, isStopPath := treeBuilder.StopPaths[childPath]; isStopPath {
				continue
			}
			if treeBuilder.DetectCycles && !markVisited(visitedRealPaths, childPath) {
				continue
			}
			workStack = append(workStack, traversalFrame{
				path:  childPath,
				depth: currentFrame.depth + 1,
				node:  childNode,
			})
		}
	}

	return rootNode, nil
}

// isDirectory classifies a child entry, following symlinks the way the
// platform's stat does: a symlink pointing at a directory traverses like a
// real directory. Entries that cannot be inspected are omitted.
func isDirectory(childPath string, directoryEntry os.DirEntry) bool {
	if directoryEntry.IsDir() {
		return true
	}
	if directoryEntry.Type()&os.ModeSymlink == 0 {
		return false
	}
	targetInfo, statError := os.Stat(childPath)
	if statError != nil {
		return false
	}
	return targetInfo.IsDir()
}

// markVisited records the symlink-resolved real path of the directory and
// reports whether it had not been seen before.
func markVisited(visitedRealPaths map[string]struct{}, path string) bool {
	realPath, resolveError := filepath.EvalSymlinks(path)
	if resolveError != nil {
		realPath = path
	}
	if _, alreadyVisited := visitedRealPaths[realPath]; alreadyVisited {
		return false
	}
	visitedRealPaths[realPath] = struct{}{}
	return true
}
