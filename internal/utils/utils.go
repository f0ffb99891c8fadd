// Package utils contains general helper functions used across the dirmap tool.
package utils

const (
	// ConfigFileName is the name of the dirmap configuration file.
	ConfigFileName = ".dirmap.yaml"
	// GlobalConfigDirectoryName is the directory under the user home that
	// holds the global configuration file.
	GlobalConfigDirectoryName = ".config/dirmap"

	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal execution errors.
	ApplicationExecutionFailedMessage = "dirmap execution failed"
)

// DeduplicatePaths removes duplicate path strings from a slice while
// preserving order. The first occurrence of each unique path is kept.
func DeduplicatePaths(paths []string) []string {
	encounteredPaths := make(map[string]struct{})
	result := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, exists := encounteredPaths[path]; !exists {
			encounteredPaths[path] = struct{}{}
			result = append(result, path)
		}
	}
	return result
}

// StopPathSet converts a list of stop paths into a membership set. Empty
// entries are dropped; all other values are kept verbatim since stop-path
// matching is an exact string comparison.
func StopPathSet(paths []string) map[string]struct{} {
	stopPathSet := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		stopPathSet[path] = struct{}{}
	}
	return stopPathSet
}
