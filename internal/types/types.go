// Package types defines the cross-package data structures used by the dirmap CLI.
package types

const (
	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// TreeNode maps a child directory name to that child's own node. An empty
// node means either a directory without subdirectories or a directory whose
// contents were not explored because it is a stop path or the depth limit
// was reached; both cases serialize as an empty mapping.
type TreeNode map[string]TreeNode
