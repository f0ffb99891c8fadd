// Package output renders hierarchy mappings and writes them to disk.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"dirmap/internal/types"
)

const (
	indentPrefix    = ""
	indentSpacer    = "  "
	yamlIndentWidth = 2

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	outputFileMode = 0o644

	// errorUnsupportedFormat is used when the requested format is unknown.
	errorUnsupportedFormat = "unsupported output format '%s'"
	// errorWriteOutputFormat is used when the output file cannot be written.
	errorWriteOutputFormat = "writing output file %s: %w"
)

// Render serializes the hierarchy mapping in the requested format.
func Render(tree types.TreeNode, format string) (string, error) {
	switch format {
	case types.FormatJSON:
		return RenderJSON(tree)
	case types.FormatYAML:
		return RenderYAML(tree)
	case types.FormatRaw:
		return RenderRaw(tree), nil
	default:
		return "", fmt.Errorf(errorUnsupportedFormat, format)
	}
}

// RenderJSON returns the mapping as JSON with two-space indentation. Leaves
// and unexplored nodes serialize as the empty object.
func RenderJSON(tree types.TreeNode) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(tree, indentPrefix, indentSpacer)
	if jsonEncodeError != nil {
		return "", jsonEncodeError
	}
	return string(encoded), nil
}

// RenderYAML returns the mapping as YAML with two-space indentation.
func RenderYAML(tree types.TreeNode) (string, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndentWidth)
	if encodeError := encoder.Encode(tree); encodeError != nil {
		return "", encodeError
	}
	if closeError := encoder.Close(); closeError != nil {
		return "", closeError
	}
	return buffer.String(), nil
}

// RenderRaw returns the mapping as a human-readable tree using branch
// connectors. Children are listed in lexical order for deterministic output.
func RenderRaw(tree types.TreeNode) string {
	var buffer bytes.Buffer
	writeRawLevel(&buffer, tree, "")
	return buffer.String()
}

func writeRawLevel(buffer *bytes.Buffer, node types.TreeNode, prefix string) {
	childNames := sortedChildNames(node)
	for index, childName := range childNames {
		connector := treeBranchConnector
		childPrefix := prefix + treeBranchPadding
		if index == len(childNames)-1 {
			connector = treeLastConnector
			childPrefix = prefix + treeLastPadding
		}
		fmt.Fprintf(buffer, "%s%s%s\n", prefix, connector, childName)
		writeRawLevel(buffer, node[childName], childPrefix)
	}
}

func sortedChildNames(node types.TreeNode) []string {
	childNames := make([]string, 0, len(node))
	for childName := range node {
		childNames = append(childNames, childName)
	}
	sort.Strings(childNames)
	return childNames
}

// WriteOutputFile writes the rendered mapping to the output path in one
// shot. A write failure is fatal to the run; there is no retry.
func WriteOutputFile(outputPath string, rendered string) error {
	if writeError := os.WriteFile(outputPath, []byte(rendered), outputFileMode); writeError != nil {
		return fmt.Errorf(errorWriteOutputFormat, outputPath, writeError)
	}
	return nil
}
