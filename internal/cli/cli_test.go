package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// executeRootCommand runs a fresh root command with the provided arguments
// and returns its stdout along with the execution error.
func executeRootCommand(t *testing.T, arguments ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", t.TempDir())

	var stdout bytes.Buffer
	command := createRootCommand()
	command.SetOut(&stdout)
	command.SetErr(&stdout)
	command.SetArgs(arguments)
	executionError := command.Execute()
	return stdout.String(), executionError
}

// createTestTree builds a fixture with a nested directory A/B, a hidden
// directory .C, and a regular file f.txt.
func createTestTree(t *testing.T) string {
	t.Helper()
	rootDirectory := t.TempDir()
	for _, relativePath := range []string{"A/B", ".C"} {
		if err := os.MkdirAll(filepath.Join(rootDirectory, relativePath), 0o755); err != nil {
			t.Fatalf("create fixture directory %s: %v", relativePath, err)
		}
	}
	if err := os.WriteFile(filepath.Join(rootDirectory, "f.txt"), []byte("data"), 0o600); err != nil {
		t.Fatalf("create fixture file: %v", err)
	}
	return rootDirectory
}

func readHierarchy(t *testing.T, outputPath string) map[string]any {
	t.Helper()
	content, readError := os.ReadFile(outputPath)
	if readError != nil {
		t.Fatalf("read output file: %v", readError)
	}
	var hierarchy map[string]any
	if unmarshalError := json.Unmarshal(content, &hierarchy); unmarshalError != nil {
		t.Fatalf("decode output file: %v", unmarshalError)
	}
	return hierarchy
}

func TestRootCommandWritesHierarchyFile(t *testing.T) {
	rootDirectory := createTestTree(t)
	outputPath := filepath.Join(t.TempDir(), "out.json")

	stdout, executionError := executeRootCommand(t, rootDirectory, "--output", outputPath)
	if executionError != nil {
		t.Fatalf("Execute error: %v", executionError)
	}
	if !strings.Contains(stdout, "Saved to "+outputPath) {
		t.Fatalf("expected confirmation message, got %q", stdout)
	}

	hierarchy := readHierarchy(t, outputPath)
	if len(hierarchy) != 1 {
		t.Fatalf("expected only A at the top level, got %v", hierarchy)
	}
	childA, hasChildA := hierarchy["A"].(map[string]any)
	if !hasChildA {
		t.Fatalf("expected A in output, got %v", hierarchy)
	}
	if _, hasChildB := childA["B"]; !hasChildB {
		t.Fatalf("expected B under A, got %v", childA)
	}
}

func TestRootCommandHonorsMaxDepthFlag(t *testing.T) {
	rootDirectory := createTestTree(t)
	outputPath := filepath.Join(t.TempDir(), "out.json")

	if _, executionError := executeRootCommand(t, rootDirectory, "--output", outputPath, "--max-depth", "1"); executionError != nil {
		t.Fatalf("Execute error: %v", executionError)
	}

	hierarchy := readHierarchy(t, outputPath)
	childA, hasChildA := hierarchy["A"].(map[string]any)
	if !hasChildA {
		t.Fatalf("expected A in output, got %v", hierarchy)
	}
	if len(childA) != 0 {
		t.Fatalf("expected A to be cut off at depth 1, got %v", childA)
	}
}

func TestRootCommandHonorsStopFlag(t *testing.T) {
	rootDirectory := createTestTree(t)
	outputPath := filepath.Join(t.TempDir(), "out.json")
	stopPath := filepath.Join(rootDirectory, "A")

	if _, executionError := executeRootCommand(t, rootDirectory, "--output", outputPath, "--stop", stopPath); executionError != nil {
		t.Fatalf("Execute error: %v", executionError)
	}

	hierarchy := readHierarchy(t, outputPath)
	childA, hasChildA := hierarchy["A"].(map[string]any)
	if !hasChildA {
		t.Fatalf("expected A in output, got %v", hierarchy)
	}
	if len(childA) != 0 {
		t.Fatalf("expected stop path A to stay unexplored, got %v", childA)
	}
}

func TestRootCommandWritesRawFormat(t *testing.T) {
	rootDirectory := createTestTree(t)
	outputPath := filepath.Join(t.TempDir(), "out.txt")

	if _, executionError := executeRootCommand(t, rootDirectory, "--output", outputPath, "--format", "raw"); executionError != nil {
		t.Fatalf("Execute error: %v", executionError)
	}

	content, readError := os.ReadFile(outputPath)
	if readError != nil {
		t.Fatalf("read output file: %v", readError)
	}
	expected := "└── A\n    └── B\n"
	if string(content) != expected {
		t.Fatalf("expected %q, got %q", expected, string(content))
	}
}

func TestRootCommandRejectsUnknownFormat(t *testing.T) {
	rootDirectory := createTestTree(t)
	outputPath := filepath.Join(t.TempDir(), "out.json")

	_, executionError := executeRootCommand(t, rootDirectory, "--output", outputPath, "--format", "toml")
	if executionError == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if _, statError := os.Stat(outputPath); !os.IsNotExist(statError) {
		t.Fatalf("expected no output file for failed run")
	}
}

func TestRootCommandFailsForMissingRoot(t *testing.T) {
	missingRoot := filepath.Join(t.TempDir(), "missing")
	outputPath := filepath.Join(t.TempDir(), "out.json")

	_, executionError := executeRootCommand(t, missingRoot, "--output", outputPath)
	if executionError == nil {
		t.Fatalf("expected error for missing root path")
	}
	if _, statError := os.Stat(outputPath); !os.IsNotExist(statError) {
		t.Fatalf("expected no output file for failed run")
	}
}

func TestRootCommandFailsForFileRoot(t *testing.T) {
	rootDirectory := createTestTree(t)
	fileRoot := filepath.Join(rootDirectory, "f.txt")

	if _, executionError := executeRootCommand(t, fileRoot); executionError == nil {
		t.Fatalf("expected error for non-directory root")
	}
}

func TestRootCommandAppliesConfigurationFile(t *testing.T) {
	rootDirectory := createTestTree(t)
	outputPath := filepath.Join(t.TempDir(), "config-driven.yaml")
	configPath := filepath.Join(t.TempDir(), "dirmap.yaml")
	configContent := "format: yaml\noutput: " + outputPath + "\n"
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	if _, executionError := executeRootCommand(t, rootDirectory, "--config", configPath); executionError != nil {
		t.Fatalf("Execute error: %v", executionError)
	}

	content, readError := os.ReadFile(outputPath)
	if readError != nil {
		t.Fatalf("read output file: %v", readError)
	}
	expected := "A:\n  B: {}\n"
	if string(content) != expected {
		t.Fatalf("expected %q, got %q", expected, string(content))
	}
}

func TestExplicitFlagOverridesConfigurationFile(t *testing.T) {
	rootDirectory := createTestTree(t)
	outputPath := filepath.Join(t.TempDir(), "out.json")
	configPath := filepath.Join(t.TempDir(), "dirmap.yaml")
	if err := os.WriteFile(configPath, []byte("format: yaml\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	arguments := []string{rootDirectory, "--config", configPath, "--format", "json", "--output", outputPath}
	if _, executionError := executeRootCommand(t, arguments...); executionError != nil {
		t.Fatalf("Execute error: %v", executionError)
	}

	// The JSON flag wins over the yaml file value.
	readHierarchy(t, outputPath)
}

func TestResolveAndValidateRootReturnsCleanAbsolutePath(t *testing.T) {
	rootDirectory := t.TempDir()

	resolvedPath, validationError := resolveAndValidateRoot(rootDirectory + string(filepath.Separator))
	if validationError != nil {
		t.Fatalf("resolveAndValidateRoot error: %v", validationError)
	}
	if resolvedPath != filepath.Clean(rootDirectory) {
		t.Fatalf("expected %s, got %s", filepath.Clean(rootDirectory), resolvedPath)
	}
}
