// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"dirmap/internal/commands"
	"dirmap/internal/config"
	"dirmap/internal/output"
	"dirmap/internal/services/clipboard"
	"dirmap/internal/types"
	"dirmap/internal/utils"
)

const (
	outputFlagName       = "output"
	outputFlagShorthand  = "o"
	maxDepthFlagName     = "max-depth"
	stopFlagName         = "stop"
	formatFlagName       = "format"
	configFlagName       = "config"
	copyFlagName         = "copy"
	detectCyclesFlagName = "detect-cycles"
	versionFlagName      = "version"
	forceFlagName        = "force"
	globalFlagName       = "global"

	versionTemplate   = "dirmap version: %s\n"
	defaultRootPath   = "."
	defaultOutputPath = "hierarchy.json"
	unlimitedDepth    = -1

	rootUse              = "dirmap [root]"
	rootShortDescription = "dirmap command line interface"
	rootLongDescription  = `dirmap walks a directory tree and saves the folder hierarchy as a nested mapping.
Files are ignored, hidden directories are skipped, and traversal can be bounded with --max-depth or cut off at --stop paths.
Use --format to select json, yaml, or raw output.`
	// rootUsageExample demonstrates typical invocations.
	rootUsageExample = `  # Map the current directory into hierarchy.json
  dirmap

  # Map ~/Documents two levels deep into documents.json
  dirmap --max-depth 2 -o documents.json ~/Documents

  # Keep a project directory visible without exploring it
  dirmap --stop /home/user/Documents/projects/migration-engine /home/user/Documents`

	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write a default ` + utils.ConfigFileName + ` configuration file.
Use --global to place it under the user configuration directory instead of the working directory.`

	outputFlagDescription       = "output file path"
	maxDepthFlagDescription     = "maximum traversal depth in edges from the root (negative means unlimited)"
	stopFlagDescription         = "directory path to include in the output but not explore (repeatable)"
	formatFlagDescription       = "output format"
	configFlagDescription       = "explicit configuration file path"
	copyFlagDescription         = "also copy the rendered mapping to the system clipboard"
	detectCyclesFlagDescription = "skip directories whose resolved real path was already visited"
	versionFlagDescription      = "display application version"
	forceFlagDescription        = "overwrite an existing configuration file"
	globalFlagDescription       = "write the configuration to the global location"

	savedMessageFormat       = "Saved to %s\n"
	initializedMessageFormat = "Configuration written to %s\n"

	invalidFormatMessage        = "Invalid format value '%s'"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorPathMissingFormat reports a missing root path.
	errorPathMissingFormat = "root path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNotDirectoryFormat reports a root that is not a directory.
	errorNotDirectoryFormat = "root path '%s' is not a directory"
	// errorClipboardFormat reports a clipboard copy failure.
	errorClipboardFormat = "copying output to clipboard: %w"
)

// rootOptions stores flag values for the root command.
type rootOptions struct {
	outputPath   string
	maxDepth     int
	stopPaths    []string
	format       string
	configPath   string
	copyEnabled  bool
	detectCycles bool
}

// effectiveSettings is the flag and file configuration collapsed into concrete values.
type effectiveSettings struct {
	rootPath     string
	outputPath   string
	maxDepth     int
	stopPaths    []string
	format       string
	copyEnabled  bool
	detectCycles bool
}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatYAML:
		return true
	default:
		return false
	}
}

// Execute runs the dirmap application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool
	var options rootOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			rootArgument := ""
			if len(arguments) > 0 {
				rootArgument = arguments[0]
			}
			return runMap(command, rootArgument, options)
		},
	}

	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.Flags().StringVarP(&options.outputPath, outputFlagName, outputFlagShorthand, defaultOutputPath, outputFlagDescription)
	rootCommand.Flags().IntVar(&options.maxDepth, maxDepthFlagName, unlimitedDepth, maxDepthFlagDescription)
	rootCommand.Flags().StringArrayVar(&options.stopPaths, stopFlagName, nil, stopFlagDescription)
	rootCommand.Flags().StringVar(&options.format, formatFlagName, types.FormatJSON, formatFlagDescription)
	rootCommand.Flags().StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	rootCommand.Flags().BoolVar(&options.copyEnabled, copyFlagName, false, copyFlagDescription)
	rootCommand.Flags().BoolVar(&options.detectCycles, detectCyclesFlagName, false, detectCyclesFlagDescription)
	rootCommand.AddCommand(createInitCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var force bool
	var global bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			writtenPath, initializeError := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  force,
			})
			if initializeError != nil {
				return initializeError
			}
			fmt.Fprintf(command.OutOrStdout(), initializedMessageFormat, writtenPath)
			return nil
		},
	}

	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	initCommand.Flags().BoolVar(&global, globalFlagName, false, globalFlagDescription)
	return initCommand
}

// runMap builds the hierarchy mapping for the resolved root and writes it to
// the output file. Every failure aborts the run; no partial output is written.
func runMap(command *cobra.Command, rootArgument string, options rootOptions) error {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configPath,
	})
	if configurationError != nil {
		return configurationError
	}

	settings := resolveSettings(command, rootArgument, options, applicationConfiguration)

	outputFormat := strings.ToLower(settings.format)
	if !isSupportedFormat(outputFormat) {
		return fmt.Errorf(invalidFormatMessage, settings.format)
	}

	absoluteRootPath, rootValidationError := resolveAndValidateRoot(settings.rootPath)
	if rootValidationError != nil {
		return rootValidationError
	}

	treeBuilder := commands.TreeBuilder{
		MaxDepth:     settings.maxDepth,
		StopPaths:    utils.StopPathSet(utils.DeduplicatePaths(settings.stopPaths)),
		DetectCycles: settings.detectCycles,
	}
	tree, buildError := treeBuilder.BuildTree(absoluteRootPath)
	if buildError != nil {
		return buildError
	}

	rendered, renderError := output.Render(tree, outputFormat)
	if renderError != nil {
		return renderError
	}
	if writeError := output.WriteOutputFile(settings.outputPath, rendered); writeError != nil {
		return writeError
	}
	if settings.copyEnabled {
		if copyError := clipboard.NewService().Copy(rendered); copyError != nil {
			return fmt.Errorf(errorClipboardFormat, copyError)
		}
	}

	fmt.Fprintf(command.OutOrStdout(), savedMessageFormat, settings.outputPath)
	return nil
}

// resolveSettings overlays command line flags onto file configuration. A
// flag set explicitly on the command line always wins; otherwise a file
// value applies when present, then the built-in default.
func resolveSettings(
	command *cobra.Command,
	rootArgument string,
	options rootOptions,
	configuration config.ApplicationConfiguration,
) effectiveSettings {
	settings := effectiveSettings{
		rootPath:     defaultRootPath,
		outputPath:   options.outputPath,
		maxDepth:     options.maxDepth,
		stopPaths:    options.stopPaths,
		format:       options.format,
		copyEnabled:  options.copyEnabled,
		detectCycles: options.detectCycles,
	}

	if configuration.Root != "" {
		settings.rootPath = configuration.Root
	}
	if rootArgument != "" {
		settings.rootPath = rootArgument
	}
	if configuration.Output != "" && !command.Flags().Changed(outputFlagName) {
		settings.outputPath = configuration.Output
	}
	if configuration.MaxDepth != nil && !command.Flags().Changed(maxDepthFlagName) {
		settings.maxDepth = *configuration.MaxDepth
	}
	if len(configuration.StopPaths) > 0 && !command.Flags().Changed(stopFlagName) {
		settings.stopPaths = configuration.StopPaths
	}
	if configuration.Format != "" && !command.Flags().Changed(formatFlagName) {
		settings.format = configuration.Format
	}
	if configuration.Copy != nil && !command.Flags().Changed(copyFlagName) {
		settings.copyEnabled = *configuration.Copy
	}
	if configuration.DetectCycles != nil && !command.Flags().Changed(detectCyclesFlagName) {
		settings.detectCycles = *configuration.DetectCycles
	}
	return settings
}

// resolveAndValidateRoot converts the root path to absolute form and
// validates that it names an existing directory.
func resolveAndValidateRoot(rootPath string) (string, error) {
	absolutePath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	info, fileStatusError := os.Stat(cleanPath)
	if fileStatusError != nil {
		if os.IsNotExist(fileStatusError) {
			return "", fmt.Errorf(errorPathMissingFormat, rootPath)
		}
		return "", fmt.Errorf(errorStatFormat, rootPath, fileStatusError)
	}
	if !info.IsDir() {
		return "", fmt.Errorf(errorNotDirectoryFormat, rootPath)
	}
	return cleanPath, nil
}
