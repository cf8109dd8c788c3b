// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/richprompt/richprompt/internal/assemble"
	"github.com/richprompt/richprompt/internal/config"
	"github.com/richprompt/richprompt/internal/discover"
	"github.com/richprompt/richprompt/internal/output"
	"github.com/richprompt/richprompt/internal/selection"
	"github.com/richprompt/richprompt/internal/tokenizer"
	"github.com/richprompt/richprompt/internal/utils"
)

const (
	rootUse              = "richprompt"
	rootShortDescription = "flatten files into an LLM context block"
	rootLongDescription  = `richprompt discovers text files under a directory, lets you refine the
selection in an interactive tree picker, and assembles the chosen files into
a single LLM context document written to a file, the console, or the
clipboard.`

	generateUse              = "generate"
	generateAlias            = "g"
	generateShortDescription = "generate an LLM context block (" + generateAlias + ")"
	generateLongDescription  = `Discover files under --path filtered by --ext, --exclude, and the root's
.gitignore, pick the ones to include, and emit the assembled context.`
	generateUsageExample = `  # Interactive selection over Go and Markdown files
  richprompt generate --path . --ext go,md

  # Include everything matching the defaults and copy to the clipboard
  richprompt generate --auto --clipboard`

	pathFlagName        = "path"
	extensionsFlagName  = "ext"
	excludeFlagName     = "exclude"
	vcsDirectoryFlag    = "vcs-dir"
	noGitignoreFlagName = "no-gitignore"
	autoFlagName        = "auto"
	outputFlagName      = "output"
	clipboardFlagName   = "clipboard"
	promptFlagName      = "prompt"
	modelFlagName       = "model"
	verboseFlagName     = "verbose"
	configFlagName      = "config"
	versionFlagName     = "version"

	pathFlagDescription        = "root directory to scan"
	extensionsFlagDescription  = "comma-separated extension allow-list (empty accepts all)"
	excludeFlagDescription     = "comma-separated literal path substrings to exclude"
	vcsDirectoryDescription    = "version-control directory name to prune"
	noGitignoreFlagDescription = "do not apply the root's .gitignore"
	autoFlagDescription        = "skip the interactive picker and include every discovered file"
	outputFlagDescription      = "write the context to this file instead of the console"
	clipboardFlagDescription   = "copy the context to the system clipboard"
	promptFlagDescription      = "user instructions appended to the context"
	modelFlagDescription       = "tokenizer model used for the token estimate"
	verboseFlagDescription     = "increase logging verbosity (repeatable)"
	configFlagDescription      = "explicit configuration file path"
	versionFlagDescription     = "display application version"

	defaultPath             = "."
	defaultExtensions       = ".java,.js,.go,.rs,.py,.toml,.yml"
	defaultExcludes         = ".git,.venv,target"
	defaultVCSDirectoryName = ".git"
	defaultTokenizerModel   = "gpt-4o"

	versionTemplate = "richprompt version: %s\n"

	listSeparator = ","
)

// Execute runs the richprompt application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

func createRootCommand() *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(createGenerateCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// generateOptions stores the generate command's flag values.
type generateOptions struct {
	rootPath         string
	extensionList    string
	excludeList      string
	vcsDirectoryName string
	disableGitignore bool
	autoSelect       bool
	outputPath       string
	useClipboard     bool
	userPrompt       string
	tokenizerModel   string
	verbosity        int
	configFilePath   string
}

func createGenerateCommand() *cobra.Command {
	var options generateOptions

	generateCommand := &cobra.Command{
		Use:     generateUse,
		Aliases: []string{generateAlias},
		Short:   generateShortDescription,
		Long:    generateLongDescription,
		Example: generateUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runGenerate(command, &options)
		},
	}

	generateCommand.Flags().StringVar(&options.rootPath, pathFlagName, defaultPath, pathFlagDescription)
	generateCommand.Flags().StringVar(&options.extensionList, extensionsFlagName, defaultExtensions, extensionsFlagDescription)
	generateCommand.Flags().StringVar(&options.excludeList, excludeFlagName, defaultExcludes, excludeFlagDescription)
	generateCommand.Flags().StringVar(&options.vcsDirectoryName, vcsDirectoryFlag, defaultVCSDirectoryName, vcsDirectoryDescription)
	generateCommand.Flags().BoolVar(&options.disableGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	generateCommand.Flags().BoolVar(&options.autoSelect, autoFlagName, false, autoFlagDescription)
	generateCommand.Flags().StringVar(&options.outputPath, outputFlagName, "", outputFlagDescription)
	generateCommand.Flags().BoolVar(&options.useClipboard, clipboardFlagName, false, clipboardFlagDescription)
	generateCommand.Flags().StringVar(&options.userPrompt, promptFlagName, "", promptFlagDescription)
	generateCommand.Flags().StringVar(&options.tokenizerModel, modelFlagName, defaultTokenizerModel, modelFlagDescription)
	generateCommand.Flags().CountVarP(&options.verbosity, verboseFlagName, "v", verboseFlagDescription)
	generateCommand.Flags().StringVar(&options.configFilePath, configFlagName, "", configFlagDescription)
	return generateCommand
}

// applyConfiguration overlays file-based configuration onto flags the
// operator did not set explicitly.
func applyConfiguration(command *cobra.Command, options *generateOptions) error {
	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		ExplicitFilePath: options.configFilePath,
	})
	if loadError != nil {
		return loadError
	}
	generateConfiguration := applicationConfiguration.Generate

	flagSet := command.Flags()
	if !flagSet.Changed(pathFlagName) && generateConfiguration.Path != "" {
		options.rootPath = generateConfiguration.Path
	}
	if !flagSet.Changed(extensionsFlagName) && generateConfiguration.Extensions != "" {
		options.extensionList = generateConfiguration.Extensions
	}
	if !flagSet.Changed(excludeFlagName) && generateConfiguration.Exclude != "" {
		options.excludeList = generateConfiguration.Exclude
	}
	if !flagSet.Changed(vcsDirectoryFlag) && generateConfiguration.VCSDirectoryName != "" {
		options.vcsDirectoryName = generateConfiguration.VCSDirectoryName
	}
	if !flagSet.Changed(noGitignoreFlagName) && generateConfiguration.UseGitignore != nil {
		options.disableGitignore = !*generateConfiguration.UseGitignore
	}
	if !flagSet.Changed(autoFlagName) && generateConfiguration.AutoSelect != nil {
		options.autoSelect = *generateConfiguration.AutoSelect
	}
	if !flagSet.Changed(outputFlagName) && generateConfiguration.Output != "" {
		options.outputPath = generateConfiguration.Output
	}
	if !flagSet.Changed(clipboardFlagName) && generateConfiguration.Clipboard != nil {
		options.useClipboard = *generateConfiguration.Clipboard
	}
	if !flagSet.Changed(promptFlagName) && generateConfiguration.Prompt != "" {
		options.userPrompt = generateConfiguration.Prompt
	}
	if !flagSet.Changed(modelFlagName) && generateConfiguration.Model != "" {
		options.tokenizerModel = generateConfiguration.Model
	}
	if len(generateConfiguration.ExtraExcludes) > 0 {
		options.excludeList = options.excludeList + listSeparator + strings.Join(generateConfiguration.ExtraExcludes, listSeparator)
	}
	return nil
}

func runGenerate(command *cobra.Command, options *generateOptions) error {
	if configurationError := applyConfiguration(command, options); configurationError != nil {
		return configurationError
	}

	loggerInstance, loggerError := utils.NewApplicationLogger(options.verbosity)
	if loggerError != nil {
		return fmt.Errorf("initializing logger: %w", loggerError)
	}
	defer func() { _ = loggerInstance.Sync() }()
	logger := loggerInstance.Sugar()

	discoveryConfiguration := discover.Config{
		Root:              options.rootPath,
		Extensions:        splitCommaList(options.extensionList),
		ExcludeSubstrings: splitCommaList(options.excludeList),
		VCSDirectoryName:  options.vcsDirectoryName,
		UseIgnoreFile:     !options.disableGitignore,
	}

	engine := discover.NewEngine(logger)
	discoveryResult, discoveryError := engine.Discover(discoveryConfiguration)
	if discoveryError != nil {
		return discoveryError
	}

	interactive := !options.autoSelect
	if interactive && (!isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd())) {
		logger.Info("not attached to a terminal; auto-selecting all files")
		interactive = false
	}

	reader := utils.NewFileContentReader(logger)
	selectedFiles, selectionError := selection.RunSelection(discoveryResult.Matches, interactive, reader, logger)
	if selectionError != nil {
		if errors.Is(selectionError, selection.ErrSelectionCancelled) ||
			errors.Is(selectionError, selection.ErrNoFilesSelected) {
			fmt.Fprintf(os.Stderr, "%v\n", selectionError)
			return nil
		}
		return selectionError
	}

	counter, counterName := tokenizer.NewCounter(options.tokenizerModel)
	logger.Debugf("token estimates use %s", counterName)

	fileMapText := assemble.RenderFileMap(discoveryResult.FileMap)
	contextOutput, buildError := assemble.BuildContextOutput(selectedFiles, fileMapText, options.userPrompt, counter, logger)
	if buildError != nil {
		return buildError
	}
	formattedContext := assemble.Format(contextOutput)

	writer := output.NewWriter(options.outputPath, options.useClipboard, logger)
	if writeError := writer.Write(formattedContext); writeError != nil {
		return writeError
	}

	logger.Infof("generated context from %d files (~%d tokens)", len(selectedFiles), contextOutput.TokenCount)
	return nil
}

// splitCommaList splits a comma-separated flag value into trimmed entries.
func splitCommaList(listValue string) []string {
	var entries []string
	for _, rawEntry := range strings.Split(listValue, listSeparator) {
		trimmedEntry := strings.TrimSpace(rawEntry)
		if trimmedEntry != "" {
			entries = append(entries, trimmedEntry)
		}
	}
	return entries
}
