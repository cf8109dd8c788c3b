// Package config loads layered application configuration for richprompt.
// A global file under the user's home directory is overlaid by a local file
// in the working directory; command-line flags always win over both.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// GlobalConfigDirectoryName is the per-user configuration directory.
	GlobalConfigDirectoryName = ".richprompt"
	// GlobalConfigFileName is the file read from the global directory.
	GlobalConfigFileName = "config.yaml"
	// LocalConfigFileName is the file read from the working directory.
	LocalConfigFileName = ".richprompt.yaml"
)

// LoadOptions controls how configuration files are discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds defaults for the generate command.
type ApplicationConfiguration struct {
	Generate GenerateConfiguration `mapstructure:"generate"`
}

// GenerateConfiguration mirrors the generate command's flag surface.
// Pointer fields distinguish "unset" from an explicit false.
type GenerateConfiguration struct {
	Path             string   `mapstructure:"path"`
	Extensions       string   `mapstructure:"extensions"`
	Exclude          string   `mapstructure:"exclude"`
	VCSDirectoryName string   `mapstructure:"vcs_dir"`
	UseGitignore     *bool    `mapstructure:"use_gitignore"`
	AutoSelect       *bool    `mapstructure:"auto"`
	Output           string   `mapstructure:"output"`
	Clipboard        *bool    `mapstructure:"clipboard"`
	Model            string   `mapstructure:"model"`
	Prompt           string   `mapstructure:"prompt"`
	ExtraExcludes    []string `mapstructure:"extra_excludes"`
}

// LoadApplicationConfiguration merges the global and local configuration
// files. Missing files are not errors.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, GlobalConfigDirectoryName, GlobalConfigFileName)
		globalConfiguration, loadError := loadConfigurationFromPath(globalPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfiguration)
	}

	localPath := options.ExplicitFilePath
	if localPath == "" {
		localPath = filepath.Join(workingDirectory, LocalConfigFileName)
	} else if !filepath.IsAbs(localPath) {
		localPath = filepath.Join(workingDirectory, localPath)
	}
	localConfiguration, loadError := loadConfigurationFromPath(localPath)
	if loadError != nil {
		return ApplicationConfiguration{}, loadError
	}
	merged = merged.Merge(localConfiguration)

	return merged, nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	fileInformation, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if fileInformation.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver and returns the combination.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Generate = result.Generate.merge(override.Generate)
	return result
}

func (configuration GenerateConfiguration) merge(override GenerateConfiguration) GenerateConfiguration {
	result := configuration
	if override.Path != "" {
		result.Path = override.Path
	}
	if override.Extensions != "" {
		result.Extensions = override.Extensions
	}
	if override.Exclude != "" {
		result.Exclude = override.Exclude
	}
	if override.VCSDirectoryName != "" {
		result.VCSDirectoryName = override.VCSDirectoryName
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.AutoSelect != nil {
		result.AutoSelect = cloneBool(override.AutoSelect)
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	if override.Prompt != "" {
		result.Prompt = override.Prompt
	}
	if len(override.ExtraExcludes) > 0 {
		result.ExtraExcludes = append([]string{}, override.ExtraExcludes...)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
