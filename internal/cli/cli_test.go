package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSplitCommaListTrimsAndDropsEmptyEntries(t *testing.T) {
	testCases := []struct {
		name      string
		listValue string
		want      []string
	}{
		{name: "plain list", listValue: "go,md,rs", want: []string{"go", "md", "rs"}},
		{name: "spaces around entries", listValue: " go , md ", want: []string{"go", "md"}},
		{name: "empty entries dropped", listValue: "go,,md,", want: []string{"go", "md"}},
		{name: "empty input", listValue: "", want: nil},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := splitCommaList(testCase.listValue)
			if len(got) != len(testCase.want) {
				t.Fatalf("splitCommaList(%q) = %v, want %v", testCase.listValue, got, testCase.want)
			}
			for entryIndex := range testCase.want {
				if got[entryIndex] != testCase.want[entryIndex] {
					t.Fatalf("splitCommaList(%q) = %v, want %v", testCase.listValue, got, testCase.want)
				}
			}
		})
	}
}

func TestRootCommandRegistersGenerate(t *testing.T) {
	rootCommand := createRootCommand()

	generateCommand, _, findError := rootCommand.Find([]string{"generate"})
	if findError != nil || generateCommand.Name() != "generate" {
		t.Fatalf("generate command not registered: %v", findError)
	}
	aliasedCommand, _, aliasError := rootCommand.Find([]string{"g"})
	if aliasError != nil || aliasedCommand.Name() != "generate" {
		t.Fatalf("g alias not registered: %v", aliasError)
	}
}

func TestApplyConfigurationRespectsExplicitFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workingDirectory := t.TempDir()
	configurationText := "generate:\n  path: /from/config\n  model: gpt-4\n  extra_excludes:\n    - generated\n"
	configurationPath := filepath.Join(workingDirectory, "richprompt.yaml")
	if writeError := os.WriteFile(configurationPath, []byte(configurationText), 0o644); writeError != nil {
		t.Fatalf("writing configuration file: %v", writeError)
	}

	generateCommand := createGenerateCommand()
	if parseError := generateCommand.ParseFlags([]string{"--path", "/from/flag", "--config", configurationPath}); parseError != nil {
		t.Fatalf("parsing flags: %v", parseError)
	}

	options := generateOptions{
		rootPath:       "/from/flag",
		excludeList:    defaultExcludes,
		tokenizerModel: defaultTokenizerModel,
		configFilePath: configurationPath,
	}
	if configurationError := applyConfiguration(generateCommand, &options); configurationError != nil {
		t.Fatalf("applyConfiguration returned error: %v", configurationError)
	}

	if options.rootPath != "/from/flag" {
		t.Errorf("rootPath = %q, an explicit flag must win over the configuration file", options.rootPath)
	}
	if options.tokenizerModel != "gpt-4" {
		t.Errorf("tokenizerModel = %q, want the configuration value for an unset flag", options.tokenizerModel)
	}
	if options.excludeList != defaultExcludes+",generated" {
		t.Errorf("excludeList = %q, want extra excludes appended", options.excludeList)
	}
}
