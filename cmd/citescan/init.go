package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/citescan/internal/config"
	"github.com/ludo-technologies/citescan/internal/constants"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a citescan configuration file",
		Long: `Generate a documented citescan configuration file with sensible defaults.

By default, creates ` + constants.ConfigFileName + ` in the current directory with full
documentation. Use --interactive for a guided setup wizard.

Examples:
  # Create ` + constants.ConfigFileName + ` in current directory
  citescan init

  # Custom output path
  citescan init --config custom.yaml

  # Overwrite existing file
  citescan init --force

  # Generate smaller config with essential options only
  citescan init --minimal

  # Interactive setup wizard
  citescan init --interactive
  citescan init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")

	contentType := config.ContentTypeGeneric
	strictness := config.StrictnessStandard

	if interactive {
		var err error
		contentType, strictness, configPath, err = runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	var content string
	if minimal {
		content = config.GetMinimalConfigTemplate()
	} else {
		content = config.GetFullConfigTemplate(contentType, strictness)
	}

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", displayPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nRun 'citescan score .' to score your content.")

	return nil
}

func runInteractiveSetup(defaultConfigPath string) (config.ContentType, config.Strictness, string, error) {
	fmt.Println()
	fmt.Println("citescan Configuration Setup")
	fmt.Println("============================")
	fmt.Println()

	contentTypes := []struct {
		Label string
		Value config.ContentType
	}{
		{"Generic markdown and HTML", config.ContentTypeGeneric},
		{"Documentation (docs/, guides)", config.ContentTypeDocs},
		{"Static site output (HTML pages)", config.ContentTypeSite},
	}

	contentTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }}",
		Inactive: "   {{ .Label | white }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	contentPrompt := promptui.Select{
		Label:     "What kind of content is this?",
		Items:     contentTypes,
		Templates: contentTemplates,
	}

	contentIdx, _, err := contentPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("content selection cancelled: %w", err)
	}
	selectedContent := contentTypes[contentIdx].Value

	fmt.Println()

	strictnessLevels := []struct {
		Label       string
		Description string
		Value       config.Strictness
	}{
		{"Standard (recommended)", "Minimum score 50, grade D", config.StrictnessStandard},
		{"Relaxed", "Minimum score 30, no grade gate", config.StrictnessRelaxed},
		{"Strict", "Minimum score 70, grade B, penalties capped", config.StrictnessStrict},
	}

	strictnessTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "   {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	strictnessPrompt := promptui.Select{
		Label:     "How strict should the check gate be?",
		Items:     strictnessLevels,
		Templates: strictnessTemplates,
	}

	strictnessIdx, _, err := strictnessPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("strictness selection cancelled: %w", err)
	}
	selectedStrictness := strictnessLevels[strictnessIdx].Value

	fmt.Println()

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("output path input cancelled: %w", err)
	}

	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Println()
	fmt.Printf("Creating %s... ", outputPath)

	return selectedContent, selectedStrictness, outputPath, nil
}
