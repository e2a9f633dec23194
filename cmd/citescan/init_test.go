package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/citescan/internal/config"
	"github.com/ludo-technologies/citescan/internal/constants"
)

func runInitCmd(t *testing.T, args ...string) error {
	t.Helper()
	cmd := initCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	return cmd.Execute()
}

func TestInitCommand_BasicConfigCreation(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), constants.ConfigFileName)

	if err := runInitCmd(t, "--config", configPath); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	for _, section := range []string{"scoring:", "weights:", "penalties:", "limits:", "output:", "analysis:", "check:"} {
		if !strings.Contains(string(content), section) {
			t.Errorf("Config file missing expected section: %s", section)
		}
	}

	// The generated file must load back as a valid configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("generated config is invalid: %v", err)
	}
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), constants.ConfigFileName)
	if err := os.WriteFile(configPath, []byte("existing: true\n"), 0644); err != nil {
		t.Fatalf("Failed to create existing file: %v", err)
	}

	err := runInitCmd(t, "--config", configPath)
	if err == nil {
		t.Fatal("Expected error when file exists without --force")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected 'already exists' error, got: %v", err)
	}

	if err := runInitCmd(t, "--config", configPath, "--force"); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}
	if !strings.Contains(string(content), "scoring:") {
		t.Error("Config file was not overwritten with new content")
	}
}

func TestInitCommand_MinimalConfig(t *testing.T) {
	dir := t.TempDir()
	fullPath := filepath.Join(dir, "full.yaml")
	minimalPath := filepath.Join(dir, "minimal.yaml")

	if err := runInitCmd(t, "--config", fullPath); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := runInitCmd(t, "--config", minimalPath, "--minimal"); err != nil {
		t.Fatalf("init --minimal failed: %v", err)
	}

	full, _ := os.ReadFile(fullPath)
	minimal, _ := os.ReadFile(minimalPath)

	if len(minimal) >= len(full) {
		t.Errorf("Minimal config (%d bytes) should be smaller than full config (%d bytes)", len(minimal), len(full))
	}
	if !strings.Contains(string(minimal), "check:") {
		t.Error("Minimal config missing check section")
	}
}

func TestInitCommand_InvalidDirectory(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "missing", "citescan.yaml")

	err := runInitCmd(t, "--config", configPath)
	if err == nil || !strings.Contains(err.Error(), "directory does not exist") {
		t.Errorf("Expected missing directory error, got: %v", err)
	}
}

func TestInitCmd_FlagsExist(t *testing.T) {
	cmd := initCmd()

	flags := map[string]string{
		"config":      "c",
		"force":       "f",
		"minimal":     "",
		"interactive": "i",
	}
	for name, short := range flags {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			t.Errorf("Missing expected flag: --%s", name)
			continue
		}
		if flag.Shorthand != short {
			t.Errorf("--%s shorthand = %q, want %q", name, flag.Shorthand, short)
		}
	}
}

func TestInitCmd_DefaultConfigPath(t *testing.T) {
	flag := initCmd().Flags().Lookup("config")
	if flag == nil {
		t.Fatal("config flag not found")
	}
	if flag.DefValue != constants.ConfigFileName {
		t.Errorf("Expected default config path %q, got %q", constants.ConfigFileName, flag.DefValue)
	}
}
