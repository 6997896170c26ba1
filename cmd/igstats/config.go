package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"igstats/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage igstats configuration files.

Configuration is loaded from (highest priority first):
  - Command line flags
  - Environment variables (IGSTATS_*)
  - .env files
  - Configuration file
  - Default values`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the defaults",
	Long: `Write a configuration file populated with the default values.

The file is created as '.igstats.yaml' in the current directory unless a
different path is given with the --config flag.`,
	Run: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging all sources.

Sensitive values like credentials are masked.`,
	Run: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	path := configFile
	if path == "" {
		path = ".igstats.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		printError("Configuration file already exists", path)
		os.Exit(1)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		printError("Failed to write configuration file", err.Error())
		os.Exit(1)
	}

	printSuccess("Configuration file created: " + path)
	printHint("\nNext steps:")
	printHint("1. Store credentials with 'igstats auth login'")
	printHint("2. Analyze a profile with 'igstats analyze <username>'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		printError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	display := *cfg
	display.Instagram.SessionID = maskValue(display.Instagram.SessionID)
	display.Instagram.CSRFToken = maskValue(display.Instagram.CSRFToken)

	data, err := yaml.Marshal(&display)
	if err != nil {
		printError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	fmt.Print(string(data))
}

func maskValue(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
