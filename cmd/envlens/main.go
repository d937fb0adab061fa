package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/soradev/envlens/internal/analyzer"
	"github.com/soradev/envlens/internal/config"
	"github.com/soradev/envlens/internal/engine"
	"github.com/soradev/envlens/internal/envfile"
	"github.com/soradev/envlens/internal/output"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	rootCmd = &cobra.Command{
		Use:   "envlens",
		Short: "Reconcile environment variable usage against env files",
		Long:  "A CLI tool that scans codebases for environment variable usages and reconciles them with .env-style definition files.",
	}

	scanCmd = &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a codebase and report environment variable issues",
		Long:  "Recursively scan a directory for environment variable usages, compare with definition files, and report missing, unused, mistyped, drifted, and exposed variables.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScan,
	}

	syncCmd = &cobra.Command{
		Use:   "sync [path]",
		Short: "Check definition files against the documentation template",
		Long:  "Compare live definition files with the documentation template (.env.example) and report drift in both directions.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSync,
	}

	initConfigCmd = &cobra.Command{
		Use:   "init-config",
		Short: "Create a .envlens.yml file in the current directory",
		Long:  "Creates a .envlens.yml file with a commented default configuration in the current directory.",
		RunE:  runInitConfig,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(Version)
		},
	}

	// Flags
	scanPath      string
	envFiles      []string
	templateFile  string
	frameworkName string
	jsonOutput    bool
	sarifOutput   bool
	silent        bool
	skipUnused    bool
	debug         bool
	noHeader      bool
	allowNoEnv    bool
	includeGlobs  []string
	excludeGlobs  []string
)

func init() {
	for _, cmd := range []*cobra.Command{scanCmd, syncCmd} {
		cmd.Flags().StringVarP(&scanPath, "path", "p", ".", "Path to scan (default: current directory)")
		cmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "Additional definition file to load (repeatable, highest priority)")
		cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
		cmd.Flags().BoolVar(&silent, "silent", false, "Silent mode (exit code only)")
		cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	}
	scanCmd.Flags().StringVar(&templateFile, "template", "", "Documentation template to check for drift (default: auto-detect .env.example)")
	scanCmd.Flags().StringVar(&frameworkName, "framework", "", "Framework profile override (next, vite, create-react-app, nuxt, gatsby, sveltekit, astro)")
	scanCmd.Flags().BoolVar(&sarifOutput, "sarif", false, "Output results in SARIF format")
	scanCmd.Flags().BoolVar(&skipUnused, "skip-unused", false, "Skip reporting unused variables")
	scanCmd.Flags().BoolVar(&noHeader, "no-header", false, "Skip printing the header")
	scanCmd.Flags().BoolVar(&allowNoEnv, "allow-no-env", false, "Continue when no definition file is found")
	scanCmd.Flags().StringSliceVar(&includeGlobs, "include", []string{}, "Glob patterns to include")
	scanCmd.Flags().StringSliceVar(&excludeGlobs, "exclude", []string{}, "Glob patterns to exclude")
	syncCmd.Flags().StringVar(&templateFile, "template", "", "Documentation template to compare against (default: auto-detect .env.example)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(versionCmd)
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func resolveRoot(args []string) (string, error) {
	path := scanPath
	if len(args) > 0 {
		path = args[0]
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("path does not exist: %s", absPath)
	}
	return absPath, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	absPath, err := resolveRoot(args)
	if err != nil {
		return err
	}

	log := newLogger()

	if !noHeader && !jsonOutput && !sarifOutput && !silent {
		printHeader()
	}

	cfg, err := config.Load(absPath)
	if err != nil {
		if !silent {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		cfg = &config.Config{}
	}

	if !silent && !jsonOutput && !sarifOutput {
		fmt.Fprintf(os.Stderr, "Scanning %s...\n", absPath)
	}

	eng := engine.New(log)
	result, err := eng.Run(engine.Options{
		Root:               absPath,
		EnvFiles:           envFiles,
		Template:           templateFile,
		Framework:          frameworkName,
		Include:            includeGlobs,
		Exclude:            excludeGlobs,
		AllowNoDefinitions: allowNoEnv,
	}, cfg)
	if err != nil {
		return err
	}

	if skipUnused {
		dropUnused(result)
	}

	if !silent {
		format := ""
		switch {
		case jsonOutput:
			format = "json"
		case sarifOutput:
			format = "sarif"
		}
		if err := output.Format(os.Stdout, result, format); err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
	}

	if output.HasErrors(result) {
		os.Exit(1)
	}
	return nil
}

// dropUnused filters unused-variable issues and recounts severities.
func dropUnused(result *analyzer.AnalysisResult) {
	kept := result.Issues[:0]
	for _, issue := range result.Issues {
		if issue.Kind == analyzer.KindUnused {
			switch issue.Severity {
			case analyzer.SeverityError:
				result.Stats.ErrorCount--
			case analyzer.SeverityWarning:
				result.Stats.WarningCount--
			default:
				result.Stats.InfoCount--
			}
			continue
		}
		kept = append(kept, issue)
	}
	result.Issues = kept
}

func runSync(cmd *cobra.Command, args []string) error {
	absPath, err := resolveRoot(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(absPath)
	if err != nil {
		if !silent {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		cfg = &config.Config{}
	}

	templatePath := templateFile
	if templatePath == "" {
		templatePath = cfg.Template
	}
	if templatePath == "" {
		templatePath = envfile.FindTemplate(absPath)
	}
	if templatePath == "" {
		return fmt.Errorf("no documentation template found under %s (expected .env.example or similar, or use --template)", absPath)
	}

	live, liveErrs, loaded := loadLiveDefinitions(cfg, absPath)
	if len(loaded) == 0 {
		return fmt.Errorf("no definition files found under %s", absPath)
	}
	template, templateErrs, err := envfile.ParseFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", templatePath, err)
	}

	status, issues := analyzer.CompareSync(live, template)

	if jsonOutput {
		result := &analyzer.AnalysisResult{Issues: issues, Defined: live, Sync: &status}
		result.Errors = append(result.Errors, liveErrs...)
		result.Errors = append(result.Errors, templateErrs...)
		for _, issue := range issues {
			switch issue.Severity {
			case analyzer.SeverityError:
				result.Stats.ErrorCount++
			case analyzer.SeverityWarning:
				result.Stats.WarningCount++
			default:
				result.Stats.InfoCount++
			}
		}
		if !silent {
			if err := output.Format(os.Stdout, result, "json"); err != nil {
				return err
			}
		}
	} else if !silent {
		printSyncStatus(status, templatePath)
	}

	if !status.InSync {
		os.Exit(1)
	}
	return nil
}

func loadLiveDefinitions(cfg *config.Config, root string) ([]analyzer.DefinedVariable, []analyzer.FileError, []string) {
	loader := envfile.NewLoader()
	if len(cfg.EnvFiles) > 0 {
		loader.SetFiles(cfg.EnvFiles)
		loader.SetAutoDetect(false)
	}
	for _, f := range envFiles {
		loader.AddFile(f)
	}
	return loader.Load(root)
}

func printSyncStatus(status analyzer.SyncStatus, templatePath string) {
	if status.InSync {
		fmt.Printf("Definitions and %s are in sync.\n", templatePath)
		return
	}
	if len(status.MissingFromTemplate) > 0 {
		fmt.Printf("Defined but missing from %s:\n", templatePath)
		for _, name := range status.MissingFromTemplate {
			fmt.Printf("  %s\n", name)
		}
	}
	if len(status.MissingFromEnv) > 0 {
		fmt.Printf("Documented in %s but not defined:\n", templatePath)
		for _, name := range status.MissingFromEnv {
			fmt.Printf("  %s\n", name)
		}
	}
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	configPath := ".envlens.yml"

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf(".envlens.yml already exists in the current directory")
	}

	if err := os.WriteFile(configPath, []byte(config.Default), 0644); err != nil {
		return fmt.Errorf("failed to create .envlens.yml: %w", err)
	}

	fmt.Println("Created .envlens.yml in the current directory")
	return nil
}

func printHeader() {
	header := ` _____ _   ___      ___    _____ _   _ ____
 ||==  ||\ || \\  // ||    ||==  ||\ || (( \
 ||___ || \||  \\//  ||__| ||___ || \|| \_))
`
	fmt.Print(header)
	fmt.Printf("Version: %s\n\n", Version)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
