package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.EnvFiles) != 0 || cfg.Template != "" || cfg.Framework != "" {
		t.Errorf("Expected zero-value config, got %+v", cfg)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	content := `envFiles:
  - .env
  - .env.staging
template: .env.example
framework: next
rules:
  DATABASE_URL:
    required: true
    pattern: "^postgres://"
  PORT:
    type: number
    default: "3000"
  SESSION_SECRET:
    secret: true
ignores:
  missing:
    - EXTERNAL_TOKEN
  unused:
    - LEGACY_*
  folders:
    - config
`
	if err := os.WriteFile(filepath.Join(dir, ".envlens.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.EnvFiles) != 2 || cfg.EnvFiles[1] != ".env.staging" {
		t.Errorf("EnvFiles = %v", cfg.EnvFiles)
	}
	if cfg.Template != ".env.example" {
		t.Errorf("Template = %q", cfg.Template)
	}
	if cfg.Framework != "next" {
		t.Errorf("Framework = %q", cfg.Framework)
	}
	if !cfg.Rules["DATABASE_URL"].Required {
		t.Error("DATABASE_URL should be required")
	}
	if cfg.Rules["PORT"].Default != "3000" {
		t.Errorf("PORT default = %q", cfg.Rules["PORT"].Default)
	}
	secret := cfg.Rules["SESSION_SECRET"].Secret
	if secret == nil || !*secret {
		t.Error("SESSION_SECRET secret flag not parsed")
	}
	if len(cfg.Ignores.Folders) != 1 || cfg.Ignores.Folders[0] != "config" {
		t.Errorf("Ignores.Folders = %v", cfg.Ignores.Folders)
	}

	rs := cfg.CompileRules()
	if len(rs.Warnings) != 0 {
		t.Errorf("Unexpected warnings: %v", rs.Warnings)
	}
	if !rs.IgnoreUnused("LEGACY_FLAG") {
		t.Error("LEGACY_* glob should cover LEGACY_FLAG")
	}
}

func TestLoad_YamlExtensionFallback(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".envlens.yaml"), []byte("framework: vite\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Framework != "vite" {
		t.Errorf("Framework = %q, want vite", cfg.Framework)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".envlens.yml"), []byte("rules: [not: a map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("Expected a parse error")
	}
}

func TestDefault_IsValidYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".envlens.yml"), []byte(Default), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("The init-config scaffold must parse: %v", err)
	}
	if rs := cfg.CompileRules(); len(rs.Warnings) != 0 {
		t.Errorf("Scaffold produced rule warnings: %v", rs.Warnings)
	}
}
