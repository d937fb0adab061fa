package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/soradev/envlens/internal/analyzer"
	"github.com/soradev/envlens/internal/config"
	"github.com/soradev/envlens/internal/rules"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func newEngine() *Engine {
	return New(zerolog.Nop())
}

func kinds(issues []analyzer.Issue) map[analyzer.Kind]int {
	m := make(map[analyzer.Kind]int)
	for _, i := range issues {
		m[i.Kind]++
	}
	return m
}

func TestRun_FullProject(t *testing.T) {
	root := writeTree(t, map[string]string{
		".env": "API_URL=http://localhost\nUNUSED_FLAG=on\n",
		"src/app.js": `const url = process.env.API_URL;
const key = process.env.MISSING_KEY;
`,
	})

	result, err := newEngine().Run(Options{Root: root}, nil)
	if err != nil {
		t.Fatal(err)
	}

	got := kinds(result.Issues)
	if got[analyzer.KindMissing] != 1 {
		t.Errorf("Expected 1 missing issue, got %d", got[analyzer.KindMissing])
	}
	if got[analyzer.KindUnused] != 1 {
		t.Errorf("Expected 1 unused issue, got %d", got[analyzer.KindUnused])
	}
	if result.Stats.FilesScanned != 1 {
		t.Errorf("FilesScanned = %d, want 1", result.Stats.FilesScanned)
	}
	if result.Sync != nil {
		t.Error("No template present, sync status must be nil")
	}
}

func TestRun_NoDefinitionsFatal(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/app.js": "const a = process.env.X;\n",
	})

	_, err := newEngine().Run(Options{Root: root}, nil)
	if err == nil {
		t.Fatal("Expected an error when no definition file exists")
	}

	result, err := newEngine().Run(Options{Root: root, AllowNoDefinitions: true}, nil)
	if err != nil {
		t.Fatalf("AllowNoDefinitions should suppress the failure: %v", err)
	}
	if got := kinds(result.Issues); got[analyzer.KindMissing] != 1 {
		t.Errorf("Expected X reported missing, got %+v", result.Issues)
	}
}

func TestRun_MissingRoot(t *testing.T) {
	_, err := newEngine().Run(Options{Root: filepath.Join(t.TempDir(), "nope")}, nil)
	if err == nil {
		t.Fatal("Expected an error for a nonexistent root")
	}
}

func TestRun_TemplateDrift(t *testing.T) {
	root := writeTree(t, map[string]string{
		".env":         "API_URL=http://localhost\nEXTRA=1\n",
		".env.example": "API_URL=\nDOCUMENTED_ONLY=\n",
		"src/app.js":   "const u = process.env.API_URL; const e = process.env.EXTRA;\n",
	})

	result, err := newEngine().Run(Options{Root: root}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Sync == nil {
		t.Fatal("Template present, sync status expected")
	}
	if result.Sync.InSync {
		t.Error("Expected drift")
	}
	if len(result.Sync.MissingFromTemplate) != 1 || result.Sync.MissingFromTemplate[0] != "EXTRA" {
		t.Errorf("MissingFromTemplate = %v", result.Sync.MissingFromTemplate)
	}
	if len(result.Sync.MissingFromEnv) != 1 || result.Sync.MissingFromEnv[0] != "DOCUMENTED_ONLY" {
		t.Errorf("MissingFromEnv = %v", result.Sync.MissingFromEnv)
	}
}

func TestRun_FrameworkDetection(t *testing.T) {
	root := writeTree(t, map[string]string{
		"package.json": `{"dependencies":{"next":"14.0.0"}}`,
		".env":         "NEXT_PUBLIC_API=http://x\n",
		"src/page.js":  "const a = process.env.NEXT_PUBLIC_API;\n",
	})

	result, err := newEngine().Run(Options{Root: root}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Framework != "next" {
		t.Errorf("Framework = %q, want next", result.Framework)
	}
	if len(result.Used) != 1 || !result.Used[0].ClientSide {
		t.Errorf("NEXT_PUBLIC_ usage should be client side: %+v", result.Used)
	}
}

func TestRun_ConfigRulesAndIgnores(t *testing.T) {
	root := writeTree(t, map[string]string{
		".env":       "PORT=abc\n",
		"src/app.js": "const p = process.env.PORT; const s = process.env.SESSION_SECRET;\n",
	})
	cfg := &config.Config{
		Rules: map[string]rules.Rule{
			"PORT": {Type: "number"},
		},
		Ignores: config.Ignores{Missing: []string{"SESSION_SECRET"}},
	}

	result, err := newEngine().Run(Options{Root: root}, cfg)
	if err != nil {
		t.Fatal(err)
	}

	got := kinds(result.Issues)
	if got[analyzer.KindTypeMismatch] != 1 {
		t.Errorf("Expected 1 type mismatch, got %+v", result.Issues)
	}
	if got[analyzer.KindMissing] != 0 {
		t.Errorf("Ignored variable reported missing: %+v", result.Issues)
	}
}

func TestRun_IgnoredFolders(t *testing.T) {
	root := writeTree(t, map[string]string{
		".env":          "SHARED=1\n",
		"src/app.js":    "const s = process.env.SHARED;\n",
		"config/k8s.js": "const only = process.env.CONFIG_ONLY;\n",
	})
	cfg := &config.Config{Ignores: config.Ignores{Folders: []string{"config"}}}

	result, err := newEngine().Run(Options{Root: root}, cfg)
	if err != nil {
		t.Fatal(err)
	}

	got := kinds(result.Issues)
	if got[analyzer.KindMissing] != 0 {
		t.Errorf("Usage in an ignored folder must not report missing: %+v", result.Issues)
	}
	// The variable still counts as used for everything else.
	if len(result.Used) != 2 {
		t.Errorf("Expected both usages collected, got %+v", result.Used)
	}
}

func TestRun_Deterministic(t *testing.T) {
	root := writeTree(t, map[string]string{
		".env":     "A=1\n",
		"src/b.js": "const x = process.env.B_MISSING;\n",
		"src/a.js": "const y = process.env.A_MISSING;\n",
		"src/c.js": "const z = process.env.C_MISSING;\n",
	})

	first, err := newEngine().Run(Options{Root: root}, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := newEngine().Run(Options{Root: root}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(first.Issues) != len(second.Issues) {
		t.Fatalf("Issue counts differ: %d vs %d", len(first.Issues), len(second.Issues))
	}
	for i := range first.Issues {
		if first.Issues[i].Variable != second.Issues[i].Variable {
			t.Errorf("Issue %d differs across runs: %s vs %s", i, first.Issues[i].Variable, second.Issues[i].Variable)
		}
	}
}

func TestParseDefinitions(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, ".env")
	local := filepath.Join(dir, ".env.local")
	os.WriteFile(base, []byte("A=base\nB=1\n"), 0644)
	os.WriteFile(local, []byte("A=local\n"), 0644)

	vars, errs := newEngine().ParseDefinitions([]string{base, local})
	if len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	byName := make(map[string]string)
	for _, v := range vars {
		byName[v.Name] = v.Value
	}
	if byName["A"] != "local" {
		t.Errorf("Later file must win, got %q", byName["A"])
	}
	if byName["B"] != "1" {
		t.Errorf("B lost in merge: %v", byName)
	}
}

func TestScanUsages(t *testing.T) {
	usages := newEngine().ScanUsages("app.js", []byte("const a = process.env.FOO;\n"), "")
	if len(usages) != 1 || usages[0].Name != "FOO" {
		t.Fatalf("Expected FOO, got %+v", usages)
	}

	if got := newEngine().ScanUsages("notes.txt", []byte("process.env.FOO"), ""); got != nil {
		t.Errorf("Unsupported extension should scan nothing, got %+v", got)
	}
}
