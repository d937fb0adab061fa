package discover

import (
	"os"
	"path/filepath"
	"testing"
)

func makeTree(t *testing.T, files []string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("// placeholder\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func relPaths(files []File) []string {
	var out []string
	for _, f := range files {
		out = append(out, f.Rel)
	}
	return out
}

func TestWalk_SelectsSupportedLanguages(t *testing.T) {
	root := makeTree(t, []string{
		"src/app.js",
		"src/types.ts",
		"api/main.go",
		"scripts/job.py",
		"svc/lib.rs",
		"svc/Main.java",
		"README.md",
		"assets/logo.svg",
	})

	files, err := NewWalker().Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 6 {
		t.Fatalf("Expected 6 files, got %d: %v", len(files), relPaths(files))
	}

	langs := make(map[string]string)
	for _, f := range files {
		langs[f.Rel] = f.Language
	}
	if langs["src/app.js"] != LangJavaScript {
		t.Errorf("app.js language = %s", langs["src/app.js"])
	}
	if langs["src/types.ts"] != LangTypeScript {
		t.Errorf("types.ts language = %s", langs["src/types.ts"])
	}
	if langs["api/main.go"] != LangGo {
		t.Errorf("main.go language = %s", langs["api/main.go"])
	}
}

func TestWalk_ExcludesDependencyDirs(t *testing.T) {
	root := makeTree(t, []string{
		"src/app.js",
		"node_modules/pkg/index.js",
		"vendor/lib/lib.go",
		"dist/bundle.js",
		".next/server/page.js",
	})

	files, err := NewWalker().Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Rel != "src/app.js" {
		t.Fatalf("Expected only src/app.js, got %v", relPaths(files))
	}
}

func TestWalk_IgnoredFoldersStillScanned(t *testing.T) {
	root := makeTree(t, []string{
		"src/app.js",
		"config/deploy.js",
	})

	w := NewWalker()
	w.AddIgnored([]string{"config"})
	files, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("Ignored folders must still be walked, got %v", relPaths(files))
	}
	for _, f := range files {
		switch f.Rel {
		case "src/app.js":
			if f.Ignored {
				t.Error("src/app.js should not be ignored")
			}
		case "config/deploy.js":
			if !f.Ignored {
				t.Error("config/deploy.js should be marked ignored")
			}
		}
	}
}

func TestWalk_IgnoredPathPrefix(t *testing.T) {
	root := makeTree(t, []string{
		"infra/k8s/deploy.js",
		"infra/scripts/run.js",
	})

	w := NewWalker()
	w.AddIgnored([]string{"infra/k8s"})
	files, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		want := f.Rel == "infra/k8s/deploy.js"
		if f.Ignored != want {
			t.Errorf("%s: ignored = %v, want %v", f.Rel, f.Ignored, want)
		}
	}
}

func TestWalk_IncludeGlobs(t *testing.T) {
	root := makeTree(t, []string{
		"src/app.js",
		"src/app.test.js",
		"src/util.ts",
	})

	w := NewWalker()
	w.SetIncludeGlobs([]string{"*.ts"})
	files, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Rel != "src/util.ts" {
		t.Fatalf("Expected only src/util.ts, got %v", relPaths(files))
	}
}

func TestWalk_ExcludeGlobs(t *testing.T) {
	root := makeTree(t, []string{
		"src/app.js",
		"src/app.test.js",
	})

	w := NewWalker()
	w.SetExcludeGlobs([]string{"*.test.js"})
	files, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Rel != "src/app.js" {
		t.Fatalf("Expected only src/app.js, got %v", relPaths(files))
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.js", LangJavaScript},
		{"a.jsx", LangJavaScript},
		{"a.mjs", LangJavaScript},
		{"a.ts", LangTypeScript},
		{"a.tsx", LangTypeScript},
		{"a.go", LangGo},
		{"a.py", LangPython},
		{"a.rs", LangRust},
		{"A.java", LangJava},
		{"a.rb", ""},
		{"Makefile", ""},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.path); got != tt.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
