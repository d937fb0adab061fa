// Package engine orchestrates one analysis run: resolve and merge
// definition files, discover source files, scan them on a bounded worker
// pool, run the analyzers, and assemble the final result. A run is a pure
// function of its inputs; nothing persists between invocations.
package engine

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/soradev/envlens/internal/analyzer"
	"github.com/soradev/envlens/internal/config"
	"github.com/soradev/envlens/internal/discover"
	"github.com/soradev/envlens/internal/envfile"
	"github.com/soradev/envlens/internal/framework"
	"github.com/soradev/envlens/internal/scanner"
)

// defaultWorkers bounds the per-file scanning pool.
const defaultWorkers = 10

// Options control one run.
type Options struct {
	Root string
	// EnvFiles are extra definition files, highest priority.
	EnvFiles []string
	// Template overrides template auto-detection; empty means detect.
	Template string
	// Framework overrides framework detection.
	Framework string
	// Include/Exclude are file globs for source discovery.
	Include []string
	Exclude []string
	// AllowNoDefinitions keeps the run alive when no definition file is
	// found; by default that's fatal.
	AllowNoDefinitions bool
	// Workers bounds the scan pool; 0 means the default.
	Workers int
}

// Engine runs analyses. Safe for reuse across runs; only the grammar
// cache inside the scanner carries over, never analysis state.
type Engine struct {
	log     zerolog.Logger
	scanner *scanner.Scanner
}

// New creates an engine.
func New(log zerolog.Logger) *Engine {
	return &Engine{
		log:     log,
		scanner: scanner.New(log),
	}
}

// ParseDefinitions parses definition files in priority order and merges
// them; later files override earlier ones. Per-line failures are returned
// alongside the partial result.
func (e *Engine) ParseDefinitions(paths []string) ([]analyzer.DefinedVariable, []analyzer.FileError) {
	var sets [][]analyzer.DefinedVariable
	var errs []analyzer.FileError
	for _, path := range paths {
		vars, fileErrs, err := envfile.ParseFile(path)
		errs = append(errs, fileErrs...)
		if err != nil {
			errs = append(errs, analyzer.FileError{File: path, Message: err.Error()})
			continue
		}
		sets = append(sets, vars)
	}
	return envfile.Merge(sets...), errs
}

// ScanUsages scans one file's content for usages under a framework
// profile. It never fails; unparseable content degrades to the regex
// fallback inside the scanner.
func (e *Engine) ScanUsages(file string, content []byte, frameworkName string) []analyzer.UsedVariable {
	language := discover.DetectLanguage(file)
	if language == "" {
		return nil
	}
	return e.scanner.Scan(content, file, language, framework.Lookup(frameworkName))
}

// Run executes a full analysis of the project at opts.Root.
func (e *Engine) Run(opts Options, cfg *config.Config) (*analyzer.AnalysisResult, error) {
	start := time.Now()

	if cfg == nil {
		cfg = &config.Config{}
	}
	info, err := os.Stat(opts.Root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("root directory does not exist: %s", opts.Root)
	}

	profile := e.resolveProfile(opts, cfg)
	e.log.Debug().Str("framework", profile.Name).Msg("framework profile resolved")

	defined, fileErrs, loaded := e.loadDefinitions(opts, cfg)
	if len(loaded) == 0 && !opts.AllowNoDefinitions {
		return nil, fmt.Errorf("no definition files found under %s (use --allow-no-env to scan anyway)", opts.Root)
	}

	template, templateErrs := e.loadTemplate(opts, cfg)
	fileErrs = append(fileErrs, templateErrs...)

	files, err := e.discoverFiles(opts, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}
	e.log.Debug().Int("files", len(files)).Msg("discovery finished")

	used, scanErrs := e.scanFiles(files, profile, opts.Workers)
	fileErrs = append(fileErrs, scanErrs...)

	ruleSet := cfg.CompileRules()
	for _, w := range ruleSet.Warnings {
		e.log.Warn().Msg(w)
	}

	result := analyzer.Analyze(analyzer.Input{
		Defined:  defined,
		Used:     used,
		Rules:    ruleSet,
		Profile:  profile,
		Template: template,
	})
	result.Errors = fileErrs
	result.Stats.FilesScanned = len(files)
	result.Stats.Errors = len(fileErrs)
	result.Stats.Duration = time.Since(start)
	return &result, nil
}

func (e *Engine) resolveProfile(opts Options, cfg *config.Config) framework.Profile {
	if opts.Framework != "" {
		return framework.Lookup(opts.Framework)
	}
	if cfg.Framework != "" {
		return framework.Lookup(cfg.Framework)
	}
	return framework.Detect(opts.Root)
}

func (e *Engine) loadDefinitions(opts Options, cfg *config.Config) ([]analyzer.DefinedVariable, []analyzer.FileError, []string) {
	loader := envfile.NewLoader()
	if len(cfg.EnvFiles) > 0 {
		loader.SetFiles(cfg.EnvFiles)
		loader.SetAutoDetect(false)
	}
	for _, f := range opts.EnvFiles {
		loader.AddFile(f)
	}
	return loader.Load(opts.Root)
}

// loadTemplate resolves and parses the documentation template. A nil
// variable slice disables the sync-drift pass entirely; an empty template
// file still runs it.
func (e *Engine) loadTemplate(opts Options, cfg *config.Config) ([]analyzer.DefinedVariable, []analyzer.FileError) {
	path := opts.Template
	if path == "" {
		path = cfg.Template
	}
	if path == "" {
		path = envfile.FindTemplate(opts.Root)
	}
	if path == "" {
		return nil, nil
	}
	vars, errs, err := envfile.ParseFile(path)
	if err != nil {
		return nil, append(errs, analyzer.FileError{File: path, Message: err.Error()})
	}
	if vars == nil {
		vars = []analyzer.DefinedVariable{}
	}
	return vars, errs
}

func (e *Engine) discoverFiles(opts Options, cfg *config.Config) ([]discover.File, error) {
	walker := discover.NewWalker()
	walker.SetIncludeGlobs(opts.Include)
	walker.SetExcludeGlobs(opts.Exclude)
	walker.AddIgnored(cfg.Ignores.Folders)
	return walker.Walk(opts.Root)
}

// scanFiles runs the per-file usage scan on a bounded worker pool. File
// scans are independent; the merged result is sorted afterwards so output
// is deterministic regardless of scheduling.
func (e *Engine) scanFiles(files []discover.File, profile framework.Profile, workers int) ([]analyzer.UsedVariable, []analyzer.FileError) {
	if workers <= 0 {
		workers = defaultWorkers
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		used   []analyzer.UsedVariable
		errs   []analyzer.FileError
		tokens = make(chan struct{}, workers)
	)

	for _, file := range files {
		wg.Add(1)
		tokens <- struct{}{}

		go func(f discover.File) {
			defer wg.Done()
			defer func() { <-tokens }()

			usages, err := e.scanner.ScanFile(f.Path, f.Rel, f.Language, profile)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, analyzer.FileError{File: f.Rel, Message: err.Error()})
				return
			}
			if f.Ignored {
				for i := range usages {
					usages[i].Ignored = true
				}
			}
			used = append(used, usages...)
		}(file)
	}
	wg.Wait()

	sort.SliceStable(used, func(i, j int) bool {
		a, b := used[i], used[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].File < errs[j].File })
	return used, errs
}
