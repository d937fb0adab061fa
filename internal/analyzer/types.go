package analyzer

import "time"

// DynamicName is the sentinel key recorded for accesses whose variable name
// cannot be determined statically (e.g. process.env[someVar]). It must never
// be matched against a real definition.
const DynamicName = "<dynamic>"

// AccessIdiom is the syntactic shape of a usage.
type AccessIdiom string

const (
	AccessDirect      AccessIdiom = "direct"      // ENV.NAME
	AccessBracket     AccessIdiom = "bracket"     // ENV["NAME"]
	AccessDestructure AccessIdiom = "destructure" // const {NAME} = ENV
	AccessDynamic     AccessIdiom = "dynamic"     // ENV[expr]
)

// InferredType is a best-effort type derived from how a usage is consumed.
type InferredType string

const (
	TypeString  InferredType = "string"
	TypeNumber  InferredType = "number"
	TypeBoolean InferredType = "boolean"
	TypeJSON    InferredType = "json"
	TypeArray   InferredType = "array"
	TypeUnknown InferredType = "unknown"
)

// DefinedVariable is a variable declared in a definition file.
type DefinedVariable struct {
	Name   string
	Value  string
	File   string
	Line   int // 1-based
	Secret bool
}

// UsedVariable is a single read of an environment variable in source code.
type UsedVariable struct {
	Name       string // DynamicName when not statically determinable
	File       string
	Line       int // 1-based
	Column     int // 1-based
	Idiom      AccessIdiom
	Type       InferredType
	ClientSide bool
	Snippet    string // trimmed source line, for reporting
	// Ignored marks usages from ignored folders: they keep a variable
	// from counting as unused but never raise issues themselves.
	Ignored bool
}

// Kind classifies an issue.
type Kind string

const (
	KindMissing       Kind = "missing"
	KindUnused        Kind = "unused"
	KindTypeMismatch  Kind = "type-mismatch"
	KindSyncDrift     Kind = "sync-drift"
	KindSecretExposed Kind = "secret-exposed"
	KindInvalidValue  Kind = "invalid-value"
	KindDynamicAccess Kind = "dynamic-access"
)

// Severity of an issue. Derived deterministically from kind + rule config.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a single defect surfaced by an analyzer.
type Issue struct {
	Kind       Kind              `json:"kind"`
	Severity   Severity          `json:"severity"`
	Variable   string            `json:"variable"`
	Message    string            `json:"message"`
	File       string            `json:"file,omitempty"`
	Line       int               `json:"line,omitempty"`
	Column     int               `json:"column,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    map[string]string `json:"context,omitempty"`
}

// FileError records a recoverable per-file or per-line failure.
type FileError struct {
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

// Stats summarizes a single run.
type Stats struct {
	FilesScanned int           `json:"files_scanned"`
	Duration     time.Duration `json:"duration"`
	Errors       int           `json:"errors"`
	ErrorCount   int           `json:"error_count"`
	WarningCount int           `json:"warning_count"`
	InfoCount    int           `json:"info_count"`
}

// SyncStatus is the result of diffing a live variable set against a template.
type SyncStatus struct {
	InSync              bool     `json:"in_sync"`
	MissingFromTemplate []string `json:"missing_from_template"`
	MissingFromEnv      []string `json:"missing_from_env"`
}

// AnalysisResult aggregates everything one invocation produced. It is
// constructed once and never mutated afterwards.
type AnalysisResult struct {
	Issues    []Issue           `json:"issues"`
	Defined   []DefinedVariable `json:"defined"`
	Used      []UsedVariable    `json:"used"`
	Framework string            `json:"framework,omitempty"`
	Sync      *SyncStatus       `json:"sync,omitempty"`
	Errors    []FileError       `json:"file_errors,omitempty"`
	Stats     Stats             `json:"stats"`
}
