// Package interfaces defines the shared types and contracts for all heft modules.
// This package has ZERO dependencies on any other pkg/ package.
// All cross-module communication goes through types and interfaces defined here.
package interfaces

import "time"

// RiskLevel classifies the summed dependency weight of a manifest.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// HeavyPackage is a catalog entry for a dependency known to be resource heavy.
type HeavyPackage struct {
	Weight   int    `json:"weight" yaml:"weight"`
	Category string `json:"category" yaml:"category"`
}

// Dependency is a single declared dependency in manifest order.
type Dependency struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Dev     bool   `json:"dev,omitempty" yaml:"dev,omitempty"`
}

// Manifest is the merged, ordered set of runtime and development dependencies.
type Manifest struct {
	Name         string       `json:"name,omitempty" yaml:"name,omitempty"`
	Dependencies []Dependency `json:"dependencies" yaml:"dependencies"`
}

// Capabilities holds the boolean capability flags derived from matched heavy packages.
type Capabilities struct {
	HasBrowserAutomation bool `json:"hasBrowserAutomation" yaml:"hasBrowserAutomation"`
	HasAI                bool `json:"hasAI" yaml:"hasAI"`
	HasImageProcessing   bool `json:"hasImageProcessing" yaml:"hasImageProcessing"`
	HasVideoProcessing   bool `json:"hasVideoProcessing" yaml:"hasVideoProcessing"`
	HasDatabase          bool `json:"hasDatabase" yaml:"hasDatabase"`
	TotalDependencies    int  `json:"totalDependencies" yaml:"totalDependencies"`
}

// ScoreReport is the dependency risk score of a single manifest.
type ScoreReport struct {
	HeavyPackages []string       `json:"heavyPackages" yaml:"heavyPackages"`
	TotalWeight   int            `json:"totalWeight" yaml:"totalWeight"`
	Categories    map[string]int `json:"categories" yaml:"categories"`
	RiskLevel     RiskLevel      `json:"riskLevel" yaml:"riskLevel"`
	Analysis      Capabilities   `json:"analysis" yaml:"analysis"`
}

// ParseStatus tells whether the manifest text could be deserialized.
type ParseStatus string

const (
	ParseOK     ParseStatus = "parsed"
	ParseFailed ParseStatus = "failed"
)

// ScoreResult wraps a ScoreReport with the outcome of manifest parsing.
// A failed parse always carries the zero report.
type ScoreResult struct {
	Status     ParseStatus `json:"status" yaml:"status"`
	ParseError string      `json:"parseError,omitempty" yaml:"parseError,omitempty"`
	Report     ScoreReport `json:"report" yaml:"report"`
}

// FileContent is the result of fetching a single file.
// OK is false when the file was missing or could not be decoded.
type FileContent struct {
	OK      bool   `json:"ok"`
	Content string `json:"content"`
}

// Commit is a trimmed repository commit.
type Commit struct {
	SHA     string    `json:"sha" yaml:"sha"`
	Author  string    `json:"author" yaml:"author"`
	Message string    `json:"message" yaml:"message"`
	Date    time.Time `json:"date" yaml:"date"`
}

// ServerSpecs describes the target server the footprint is compared against.
type ServerSpecs struct {
	CPUCores int `json:"cpuCores" yaml:"cpuCores"`
	RAMGB    int `json:"ramGB" yaml:"ramGB"`
}

// Default server capacity used when the caller does not provide one.
const (
	DefaultCPUCores = 2
	DefaultRAMGB    = 4
)

// DefaultServerSpecs returns the 2 core / 4 GB default.
func DefaultServerSpecs() ServerSpecs {
	return ServerSpecs{CPUCores: DefaultCPUCores, RAMGB: DefaultRAMGB}
}

// Snapshot is everything collected about a repository before analysis.
type Snapshot struct {
	Owner    string      `json:"owner"`
	Repo     string      `json:"repo"`
	Ref      string      `json:"ref,omitempty"`
	Files    []string    `json:"files"`
	Manifest FileContent `json:"manifest"`
	SizeMB   float64     `json:"size_mb"`
	Commits  []Commit    `json:"commits,omitempty"`
}

// FileTypeCount is one bucket of the file-type histogram.
type FileTypeCount struct {
	Extension string `json:"extension" yaml:"extension"`
	Count     int    `json:"count" yaml:"count"`
}

// Infrastructure flags deployment related files found in the tree.
type Infrastructure struct {
	HasDockerfile    bool `json:"hasDockerfile" yaml:"hasDockerfile"`
	HasDockerCompose bool `json:"hasDockerCompose" yaml:"hasDockerCompose"`
	HasKubernetes    bool `json:"hasKubernetes" yaml:"hasKubernetes"`
	HasTerraform     bool `json:"hasTerraform" yaml:"hasTerraform"`
	HasServerless    bool `json:"hasServerless" yaml:"hasServerless"`
	HasCIWorkflows   bool `json:"hasCIWorkflows" yaml:"hasCIWorkflows"`
	HasProcfile      bool `json:"hasProcfile" yaml:"hasProcfile"`
}

// RepoMetadata is the deterministic repository summary fed to the narrator.
type RepoMetadata struct {
	TotalFiles     int             `json:"totalFiles" yaml:"totalFiles"`
	FileTypes      []FileTypeCount `json:"fileTypes" yaml:"fileTypes"`
	SizeMB         float64         `json:"sizeMB" yaml:"sizeMB"`
	Infrastructure Infrastructure  `json:"infrastructure" yaml:"infrastructure"`
	RecentCommits  int             `json:"recentCommits" yaml:"recentCommits"`
	LastCommit     *Commit         `json:"lastCommit,omitempty" yaml:"lastCommit,omitempty"`
	HasManifest    bool            `json:"hasManifest" yaml:"hasManifest"`
	Ecosystems     []string        `json:"ecosystems,omitempty" yaml:"ecosystems,omitempty"`
}

// AnalysisResult is what each repository analyzer returns.
type AnalysisResult struct {
	AnalyzerName string         `json:"analyzer_name"`
	Duration     time.Duration  `json:"duration"`
	Error        error          `json:"-"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Report is the final output of a heft report run.
type Report struct {
	ID          string        `json:"id" yaml:"id"`
	Owner       string        `json:"owner" yaml:"owner"`
	Repo        string        `json:"repo" yaml:"repo"`
	Ref         string        `json:"ref,omitempty" yaml:"ref,omitempty"`
	Timestamp   time.Time     `json:"timestamp" yaml:"timestamp"`
	ServerSpecs ServerSpecs   `json:"serverSpecs" yaml:"serverSpecs"`
	Score       ScoreResult   `json:"score" yaml:"score"`
	Metadata    RepoMetadata  `json:"metadata" yaml:"metadata"`
	Narrated    bool          `json:"narrated" yaml:"narrated"`
	Markdown    string        `json:"markdown" yaml:"markdown"`
	Duration    time.Duration `json:"duration" yaml:"duration"`
}
