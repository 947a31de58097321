// Package analyzer derives deterministic repository metadata from a collected snapshot.
package analyzer

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/toyinlola/heft/pkg/interfaces"
)

// Analyzer contributes one slice of repository metadata.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, snap *interfaces.Snapshot) (*interfaces.AnalysisResult, error)
}

type registration struct {
	analyzer Analyzer
	disabled bool
}

// Registry holds analyzers in registration order. Names are unique.
type Registry struct {
	mu      sync.RWMutex
	entries []*registration
}

// NewRegistry creates an empty analyzer registry.
func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) find(name string) *registration {
	for _, e := range r.entries {
		if e.analyzer.Name() == name {
			return e
		}
	}
	return nil
}

// Register appends an enabled analyzer. A duplicate name is an error.
func (r *Registry) Register(a Analyzer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.find(a.Name()) != nil {
		return fmt.Errorf("analyzer: %q is already registered", a.Name())
	}
	r.entries = append(r.entries, &registration{analyzer: a})
	return nil
}

// Get returns the named analyzer, or nil.
func (r *Registry) Get(name string) Analyzer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e := r.find(name); e != nil {
		return e.analyzer
	}
	return nil
}

// List returns every registered name, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.analyzer.Name()
	}
	slices.Sort(names)
	return names
}

// SetEnabled toggles an analyzer on or off.
func (r *Registry) SetEnabled(name string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.find(name)
	if e == nil {
		return fmt.Errorf("analyzer: %q is not registered", name)
	}
	e.disabled = !enabled
	return nil
}

// IsEnabled reports whether name is registered and enabled.
func (r *Registry) IsEnabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e := r.find(name)
	return e != nil && !e.disabled
}

// EnabledAnalyzers returns the enabled analyzers in registration order.
func (r *Registry) EnabledAnalyzers() []Analyzer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Analyzer
	for _, e := range r.entries {
		if !e.disabled {
			out = append(out, e.analyzer)
		}
	}
	return out
}

// DefaultRegistry returns a registry holding the built-in analyzers.
// topFileTypes limits the histogram length; zero keeps every bucket.
func DefaultRegistry(scorer ManifestScorer, topFileTypes int) *Registry {
	return &Registry{entries: []*registration{
		{analyzer: NewFileTypesAnalyzer(topFileTypes)},
		{analyzer: NewInfrastructureAnalyzer()},
		{analyzer: NewDependenciesAnalyzer(scorer)},
		{analyzer: NewActivityAnalyzer()},
	}}
}
