package report

import (
	"context"
	"sync"

	"github.com/toyinlola/heft/pkg/interfaces"
)

// mockProvider implements interfaces.RepositoryProvider for testing.
// It returns canned data and records which calls were made.
type mockProvider struct {
	mu sync.Mutex

	files    []string
	filesErr error
	manifest interfaces.FileContent
	sizeMB   float64
	sizeErr  error
	commits  []interfaces.Commit
	commErr  error

	calls   []string
	gotRef       string
	gotCommitRef string
	gotPath      string
	gotLim       int
}

func (m *mockProvider) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockProvider) ListFiles(_ context.Context, _, _, ref string) ([]string, error) {
	m.record("files")
	m.mu.Lock()
	m.gotRef = ref
	m.mu.Unlock()
	return m.files, m.filesErr
}

func (m *mockProvider) GetFile(_ context.Context, _, _, path, _ string) interfaces.FileContent {
	m.record("content")
	m.mu.Lock()
	m.gotPath = path
	m.mu.Unlock()
	return m.manifest
}

func (m *mockProvider) RepoSizeMB(_ context.Context, _, _ string) (float64, error) {
	m.record("size")
	return m.sizeMB, m.sizeErr
}

func (m *mockProvider) RecentCommits(_ context.Context, _, _, ref string, limit int) ([]interfaces.Commit, error) {
	m.record("commits")
	m.mu.Lock()
	m.gotCommitRef = ref
	m.gotLim = limit
	m.mu.Unlock()
	return m.commits, m.commErr
}

// mockNarrator implements interfaces.Narrator.
type mockNarrator struct {
	body      string
	err       error
	gotSystem string
	gotPrompt string
}

func (n *mockNarrator) Narrate(_ context.Context, system, prompt string) (string, error) {
	n.gotSystem = system
	n.gotPrompt = prompt
	return n.body, n.err
}
