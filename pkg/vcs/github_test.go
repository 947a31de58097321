package vcs

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, mux *http.ServeMux) *GitHubProvider {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	p, err := NewGitHubProvider(context.Background(), "test-token", server.URL)
	require.NoError(t, err)
	return p
}

func TestGitHubProvider_ListFiles(t *testing.T) {
	var gotAuth, gotRecursive string

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/app/git/trees/HEAD", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRecursive = r.URL.Query().Get("recursive")
		fmt.Fprint(w, `{"sha":"abc","truncated":false,"tree":[
			{"path":"package.json","type":"blob"},
			{"path":"src","type":"tree"},
			{"path":"src/index.js","type":"blob"},
			{"path":"vendor/lib","type":"commit"}
		]}`)
	})

	p := newTestProvider(t, mux)
	files, err := p.ListFiles(context.Background(), "acme", "app", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"package.json", "src/index.js"}, files)
	assert.Equal(t, "token test-token", gotAuth)
	assert.Equal(t, "1", gotRecursive)
}

func TestGitHubProvider_ListFiles_Ref(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/app/git/trees/v1.2.0", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"truncated":true,"tree":[{"path":"README.md","type":"blob"}]}`)
	})

	p := newTestProvider(t, mux)
	files, err := p.ListFiles(context.Background(), "acme", "app", "v1.2.0")
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md"}, files)
}

func TestGitHubProvider_ListFiles_Error(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/missing/git/trees/HEAD", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})

	p := newTestProvider(t, mux)
	_, err := p.ListFiles(context.Background(), "acme", "missing", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vcs: listing files of acme/missing@HEAD")
}

func TestGitHubProvider_GetFile(t *testing.T) {
	manifest := `{"dependencies":{"puppeteer":"^21"}}`
	var gotRef string

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/app/contents/package.json", func(w http.ResponseWriter, r *http.Request) {
		gotRef = r.URL.Query().Get("ref")
		fmt.Fprintf(w, `{"type":"file","encoding":"base64","name":"package.json","path":"package.json","content":%q}`,
			base64.StdEncoding.EncodeToString([]byte(manifest)))
	})

	p := newTestProvider(t, mux)
	fc := p.GetFile(context.Background(), "acme", "app", "package.json", "main")

	assert.True(t, fc.OK)
	assert.Equal(t, manifest, fc.Content)
	assert.Equal(t, "main", gotRef)
}

func TestGitHubProvider_GetFile_Missing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/app/contents/package.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})

	p := newTestProvider(t, mux)
	fc := p.GetFile(context.Background(), "acme", "app", "package.json", "")

	assert.False(t, fc.OK)
	assert.Empty(t, fc.Content)
}

func TestGitHubProvider_GetFile_Directory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/app/contents/package.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"type":"file","name":"a.json","path":"package.json/a.json"}]`)
	})

	p := newTestProvider(t, mux)
	fc := p.GetFile(context.Background(), "acme", "app", "package.json", "")
	assert.False(t, fc.OK)
}

func TestGitHubProvider_GetFile_Undecodable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/app/contents/package.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"type":"file","encoding":"base64","content":"!!!not-base64!!!"}`)
	})

	p := newTestProvider(t, mux)
	fc := p.GetFile(context.Background(), "acme", "app", "package.json", "")
	assert.False(t, fc.OK)
}

func TestGitHubProvider_RepoSizeMB(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/app", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"app","size":3000}`)
	})

	p := newTestProvider(t, mux)
	size, err := p.RepoSizeMB(context.Background(), "acme", "app")
	require.NoError(t, err)
	assert.InDelta(t, 2.93, size, 0.0001)
}

func TestGitHubProvider_RecentCommits(t *testing.T) {
	var gotPerPage string

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/app/commits", func(w http.ResponseWriter, r *http.Request) {
		gotPerPage = r.URL.Query().Get("per_page")
		fmt.Fprint(w, `[
			{"sha":"c2","commit":{"message":"add sharp\n\nbody","author":{"name":"Ada","date":"2026-03-02T10:00:00Z"}}},
			{"sha":"c1","commit":{"message":"init","author":{"date":"2026-03-01T10:00:00Z"}},"author":{"login":"bob"}}
		]`)
	})

	p := newTestProvider(t, mux)
	commits, err := p.RecentCommits(context.Background(), "acme", "app", "", 5)
	require.NoError(t, err)

	assert.Equal(t, "5", gotPerPage)
	require.Len(t, commits, 2)
	assert.Equal(t, "c2", commits[0].SHA)
	assert.Equal(t, "add sharp", commits[0].Message)
	assert.Equal(t, "Ada", commits[0].Author)
	assert.Equal(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), commits[0].Date.UTC())
	assert.Equal(t, "bob", commits[1].Author)
}

func TestGitHubProvider_RecentCommits_Ref(t *testing.T) {
	var gotSHA string

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/app/commits", func(w http.ResponseWriter, r *http.Request) {
		gotSHA = r.URL.Query().Get("sha")
		fmt.Fprint(w, `[{"sha":"f1","commit":{"message":"feature work"}}]`)
	})

	p := newTestProvider(t, mux)
	commits, err := p.RecentCommits(context.Background(), "acme", "app", "feature/x", 5)
	require.NoError(t, err)

	assert.Equal(t, "feature/x", gotSHA)
	require.Len(t, commits, 1)
	assert.Equal(t, "f1", commits[0].SHA)
}

func TestGitHubProvider_RecentCommits_EmptyRepo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/empty/commits", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"message":"Git Repository is empty."}`)
	})

	p := newTestProvider(t, mux)
	commits, err := p.RecentCommits(context.Background(), "acme", "empty", "", 5)
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestGitHubProvider_RecentCommits_ZeroLimit(t *testing.T) {
	p := newTestProvider(t, http.NewServeMux())
	commits, err := p.RecentCommits(context.Background(), "acme", "app", "", 0)
	require.NoError(t, err)
	assert.Nil(t, commits)
}

func TestGitHubProvider_PostComment(t *testing.T) {
	var gotBody string

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/app/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var payload struct {
			Body string `json:"body"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotBody = payload.Body
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":1}`)
	})

	p := newTestProvider(t, mux)
	require.NoError(t, p.PostComment(context.Background(), "acme", "app", 7, "# report"))
	assert.Equal(t, "# report", gotBody)
}

func TestGitHubProvider_PostComment_Error(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/app/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"Resource not accessible"}`)
	})

	p := newTestProvider(t, mux)
	err := p.PostComment(context.Background(), "acme", "app", 7, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acme/app#7")
}

func TestNewGitHubProvider_BadURL(t *testing.T) {
	_, err := NewGitHubProvider(context.Background(), "", "://bad")
	assert.Error(t, err)
}

func TestKBToMB(t *testing.T) {
	assert.Equal(t, 0.0, KBToMB(0))
	assert.Equal(t, 1.0, KBToMB(1024))
	assert.Equal(t, 0.01, KBToMB(10))
	assert.Equal(t, 117.19, KBToMB(120000))
}
