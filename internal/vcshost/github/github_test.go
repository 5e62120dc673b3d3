package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazzingacoder/webaide-server/internal/vcshost"
)

// newTestClient spins up an httptest server playing the GitHub API and a
// Client pointed at it. The mux is registered under /api/v3/ because that is
// where go-github routes requests when given an enterprise base URL.
func newTestClient(t *testing.T, register func(mux *http.ServeMux)) *Client {
	t.Helper()

	mux := http.NewServeMux()
	register(mux)

	root := http.NewServeMux()
	root.Handle("/api/v3/", http.StripPrefix("/api/v3", mux))

	srv := httptest.NewServer(root)
	t.Cleanup(srv.Close)

	client, err := newWithBaseURL(Config{
		Token: "test-token",
		Owner: "bazzingacoder",
		Repo:  "webaide",
	}, srv.URL+"/")
	require.NoError(t, err)
	return client
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(Config{Owner: "o", Repo: "r"})
	assert.Error(t, err, "missing token must be rejected")

	_, err = New(Config{Token: "t"})
	assert.Error(t, err, "missing owner/repo must be rejected")
}

func TestGetBranchTip(t *testing.T) {
	client := newTestClient(t, func(mux *http.ServeMux) {
		mux.HandleFunc("/repos/bazzingacoder/webaide/branches/main", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			fmt.Fprint(w, `{"name":"main","commit":{"sha":"abc123def"}}`)
		})
	})

	tip, err := client.GetBranchTip(context.Background(), "main")
	require.NoError(t, err)
	assert.Equal(t, "abc123def", tip.SHA)
}

func TestGetFileDecodesBase64(t *testing.T) {
	raw := `[{"Category":"Other","Resource Text":"X","URL":"https://x","Description":""}]`
	encoded := base64.StdEncoding.EncodeToString([]byte(raw))

	client := newTestClient(t, func(mux *http.ServeMux) {
		mux.HandleFunc("/repos/bazzingacoder/webaide/contents/resources.json", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "abc123def", r.URL.Query().Get("ref"), "read must be pinned to the resolved commit")
			fmt.Fprintf(w, `{"type":"file","encoding":"base64","name":"resources.json","path":"resources.json","sha":"blob456","content":%q}`, encoded)
		})
	})

	file, err := client.GetFile(context.Background(), "resources.json", "abc123def")
	require.NoError(t, err)
	assert.Equal(t, raw, string(file.Content))
	assert.Equal(t, "blob456", file.SHA)
}

func TestCreateBranch(t *testing.T) {
	var gotBody map[string]any

	client := newTestClient(t, func(mux *http.ServeMux) {
		mux.HandleFunc("/repos/bazzingacoder/webaide/git/refs", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"ref":"refs/heads/submission-1","object":{"sha":"abc123def"}}`)
		})
	})

	err := client.CreateBranch(context.Background(), "submission-1", "abc123def")
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/submission-1", gotBody["ref"])
	assert.Equal(t, "abc123def", gotBody["sha"])
}

func TestUpdateFileSendsVersionToken(t *testing.T) {
	var gotBody map[string]any

	client := newTestClient(t, func(mux *http.ServeMux) {
		mux.HandleFunc("/repos/bazzingacoder/webaide/contents/resources.json", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			fmt.Fprint(w, `{"content":{"sha":"newblob"},"commit":{"sha":"newcommit"}}`)
		})
	})

	err := client.UpdateFile(context.Background(), vcshost.Commit{
		Branch:         "submission-1",
		Path:           "resources.json",
		Content:        []byte(`[]`),
		Message:        "feat: Add new resource submission - X",
		FileSHA:        "blob456",
		CommitterName:  "Webaide Bot",
		CommitterEmail: "bot@webaide.com",
	})
	require.NoError(t, err)

	// The blob SHA gate is the optimistic-concurrency mechanism — it must be
	// on the wire, along with the branch and the fixed committer identity.
	assert.Equal(t, "blob456", gotBody["sha"])
	assert.Equal(t, "submission-1", gotBody["branch"])
	committer, ok := gotBody["committer"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Webaide Bot", committer["name"])
	assert.Equal(t, "bot@webaide.com", committer["email"])
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte(`[]`)), gotBody["content"])
}

func TestCreatePullRequest(t *testing.T) {
	var gotBody map[string]any

	client := newTestClient(t, func(mux *http.ServeMux) {
		mux.HandleFunc("/repos/bazzingacoder/webaide/pulls", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"number":7,"html_url":"https://github.com/bazzingacoder/webaide/pull/7"}`)
		})
	})

	pr, err := client.CreatePullRequest(context.Background(), vcshost.PullRequest{
		Title: "New Resource Submission: X",
		Head:  "submission-1",
		Base:  "main",
		Body:  "details",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/bazzingacoder/webaide/pull/7", pr.URL)
	assert.Equal(t, "submission-1", gotBody["head"])
	assert.Equal(t, "main", gotBody["base"])
}

func TestErrorsPropagate(t *testing.T) {
	client := newTestClient(t, func(mux *http.ServeMux) {
		mux.HandleFunc("/repos/bazzingacoder/webaide/branches/main", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"Bad credentials"}`)
		})
	})

	_, err := client.GetBranchTip(context.Background(), "main")
	assert.Error(t, err)
}
