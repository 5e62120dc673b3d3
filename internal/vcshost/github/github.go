// Package github implements vcshost.Client against the GitHub REST API.
//
// We use google/go-github rather than hand-rolling requests against
// api.github.com: it handles pagination, rate-limit errors, and the base64
// transport encoding of file content, and its method names map one-to-one
// onto the REST endpoints we need:
//
//	Repositories.GetBranch   → GET  /repos/{owner}/{repo}/branches/{branch}
//	Repositories.GetContents → GET  /repos/{owner}/{repo}/contents/{path}
//	Git.CreateRef            → POST /repos/{owner}/{repo}/git/refs
//	Repositories.UpdateFile  → PUT  /repos/{owner}/{repo}/contents/{path}
//	PullRequests.Create      → POST /repos/{owner}/{repo}/pulls
//
// AUTHENTICATION:
// The client authenticates with a personal access token via oauth2's static
// token source. oauth2.NewClient builds an *http.Client that injects the
// "Authorization: Bearer <token>" header on every request; the token never
// appears in our code paths after construction.
package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v69/github"
	"golang.org/x/oauth2"

	"github.com/bazzingacoder/webaide-server/internal/vcshost"
)

// defaultTimeout bounds each hosting-API round trip. A hung call surfaces
// as an ordinary error instead of stalling the whole submission.
const defaultTimeout = 15 * time.Second

// Compile-time check that *Client satisfies the workflow's interface.
var _ vcshost.Client = (*Client)(nil)

// Config identifies the catalog repository and the token used to write to it.
type Config struct {
	Token   string        // personal access token with repo scope
	Owner   string        // repository owner, e.g. "bazzingacoder"
	Repo    string        // repository name, e.g. "webaide"
	Timeout time.Duration // per-call timeout; defaultTimeout if zero
}

// Client talks to one GitHub repository.
type Client struct {
	gh    *github.Client
	owner string
	repo  string
}

// New creates a Client authenticated with cfg.Token.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("github: token is required")
	}
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("github: owner and repo are required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	// oauth2.NewClient wraps whatever client is stashed under the
	// oauth2.HTTPClient context key, so the timeout set here applies to
	// every authenticated request.
	base := &http.Client{Timeout: timeout}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})

	return &Client{
		gh:    github.NewClient(oauth2.NewClient(ctx, src)),
		owner: cfg.Owner,
		repo:  cfg.Repo,
	}, nil
}

// newWithBaseURL points the client at a test server instead of api.github.com.
// Used by the tests in this package.
func newWithBaseURL(cfg Config, baseURL string) (*Client, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	gh, err := c.gh.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, fmt.Errorf("github: setting base URL: %w", err)
	}
	c.gh = gh
	return c, nil
}

// GetBranchTip returns the commit SHA the branch currently points at.
func (c *Client) GetBranchTip(ctx context.Context, branch string) (vcshost.BranchTip, error) {
	b, _, err := c.gh.Repositories.GetBranch(ctx, c.owner, c.repo, branch, 0)
	if err != nil {
		return vcshost.BranchTip{}, fmt.Errorf("github: getting branch %q: %w", branch, err)
	}
	sha := b.GetCommit().GetSHA()
	if sha == "" {
		return vcshost.BranchTip{}, fmt.Errorf("github: branch %q has no tip commit", branch)
	}
	return vcshost.BranchTip{SHA: sha}, nil
}

// GetFile fetches and decodes a file at a specific ref.
//
// GetContents returns either a file or a directory listing depending on the
// path; for a directory, fileContent is nil and we fail rather than guess.
// GetContent() handles the base64 transport decoding for us.
func (c *Client) GetFile(ctx context.Context, path, ref string) (vcshost.File, error) {
	fileContent, _, _, err := c.gh.Repositories.GetContents(ctx, c.owner, c.repo, path,
		&github.RepositoryContentGetOptions{Ref: ref})
	if err != nil {
		return vcshost.File{}, fmt.Errorf("github: getting %q at %q: %w", path, ref, err)
	}
	if fileContent == nil {
		return vcshost.File{}, fmt.Errorf("github: %q is a directory, not a file", path)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return vcshost.File{}, fmt.Errorf("github: decoding %q: %w", path, err)
	}

	return vcshost.File{
		Content: []byte(content),
		SHA:     fileContent.GetSHA(),
	}, nil
}

// CreateBranch creates refs/heads/<name> pointing at sha.
func (c *Client) CreateBranch(ctx context.Context, name, sha string) error {
	ref := &github.Reference{
		Ref:    github.Ptr("refs/heads/" + name),
		Object: &github.GitObject{SHA: github.Ptr(sha)},
	}
	if _, _, err := c.gh.Git.CreateRef(ctx, c.owner, c.repo, ref); err != nil {
		return fmt.Errorf("github: creating branch %q: %w", name, err)
	}
	return nil
}

// UpdateFile commits one file change on a branch. The FileSHA gate means a
// conflicting interleaved write to the same file is rejected by GitHub with
// a 409 instead of being silently overwritten.
func (c *Client) UpdateFile(ctx context.Context, commit vcshost.Commit) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(commit.Message),
		Content: commit.Content,
		SHA:     github.Ptr(commit.FileSHA),
		Branch:  github.Ptr(commit.Branch),
		Committer: &github.CommitAuthor{
			Name:  github.Ptr(commit.CommitterName),
			Email: github.Ptr(commit.CommitterEmail),
		},
	}
	if _, _, err := c.gh.Repositories.UpdateFile(ctx, c.owner, c.repo, commit.Path, opts); err != nil {
		return fmt.Errorf("github: committing %q to %q: %w", commit.Path, commit.Branch, err)
	}
	return nil
}

// CreatePullRequest opens a pull request and returns it with the HTML URL
// GitHub assigned.
func (c *Client) CreatePullRequest(ctx context.Context, pr vcshost.PullRequest) (vcshost.PullRequest, error) {
	created, _, err := c.gh.PullRequests.Create(ctx, c.owner, c.repo, &github.NewPullRequest{
		Title: github.Ptr(pr.Title),
		Head:  github.Ptr(pr.Head),
		Base:  github.Ptr(pr.Base),
		Body:  github.Ptr(pr.Body),
	})
	if err != nil {
		return vcshost.PullRequest{}, fmt.Errorf("github: creating pull request %q: %w", pr.Title, err)
	}
	pr.URL = created.GetHTMLURL()
	return pr, nil
}
