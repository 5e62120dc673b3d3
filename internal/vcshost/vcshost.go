// Package vcshost defines the interface to the version-control hosting
// service that owns the catalog repository.
//
// WHY AN INTERFACE?
// The submission workflow only needs five operations (read the trunk tip,
// read a file, create a branch, commit a file, open a pull request). Defining
// them as an interface keeps the service layer free of any GitHub client
// types and lets tests inject a mock that records the call sequence — the
// ordering of these five calls is the core contract of the workflow.
package vcshost

import "context"

// BranchTip identifies the commit a branch currently points at.
type BranchTip struct {
	SHA string // commit SHA of the branch head
}

// File is a file's decoded content plus the version token ("blob SHA" in
// GitHub terms) required to update it. The hosting API rejects an update
// whose SHA no longer matches the stored file, which is what protects the
// dataset from a silently-clobbered concurrent write.
type File struct {
	Content []byte
	SHA     string
}

// Commit describes one file update to apply on a branch.
// Author identity is the fixed service identity — the submitter is anonymous
// to the version-control system.
type Commit struct {
	Branch         string
	Path           string
	Content        []byte
	Message        string
	FileSHA        string // version token from the File this commit replaces
	CommitterName  string
	CommitterEmail string
}

// PullRequest is the durable, human-reviewable artifact: a proposal to merge
// Head into Base. URL is filled in by the hosting service on creation.
type PullRequest struct {
	Title string
	Body  string
	Head  string
	Base  string
	URL   string
}

// Client is the set of hosting-API operations the workflow depends on.
// Each call is a remote round-trip; implementations must honour ctx
// cancellation and apply a bounded timeout of their own, since hosting
// calls can hang.
type Client interface {
	// GetBranchTip returns the current tip commit of the named branch.
	GetBranchTip(ctx context.Context, branch string) (BranchTip, error)

	// GetFile returns the file at path as of the given ref (a commit SHA),
	// decoded from the API's transport encoding.
	GetFile(ctx context.Context, path, ref string) (File, error)

	// CreateBranch creates a new branch pointing at the given commit SHA.
	CreateBranch(ctx context.Context, name, sha string) error

	// UpdateFile commits one file change on a branch, gated by the file's
	// version token.
	UpdateFile(ctx context.Context, c Commit) error

	// CreatePullRequest opens a pull request and returns it with URL set.
	CreatePullRequest(ctx context.Context, pr PullRequest) (PullRequest, error)
}
