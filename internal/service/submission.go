// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, orchestrates the publish sequence
//	Adapters (Edges)         → vcshost.Client talks to the hosting API,
//	                           repository.SubmissionStore persists the audit trail
//
// The service receives interfaces, not concrete types: tests inject a mock
// hosting client and verify the exact call sequence without any network.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/bazzingacoder/webaide-server/internal/apperror"
	"github.com/bazzingacoder/webaide-server/internal/model"
	"github.com/bazzingacoder/webaide-server/internal/repository"
	"github.com/bazzingacoder/webaide-server/internal/vcshost"
)

// ConfirmationMessage is what a successful submitter sees. Deliberately the
// only success message: the caller-facing contract is all-or-nothing, even
// though internally a branch and commit exist before the pull request does.
const ConfirmationMessage = "Resource submitted! A pull request has been created for review."

// Validation limits. The dataset is rendered on a static page, so
// unboundedly long fields are a layout problem as much as a storage one.
const (
	MaxTitleLength       = 200
	MaxURLLength         = 2000
	MaxDescriptionLength = 1000
)

// Pagination bounds for the audit listing.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// SubmissionConfig describes the catalog repository the workflow publishes to.
type SubmissionConfig struct {
	DatasetPath    string // path of the dataset file in the repo, e.g. "resources.json"
	TrunkBranch    string // the branch pull requests target, e.g. "main"
	CommitterName  string // fixed service identity — submitters are anonymous
	CommitterEmail string

	// AllowedCategories, when non-empty, restricts resource-category to a
	// fixed set. Empty means any non-blank category is accepted, which is
	// the historical behaviour.
	AllowedCategories []string
}

// SubmissionService turns one untrusted form submission into a pull request,
// or fails cleanly without partial, unreviewable changes to the trunk.
type SubmissionService struct {
	host   vcshost.Client
	store  repository.SubmissionStore
	cfg    SubmissionConfig
	logger *slog.Logger
}

// NewSubmissionService creates a SubmissionService. The caller decides which
// hosting client and store implementations to use (real or mocks).
func NewSubmissionService(host vcshost.Client, store repository.SubmissionStore, cfg SubmissionConfig, logger *slog.Logger) *SubmissionService {
	return &SubmissionService{
		host:   host,
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// Submit runs the full submission-to-pull-request workflow.
//
// SEQUENCE (strictly ordered — each step consumes the previous step's output):
//  1. Resolve the trunk tip commit. Every later write is based on this one
//     observed state, not on separate "latest" lookups that could drift.
//  2. Read the dataset at that commit, keeping its version token (blob SHA).
//  3. Decode, append the new record at the end, re-encode.
//  4. Create an isolated branch at the tip commit.
//  5. Commit the updated file to that branch, gated on the version token.
//  6. Open a pull request from the branch into trunk.
//
// FAILURE SEMANTICS:
// A decode failure aborts before any write (ErrParse). A failure at steps
// 4–6 aborts immediately (ErrPublish); whatever was already created stays
// behind for manual inspection — automated rollback of a half-published
// branch is worse than an orphaned branch, which is harmless.
//
// The returned Submission is the audit record, updated with the outcome.
func (s *SubmissionService) Submit(ctx context.Context, category, title, rawURL, description string) (*model.Submission, error) {
	category = strings.TrimSpace(category)
	title = strings.TrimSpace(title)
	rawURL = strings.TrimSpace(rawURL)
	description = strings.TrimSpace(description)

	// Validation happens before any external call — a bad submission costs
	// nothing and the submitter gets a message they can act on.
	if err := s.validate(category, title, rawURL, description); err != nil {
		return nil, err
	}

	sub := &model.Submission{
		Category:    category,
		Title:       title,
		URL:         rawURL,
		Description: description,
		Status:      model.SubmissionPending,
	}

	// The audit row is operator tooling, not a correctness requirement:
	// if the store is unavailable the submission still goes through.
	if err := s.store.Create(ctx, sub); err != nil {
		s.logger.Error("failed to record submission",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
	}

	// Step 1: resolve the base state.
	tip, err := s.host.GetBranchTip(ctx, s.cfg.TrunkBranch)
	if err != nil {
		return sub, s.fail(ctx, sub, apperror.PublishFailed("resolving trunk tip", err))
	}

	// Step 2: read the dataset pinned to that commit.
	file, err := s.host.GetFile(ctx, s.cfg.DatasetPath, tip.SHA)
	if err != nil {
		return sub, s.fail(ctx, sub, apperror.PublishFailed("reading dataset", err))
	}

	// Step 3: decode, append, re-encode. A parse failure means the stored
	// file is broken — abort before any write so we don't publish on top of
	// a corrupt base.
	records, err := model.DecodeDataset(file.Content)
	if err != nil {
		return sub, s.fail(ctx, sub, apperror.ParseFailed(err))
	}
	records = append(records, sub.Record())

	updated, err := model.EncodeDataset(records)
	if err != nil {
		return sub, s.fail(ctx, sub, apperror.PublishFailed("encoding dataset", err))
	}

	// Step 4: isolated branch at the observed tip.
	branch := newBranchName()
	sub.Branch = branch
	if err := s.host.CreateBranch(ctx, branch, tip.SHA); err != nil {
		return sub, s.fail(ctx, sub, apperror.PublishFailed("creating branch", err))
	}

	// Step 5: commit, gated on the version token from step 2. If someone
	// changed the file in between, the hosting API rejects this write
	// instead of clobbering theirs.
	commit := vcshost.Commit{
		Branch:         branch,
		Path:           s.cfg.DatasetPath,
		Content:        updated,
		Message:        "feat: Add new resource submission - " + title,
		FileSHA:        file.SHA,
		CommitterName:  s.cfg.CommitterName,
		CommitterEmail: s.cfg.CommitterEmail,
	}
	if err := s.host.UpdateFile(ctx, commit); err != nil {
		return sub, s.fail(ctx, sub, apperror.PublishFailed("committing dataset", err))
	}

	// Step 6: the reviewable artifact.
	pr, err := s.host.CreatePullRequest(ctx, vcshost.PullRequest{
		Title: "New Resource Submission: " + title,
		Head:  branch,
		Base:  s.cfg.TrunkBranch,
		Body:  pullRequestBody(sub),
	})
	if err != nil {
		return sub, s.fail(ctx, sub, apperror.PublishFailed("creating pull request", err))
	}

	sub.Status = model.SubmissionPublished
	sub.PullRequestURL = pr.URL
	s.recordOutcome(ctx, sub)

	s.logger.Info("submission published",
		slog.String("id", sub.ID),
		slog.String("title", title),
		slog.String("branch", branch),
		slog.String("pr", pr.URL),
	)

	return sub, nil
}

// validate enforces the submission rules before any external call.
func (s *SubmissionService) validate(category, title, rawURL, description string) error {
	if title == "" {
		return apperror.ValidationFailed("resource-title", "title is required")
	}
	if len(title) > MaxTitleLength {
		return apperror.ValidationFailed("resource-title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}

	if rawURL == "" {
		return apperror.ValidationFailed("resource-url", "url is required")
	}
	if len(rawURL) > MaxURLLength {
		return apperror.ValidationFailed("resource-url",
			fmt.Sprintf("url must be %d characters or less", MaxURLLength))
	}
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperror.ValidationFailed("resource-url", "url must be a valid http(s) address")
	}

	if category == "" {
		return apperror.ValidationFailed("resource-category", "category is required")
	}
	if len(s.cfg.AllowedCategories) > 0 && !slices.Contains(s.cfg.AllowedCategories, category) {
		return apperror.ValidationFailed("resource-category",
			fmt.Sprintf("category %q is not one of the known categories", category))
	}

	if len(description) > MaxDescriptionLength {
		return apperror.ValidationFailed("resource-description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}

	return nil
}

// fail records the failure in the audit row, logs the real cause, and
// returns the error for the handler to map. The caller-facing message inside
// the AppError is already generic; the detail only reaches logs and the
// audit trail.
func (s *SubmissionService) fail(ctx context.Context, sub *model.Submission, appErr *apperror.AppError) error {
	sub.Status = model.SubmissionFailed
	sub.Error = appErr.Unwrap().Error()
	s.recordOutcome(ctx, sub)

	s.logger.Error("submission failed",
		slog.String("id", sub.ID),
		slog.String("title", sub.Title),
		slog.String("branch", sub.Branch),
		slog.String("error", sub.Error),
	)

	return appErr
}

// recordOutcome best-effort updates the audit row. Skipped when the initial
// insert failed (no ID), logged when the update itself fails.
func (s *SubmissionService) recordOutcome(ctx context.Context, sub *model.Submission) {
	if sub.ID == "" {
		return
	}
	if err := s.store.Update(ctx, sub); err != nil {
		s.logger.Error("failed to update submission record",
			slog.String("id", sub.ID),
			slog.String("error", err.Error()),
		)
	}
}

// GetByID retrieves one audit record. Returns apperror.ErrNotFound if no
// submission with that ID was ever recorded.
func (s *SubmissionService) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "submission ID is required")
	}
	return s.store.GetByID(ctx, id)
}

// List retrieves audit records newest-first with pagination, clamping the
// limit to a sane range so callers can't request the whole table.
func (s *SubmissionService) List(ctx context.Context, limit, offset int) ([]model.Submission, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	subs, err := s.store.List(ctx, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list submissions", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing submissions: %w", err)
	}

	return subs, nil
}

// newBranchName derives a branch name unique per submission: the millisecond
// timestamp keeps the historical "submission-<ms>" shape (and sorts nicely in
// the branch list), the xid suffix keeps two submissions landing in the same
// millisecond from colliding.
func newBranchName() string {
	return fmt.Sprintf("submission-%d-%s", time.Now().UnixMilli(), xid.New().String())
}

// pullRequestBody renders the human-readable summary the reviewer sees.
func pullRequestBody(sub *model.Submission) string {
	var b strings.Builder
	b.WriteString("A new resource has been submitted via the website form.\n\n")
	b.WriteString("Please review the changes and merge if approved.\n\n")
	b.WriteString("**Details:**\n")
	fmt.Fprintf(&b, "- **Title:** %s\n", sub.Title)
	fmt.Fprintf(&b, "- **URL:** %s\n", sub.URL)
	fmt.Fprintf(&b, "- **Category:** %s\n", sub.Category)
	fmt.Fprintf(&b, "- **Description:** %s", sub.Description)
	return b.String()
}
