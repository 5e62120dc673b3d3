// Package model defines the data structures used throughout the application.
package model

import "time"

// Submission statuses. A submission starts pending, and ends published
// (a pull request exists) or failed (some step of the publish sequence
// errored — the audit row's Error field says which).
const (
	SubmissionPending   = "pending"
	SubmissionPublished = "published"
	SubmissionFailed    = "failed"
)

// Submission is the audit record for one form submission attempt.
//
// The submitter only ever sees a generic success/failure message, so this
// row is the operator's view of what actually happened: which branch was
// created, where the pull request lives, and — on failure — the real error.
//
// WHY Error HAS `json:"-"`?
// The raw error text can contain hosting-API response bodies. It must never
// leave the server in an API response; `json:"-"` makes that a property of
// the type rather than something every handler has to remember.
type Submission struct {
	ID             string    `json:"id"             db:"id"`
	Category       string    `json:"category"       db:"category"`
	Title          string    `json:"title"          db:"title"`
	URL            string    `json:"url"            db:"url"`
	Description    string    `json:"description"    db:"description"`
	Branch         string    `json:"branch"         db:"branch"`
	PullRequestURL string    `json:"pullRequestUrl" db:"pull_request_url"`
	Status         string    `json:"status"         db:"status"`
	Error          string    `json:"-"              db:"error"`
	CreatedAt      time.Time `json:"createdAt"      db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt"      db:"updated_at"`
}

// Record returns the catalog record this submission proposes to add.
func (s *Submission) Record() ResourceRecord {
	return ResourceRecord{
		Category:    s.Category,
		Title:       s.Title,
		URL:         s.URL,
		Description: s.Description,
	}
}
