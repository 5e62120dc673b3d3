package repository

import (
	"context"

	"github.com/bazzingacoder/webaide-server/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

// SubmissionStore persists the audit trail of submission attempts.
// The workflow itself is stateless between invocations; this store exists
// for operators, not for correctness of the publish sequence.
type SubmissionStore interface {
	Create(ctx context.Context, sub *model.Submission) error
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	List(ctx context.Context, opts ListOptions) ([]model.Submission, error)
	Update(ctx context.Context, sub *model.Submission) error
}
