package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/bazzingacoder/webaide-server/internal/apperror"
	"github.com/bazzingacoder/webaide-server/internal/model"
	"github.com/bazzingacoder/webaide-server/internal/repository"
)

// Compile-time check that *DB implements repository.SubmissionStore.
// If a method goes missing, the compiler errors here instead of at some
// distant call site.
var _ repository.SubmissionStore = (*DB)(nil)

// Create inserts a new submission audit row.
//
// The ID is an xid: 20 chars, URL-safe, and sortable by creation time, so a
// plain index scan on the primary key roughly matches chronological order.
// After Create returns, the caller's struct has its ID and timestamps set
// (pointer receiver — we modify the original).
func (db *DB) Create(ctx context.Context, sub *model.Submission) error {
	sub.ID = xid.New().String()

	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	if sub.Status == "" {
		sub.Status = model.SubmissionPending
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO submissions (id, category, title, url, description, branch,
		                          pull_request_url, status, error, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID,
		sub.Category,
		sub.Title,
		sub.URL,
		sub.Description,
		sub.Branch,
		sub.PullRequestURL,
		sub.Status,
		sub.Error,
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating submission: %w", err)
	}

	return nil
}

// GetByID retrieves a single submission by its ID.
// sql.ErrNoRows is translated to the domain's NotFound error so the handler
// can map it to 404.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	var sub model.Submission

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, category, title, url, description, branch,
		        pull_request_url, status, error, created_at, updated_at
		 FROM submissions
		 WHERE id = ?`,
		id,
	).Scan(
		&sub.ID,
		&sub.Category,
		&sub.Title,
		&sub.URL,
		&sub.Description,
		&sub.Branch,
		&sub.PullRequestURL,
		&sub.Status,
		&sub.Error,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("submission", id)
		}
		return nil, fmt.Errorf("sqlite: getting submission %s: %w", id, err)
	}

	return &sub, nil
}

// List returns submissions newest-first with pagination.
func (db *DB) List(ctx context.Context, opts repository.ListOptions) ([]model.Submission, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, category, title, url, description, branch,
		        pull_request_url, status, error, created_at, updated_at
		 FROM submissions
		 ORDER BY created_at DESC
		 LIMIT ? OFFSET ?`,
		opts.Limit,
		opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing submissions: %w", err)
	}
	// rows MUST be closed, or the connection leaks back into the pool locked.
	defer rows.Close()

	subs := []model.Submission{}
	for rows.Next() {
		var sub model.Submission
		if err := rows.Scan(
			&sub.ID,
			&sub.Category,
			&sub.Title,
			&sub.URL,
			&sub.Description,
			&sub.Branch,
			&sub.PullRequestURL,
			&sub.Status,
			&sub.Error,
			&sub.CreatedAt,
			&sub.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning submission: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating submissions: %w", err)
	}

	return subs, nil
}

// Update rewrites the mutable fields of an existing submission row.
// Used by the workflow to record the branch name and then the final outcome.
func (db *DB) Update(ctx context.Context, sub *model.Submission) error {
	sub.UpdatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE submissions
		 SET branch = ?, pull_request_url = ?, status = ?, error = ?, updated_at = ?
		 WHERE id = ?`,
		sub.Branch,
		sub.PullRequestURL,
		sub.Status,
		sub.Error,
		sub.UpdatedAt,
		sub.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating submission %s: %w", sub.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of %s: %w", sub.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("submission", sub.ID)
	}

	return nil
}
