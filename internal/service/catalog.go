package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bazzingacoder/webaide-server/internal/apperror"
	"github.com/bazzingacoder/webaide-server/internal/model"
	"github.com/bazzingacoder/webaide-server/internal/vcshost"
)

// CatalogService serves the current dataset through the API, for clients
// that want the live trunk state rather than the statically-deployed copy.
// It shares the submission workflow's read path: resolve the trunk tip, then
// fetch the file pinned to that commit, so a deploy racing the request can't
// hand us a torn view.
type CatalogService struct {
	host   vcshost.Client
	cfg    SubmissionConfig
	logger *slog.Logger
}

// NewCatalogService creates a CatalogService reading the same dataset the
// submission workflow writes.
func NewCatalogService(host vcshost.Client, cfg SubmissionConfig, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		host:   host,
		cfg:    cfg,
		logger: logger,
	}
}

// List returns the dataset as currently stored on the trunk branch.
func (s *CatalogService) List(ctx context.Context) ([]model.ResourceRecord, error) {
	tip, err := s.host.GetBranchTip(ctx, s.cfg.TrunkBranch)
	if err != nil {
		return nil, fmt.Errorf("resolving trunk tip: %w", err)
	}

	file, err := s.host.GetFile(ctx, s.cfg.DatasetPath, tip.SHA)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	records, err := model.DecodeDataset(file.Content)
	if err != nil {
		return nil, apperror.ParseFailed(err)
	}

	return records, nil
}
