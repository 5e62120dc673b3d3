// Package main is the entry point for the webaide submission server.
//
// The main package stays minimal — its job is to:
// 1. Read configuration from env vars
// 2. Create dependencies (logger, GitHub client)
// 3. Hand everything to internal/server and start it
//
// All actual logic lives in the imported packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bazzingacoder/webaide-server/internal/server"
	"github.com/bazzingacoder/webaide-server/internal/service"
	githubHost "github.com/bazzingacoder/webaide-server/internal/vcshost/github"
)

func main() {
	// === 1. LOGGING ===
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// === 2. CONFIGURATION ===
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/webaide.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}

	// The data directory is created if needed (like `mkdir -p`).
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// === 3. GITHUB CLIENT ===
	// GITHUB_TOKEN is a personal access token with repo scope on the
	// catalog repository. Without it the server cannot do its job, so we
	// fail fast here rather than on the first submission.
	host, err := githubHost.New(githubHost.Config{
		Token: os.Getenv("GITHUB_TOKEN"),
		Owner: envOr("REPO_OWNER", "bazzingacoder"),
		Repo:  envOr("REPO_NAME", "webaide"),
	})
	if err != nil {
		logger.Error("failed to create GitHub client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 4. SUBMISSION WORKFLOW CONFIG ===
	// ALLOWED_CATEGORIES is a comma-separated allow-list; leave it unset to
	// accept any non-blank category, which matches the historical behaviour.
	var allowed []string
	if raw := os.Getenv("ALLOWED_CATEGORIES"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				allowed = append(allowed, c)
			}
		}
	}

	cfg := server.Config{
		Port:   port,
		DBPath: dbPath,
		Submission: service.SubmissionConfig{
			DatasetPath:       envOr("DATASET_PATH", "resources.json"),
			TrunkBranch:       envOr("TRUNK_BRANCH", "main"),
			CommitterName:     envOr("COMMITTER_NAME", "Webaide Bot"),
			CommitterEmail:    envOr("COMMITTER_EMAIL", "bot@webaide.com"),
			AllowedCategories: allowed,
		},
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}

	// === 5. CREATE AND START THE SERVER ===
	srv, err := server.New(cfg, host, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// envOr reads an env var with a default.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
