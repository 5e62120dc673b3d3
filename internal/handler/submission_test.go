package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazzingacoder/webaide-server/internal/apperror"
	"github.com/bazzingacoder/webaide-server/internal/handler"
	"github.com/bazzingacoder/webaide-server/internal/model"
	"github.com/bazzingacoder/webaide-server/internal/repository"
	"github.com/bazzingacoder/webaide-server/internal/service"
	"github.com/bazzingacoder/webaide-server/internal/vcshost"
)

// fakeHost is a minimal vcshost.Client for driving the handler through the
// real service. Only the failure knobs the handler tests need.
type fakeHost struct {
	dataset   []byte
	branchErr error
}

func (f *fakeHost) GetBranchTip(context.Context, string) (vcshost.BranchTip, error) {
	return vcshost.BranchTip{SHA: "tip"}, nil
}

func (f *fakeHost) GetFile(context.Context, string, string) (vcshost.File, error) {
	return vcshost.File{Content: f.dataset, SHA: "blob"}, nil
}

func (f *fakeHost) CreateBranch(context.Context, string, string) error {
	return f.branchErr
}

func (f *fakeHost) UpdateFile(context.Context, vcshost.Commit) error {
	return nil
}

func (f *fakeHost) CreatePullRequest(_ context.Context, pr vcshost.PullRequest) (vcshost.PullRequest, error) {
	pr.URL = "https://github.com/bazzingacoder/webaide/pull/9"
	return pr, nil
}

type fakeStore struct {
	subs map[string]*model.Submission
	n    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{subs: make(map[string]*model.Submission)}
}

func (f *fakeStore) Create(_ context.Context, sub *model.Submission) error {
	f.n++
	sub.ID = "sub-" + string(rune('a'+f.n))
	stored := *sub
	f.subs[sub.ID] = &stored
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*model.Submission, error) {
	sub, ok := f.subs[id]
	if !ok {
		return nil, apperror.NotFound("submission", id)
	}
	result := *sub
	return &result, nil
}

func (f *fakeStore) List(_ context.Context, _ repository.ListOptions) ([]model.Submission, error) {
	result := make([]model.Submission, 0, len(f.subs))
	for _, s := range f.subs {
		result = append(result, *s)
	}
	return result, nil
}

func (f *fakeStore) Update(_ context.Context, sub *model.Submission) error {
	stored := *sub
	f.subs[sub.ID] = &stored
	return nil
}

func newSubmissionHandler(t *testing.T, host *fakeHost, store *fakeStore) *handler.SubmissionHandler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := service.NewSubmissionService(host, store, service.SubmissionConfig{
		DatasetPath:    "resources.json",
		TrunkBranch:    "main",
		CommitterName:  "Webaide Bot",
		CommitterEmail: "bot@webaide.com",
	}, logger)
	return handler.NewSubmissionHandler(svc, logger)
}

func postForm(h http.HandlerFunc, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/submissions", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func TestHandleSubmit(t *testing.T) {
	validForm := url.Values{
		"resource-category":    {"Guides & Cheat Sheets"},
		"resource-title":       {"A11y Checklist"},
		"resource-url":         {"https://example.com/a11y"},
		"resource-description": {""},
	}

	t.Run("valid submission", func(t *testing.T) {
		host := &fakeHost{dataset: []byte(`[]`)}
		h := newSubmissionHandler(t, host, newFakeStore())

		rr := postForm(h.HandleSubmit, validForm)

		assert.Equal(t, http.StatusOK, rr.Code)

		var res handler.MessageResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "Resource submitted! A pull request has been created for review.", res.Message)
	})

	t.Run("missing title is a 400 with the field message", func(t *testing.T) {
		host := &fakeHost{dataset: []byte(`[]`)}
		h := newSubmissionHandler(t, host, newFakeStore())

		form := url.Values{
			"resource-category": {"Other"},
			"resource-url":      {"https://example.com"},
		}
		rr := postForm(h.HandleSubmit, form)

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var res handler.ErrorResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "validation_error", res.Error)
		assert.Contains(t, res.Message, "title")
	})

	t.Run("publish failure is a generic 500", func(t *testing.T) {
		host := &fakeHost{dataset: []byte(`[]`), branchErr: errors.New("401 Bad credentials for token ghp_secret")}
		h := newSubmissionHandler(t, host, newFakeStore())

		rr := postForm(h.HandleSubmit, validForm)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)

		var res handler.ErrorResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "An error occurred while processing your submission.", res.Message)
		assert.NotContains(t, rr.Body.String(), "ghp_secret", "internal detail must not leak")
	})

	t.Run("corrupt dataset is the same generic 500", func(t *testing.T) {
		host := &fakeHost{dataset: []byte(`{broken`)}
		h := newSubmissionHandler(t, host, newFakeStore())

		rr := postForm(h.HandleSubmit, validForm)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)

		var res handler.ErrorResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
		assert.Equal(t, "An error occurred while processing your submission.", res.Message)
	})
}

func TestHandleList(t *testing.T) {
	host := &fakeHost{dataset: []byte(`[]`)}
	store := newFakeStore()
	h := newSubmissionHandler(t, host, store)

	// Seed the audit trail through the workflow itself.
	postForm(h.HandleSubmit, url.Values{
		"resource-category": {"Other"},
		"resource-title":    {"Seeded"},
		"resource-url":      {"https://example.com/seeded"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/submissions", nil)
	rr := httptest.NewRecorder()
	h.HandleList(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var subs []model.Submission
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&subs))
	require.Len(t, subs, 1)
	assert.Equal(t, "Seeded", subs[0].Title)
	assert.Equal(t, model.SubmissionPublished, subs[0].Status)
}

func TestHandleGetByID_NotFound(t *testing.T) {
	h := newSubmissionHandler(t, &fakeHost{dataset: []byte(`[]`)}, newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/api/submissions/ghost", nil)
	req.SetPathValue("id", "ghost")
	rr := httptest.NewRecorder()
	h.HandleGetByID(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
