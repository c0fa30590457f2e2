// Package github implements the GitHub ports using the go-github library.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/gitmonitor/internal/domain/model"
	"github.com/ericfisherdev/gitmonitor/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh *gh.Client
}

// NewClient wraps an http.Client that already authenticates its requests
// (see AppClientFactory for the installation transport stack).
func NewClient(httpClient *http.Client) *Client {
	return &Client{gh: gh.NewClient(httpClient)}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// ListPullRequests retrieves pull requests for the given repository filtered by state.
// It handles pagination automatically and maps go-github types to domain model types.
func (c *Client) ListPullRequests(ctx context.Context, repoFullName string, state model.PRState) ([]model.PullRequest, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.PullRequestListOptions{
		State:     string(state),
		Sort:      "created",
		Direction: "asc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var allPRs []model.PullRequest

	for {
		prs, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing pull requests for %s (page %d): %w", repoFullName, opts.Page, err)
		}

		logRateLimit(resp, repoFullName, opts.Page, len(prs))

		for _, pr := range prs {
			allPRs = append(allPRs, mapPullRequest(pr))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if allPRs == nil {
		allPRs = []model.PullRequest{}
	}

	return allPRs, nil
}

// FetchFileContent returns the decoded content of a file on the default branch.
// Returns nil, nil if the file (or the repository) does not exist.
func (c *Client) FetchFileContent(ctx context.Context, repoFullName string, path string) ([]byte, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	file, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching %s from %s: %w", path, repoFullName, err)
	}

	logRateLimit(resp, repoFullName+"/contents", 0, 1)

	if file == nil {
		return nil, fmt.Errorf("fetching %s from %s: path is a directory", path, repoFullName)
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decoding %s from %s: %w", path, repoFullName, err)
	}

	return []byte(content), nil
}

// MergePullRequest merges a pull request. GitHub answers 405 or 409 when the
// pull request cannot be merged; those are reported as a not-merged result
// carrying GitHub's message rather than as an error.
func (c *Client) MergePullRequest(ctx context.Context, repoFullName string, prNumber int, req model.MergeRequest) (model.MergeResult, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return model.MergeResult{}, err
	}

	opts := &gh.PullRequestOptions{
		CommitTitle: req.CommitTitle,
		MergeMethod: req.MergeMethod,
	}

	result, resp, err := c.gh.PullRequests.Merge(ctx, owner, repo, prNumber, req.CommitMessage, opts)
	if err != nil {
		var ghErr *gh.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil &&
			(ghErr.Response.StatusCode == http.StatusMethodNotAllowed || ghErr.Response.StatusCode == http.StatusConflict) {
			return model.MergeResult{Merged: false, Message: ghErr.Message}, nil
		}
		return model.MergeResult{}, fmt.Errorf("merging %s#%d: %w", repoFullName, prNumber, err)
	}

	logRateLimit(resp, repoFullName+"/merge", 0, 1)

	return model.MergeResult{
		Merged:  result.GetMerged(),
		SHA:     result.GetSHA(),
		Message: result.GetMessage(),
	}, nil
}

// CreateIssueComment adds a conversation comment via the Issues API.
func (c *Client) CreateIssueComment(ctx context.Context, repoFullName string, number int, body string) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	comment := &gh.IssueComment{Body: gh.Ptr(body)}
	_, resp, err := c.gh.Issues.CreateComment(ctx, owner, repo, number, comment)
	if err != nil {
		return fmt.Errorf("creating comment on %s#%d: %w", repoFullName, number, err)
	}

	logRateLimit(resp, repoFullName+"/create-comment", 0, 1)
	return nil
}

// UpdateBranchProtection replaces the protection settings of a branch.
func (c *Client) UpdateBranchProtection(ctx context.Context, repoFullName string, branch string, protection model.BranchProtection) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	_, resp, err := c.gh.Repositories.UpdateBranchProtection(ctx, owner, repo, branch, mapProtectionRequest(protection))
	if err != nil {
		return fmt.Errorf("updating branch protection for %s branch %s: %w", repoFullName, branch, err)
	}

	logRateLimit(resp, repoFullName+"/branch-protection", 0, 1)
	return nil
}

// AddAssignees adds users as assignees of an issue or pull request.
func (c *Client) AddAssignees(ctx context.Context, repoFullName string, number int, logins []string) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	_, resp, err := c.gh.Issues.AddAssignees(ctx, owner, repo, number, logins)
	if err != nil {
		return fmt.Errorf("adding assignees to %s#%d: %w", repoFullName, number, err)
	}

	logRateLimit(resp, repoFullName+"/assignees", 0, len(logins))
	return nil
}

// mapProtectionRequest converts a domain BranchProtection to a go-github ProtectionRequest.
// Status checks are only required when at least one check is configured.
func mapProtectionRequest(p model.BranchProtection) *gh.ProtectionRequest {
	req := &gh.ProtectionRequest{
		RequiredPullRequestReviews: &gh.PullRequestReviewsEnforcementRequest{
			DismissStaleReviews:          p.DismissStaleReviews,
			RequireCodeOwnerReviews:      p.RequireCodeOwnerReviews,
			RequiredApprovingReviewCount: p.RequiredApprovingReviewCount,
		},
		EnforceAdmins:        p.EnforceAdmins,
		RequireLinearHistory: gh.Ptr(p.RequireLinearHistory),
		AllowForcePushes:     gh.Ptr(p.AllowForcePushes),
		AllowDeletions:       gh.Ptr(p.AllowDeletions),
	}

	if len(p.RequiredStatusChecks) > 0 {
		checks := make([]*gh.RequiredStatusCheck, 0, len(p.RequiredStatusChecks))
		for _, ctx := range p.RequiredStatusChecks {
			checks = append(checks, &gh.RequiredStatusCheck{Context: ctx})
		}
		req.RequiredStatusChecks = &gh.RequiredStatusChecks{
			Strict: p.StrictStatusChecks,
			Checks: &checks,
		}
	}

	return req
}

// mapPullRequest converts a go-github PullRequest to a domain model PullRequest.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
func mapPullRequest(pr *gh.PullRequest) model.PullRequest {
	assignees := make([]string, 0, len(pr.Assignees))
	for _, a := range pr.Assignees {
		assignees = append(assignees, a.GetLogin())
	}

	return model.PullRequest{
		Number:     pr.GetNumber(),
		Title:      pr.GetTitle(),
		Author:     pr.GetUser().GetLogin(),
		State:      model.PRState(pr.GetState()),
		URL:        pr.GetHTMLURL(),
		Branch:     pr.GetHead().GetRef(),
		BaseBranch: pr.GetBase().GetRef(),
		Assignees:  assignees,
		OpenedAt:   pr.GetCreatedAt().Time,
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	// Responses without rate headers (GHES with limits off) leave Limit at 0.
	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w %q: expected owner/repo", driven.ErrInvalidRepoName, fullName)
	}
	return parts[0], parts[1], nil
}
