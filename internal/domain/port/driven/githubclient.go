// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/gitmonitor/internal/domain/model"
)

// ErrInvalidRepoName is returned when a repository full name is not of the form owner/repo.
var ErrInvalidRepoName = errors.New("invalid repository name")

// GitHubClient defines the driven port for interacting with the GitHub API on
// behalf of one App installation. Write methods are the remediation actions
// policies take; read methods feed their decisions.
type GitHubClient interface {
	// Read methods

	// ListPullRequests returns the pull requests of a repository in the given state,
	// handling pagination.
	ListPullRequests(ctx context.Context, repoFullName string, state model.PRState) ([]model.PullRequest, error)
	// FetchFileContent returns the decoded content of a file on the default branch.
	// Returns (nil, nil) if the file does not exist.
	FetchFileContent(ctx context.Context, repoFullName string, path string) ([]byte, error)

	// Write methods

	// MergePullRequest merges a pull request. A nil error with Merged == false
	// means GitHub accepted the call but did not merge.
	MergePullRequest(ctx context.Context, repoFullName string, prNumber int, req model.MergeRequest) (model.MergeResult, error)
	// CreateIssueComment adds a conversation comment to an issue or pull request.
	CreateIssueComment(ctx context.Context, repoFullName string, number int, body string) error
	// UpdateBranchProtection replaces the protection of the named branch.
	UpdateBranchProtection(ctx context.Context, repoFullName string, branch string, protection model.BranchProtection) error
	// AddAssignees adds users as assignees of an issue or pull request.
	AddAssignees(ctx context.Context, repoFullName string, number int, logins []string) error
}
