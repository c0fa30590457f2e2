package model

import "time"

// PullRequest is a pull request as returned by the GitHub list API.
type PullRequest struct {
	Number     int
	Title      string
	Author     string
	State      PRState
	URL        string
	Branch     string
	BaseBranch string
	Assignees  []string
	OpenedAt   time.Time
}

// MergeRequest describes a merge of a pull request.
type MergeRequest struct {
	CommitTitle   string
	CommitMessage string
	MergeMethod   string // "merge", "squash" or "rebase"; empty uses the repository default.
}

// MergeResult is GitHub's answer to a merge request.
type MergeResult struct {
	Merged  bool
	SHA     string
	Message string
}
