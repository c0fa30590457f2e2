package model

// RepositorySettings holds the per-repository policy configuration read from
// the repository's monitor config file. A loaded value is a read-only snapshot
// for the duration of one webhook delivery; handlers never mutate it.
//
// A nil policy block means the policy is not configured and is treated the
// same as a block with Enabled set to false.
type RepositorySettings struct {
	Enabled                   bool                               `yaml:"enabled"`
	BranchProtection          *BranchProtectionSettings          `yaml:"branchProtection"`
	CommentProtection         *CommentProtectionSettings         `yaml:"commentProtection"`
	MultiplePRProtection      *MultiplePRProtectionSettings      `yaml:"multiplePRProtection"`
	ReviewerToAssignee        *ReviewerToAssigneeSettings        `yaml:"reviewerToAssignee"`
	PullRequestCommentCommand *PullRequestCommentCommandSettings `yaml:"pullRequestCommentCommand"`
}

// BranchProtectionSettings is the ruleset applied to a branch when a branch
// protection rule is created for it.
type BranchProtectionSettings struct {
	Enabled                      bool     `yaml:"enabled"`
	RequiredStatusChecks         []string `yaml:"requiredStatusChecks"`
	StrictStatusChecks           bool     `yaml:"strictStatusChecks"`
	RequiredApprovingReviewCount int      `yaml:"requiredApprovingReviewCount"`
	DismissStaleReviews          bool     `yaml:"dismissStaleReviews"`
	RequireCodeOwnerReviews      bool     `yaml:"requireCodeOwnerReviews"`
	EnforceAdmins                bool     `yaml:"enforceAdmins"`
	RequireLinearHistory         bool     `yaml:"requireLinearHistory"`
	AllowForcePushes             bool     `yaml:"allowForcePushes"`
	AllowDeletions               bool     `yaml:"allowDeletions"`
}

// CommentProtectionSettings controls warnings about comments edited or
// deleted by someone other than their author.
type CommentProtectionSettings struct {
	Enabled        bool   `yaml:"enabled"`
	WarningMessage string `yaml:"warningMessage"`
}

// MultiplePRProtectionSettings controls warnings about multiple open pull
// requests in the same repository.
type MultiplePRProtectionSettings struct {
	Enabled        bool   `yaml:"enabled"`
	WarningMessage string `yaml:"warningMessage"`
}

// ReviewerToAssigneeSettings controls assigning pull request reviewers as
// assignees once they submit a review.
type ReviewerToAssigneeSettings struct {
	Enabled bool `yaml:"enabled"`
}

// PullRequestCommentCommandSettings controls "+command" comments on pull requests.
type PullRequestCommentCommandSettings struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultRequiredApprovingReviewCount is used when branch protection is
// enabled but no review count is configured.
const DefaultRequiredApprovingReviewCount = 1

// BranchProtectionEnabled reports whether the branch protection block is present and enabled.
func (s RepositorySettings) BranchProtectionEnabled() bool {
	return s.BranchProtection != nil && s.BranchProtection.Enabled
}

// CommentProtectionEnabled reports whether the comment protection block is present and enabled.
func (s RepositorySettings) CommentProtectionEnabled() bool {
	return s.CommentProtection != nil && s.CommentProtection.Enabled
}

// MultiplePRProtectionEnabled reports whether the multiple PR protection block is present and enabled.
func (s RepositorySettings) MultiplePRProtectionEnabled() bool {
	return s.MultiplePRProtection != nil && s.MultiplePRProtection.Enabled
}

// ReviewerToAssigneeEnabled reports whether the reviewer-to-assignee block is present and enabled.
func (s RepositorySettings) ReviewerToAssigneeEnabled() bool {
	return s.ReviewerToAssignee != nil && s.ReviewerToAssignee.Enabled
}

// PullRequestCommentCommandEnabled reports whether the comment command block is present and enabled.
func (s RepositorySettings) PullRequestCommentCommandEnabled() bool {
	return s.PullRequestCommentCommand != nil && s.PullRequestCommentCommand.Enabled
}
