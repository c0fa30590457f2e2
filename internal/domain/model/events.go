package model

// Event is implemented by every webhook payload shape. It exposes the fields
// common to all repository events.
type Event interface {
	Common() Envelope
}

// Envelope holds the fields GitHub sends with every repository webhook event.
type Envelope struct {
	Action       string        `json:"action"`
	Repository   *EventRepo    `json:"repository"`
	Installation *Installation `json:"installation"`
	Sender       *User         `json:"sender"`
}

// Common returns the fields shared by all events.
func (e Envelope) Common() Envelope {
	return e
}

// EventRepo is the repository object embedded in webhook payloads.
type EventRepo struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Owner    *User  `json:"owner"`
}

// Installation is the GitHub App installation that delivered the event.
type Installation struct {
	ID int64 `json:"id"`
}

// User is a GitHub account referenced by a payload.
type User struct {
	Login string `json:"login"`
}

// GetLogin returns the login, or "" for a nil user.
func (u *User) GetLogin() string {
	if u == nil {
		return ""
	}
	return u.Login
}

// IssueCommentEvent is the payload of the "issue_comment" event. Comments on
// pull requests arrive as issue comments whose issue carries a pull_request link.
type IssueCommentEvent struct {
	Envelope
	Issue   *Issue   `json:"issue"`
	Comment *Comment `json:"comment"`
}

// Issue is the issue (or pull request viewed as an issue) a comment belongs to.
type Issue struct {
	Number      int             `json:"number"`
	Title       string          `json:"title"`
	State       string          `json:"state"`
	User        *User           `json:"user"`
	PullRequest *IssuePullLinks `json:"pull_request"`
}

// IssuePullLinks is present on an issue only when the issue is a pull request.
type IssuePullLinks struct {
	URL string `json:"url"`
}

// IsPullRequest reports whether the issue is a pull request.
func (i *Issue) IsPullRequest() bool {
	return i != nil && i.PullRequest != nil
}

// Comment is an issue or pull request conversation comment.
type Comment struct {
	ID                int64             `json:"id"`
	Body              string            `json:"body"`
	User              *User             `json:"user"`
	AuthorAssociation AuthorAssociation `json:"author_association"`
}

// PullRequestEvent is the payload of the "pull_request" event.
type PullRequestEvent struct {
	Envelope
	Number      int               `json:"number"`
	PullRequest *EventPullRequest `json:"pull_request"`
}

// EventPullRequest is the pull request object embedded in webhook payloads.
type EventPullRequest struct {
	Number    int     `json:"number"`
	Title     string  `json:"title"`
	State     string  `json:"state"`
	User      *User   `json:"user"`
	Assignees []*User `json:"assignees"`
	Base      *Ref    `json:"base"`
	Head      *Ref    `json:"head"`
}

// Ref is a branch reference of a pull request.
type Ref struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// PullRequestReviewEvent is the payload of the "pull_request_review" event.
type PullRequestReviewEvent struct {
	Envelope
	Review      *Review           `json:"review"`
	PullRequest *EventPullRequest `json:"pull_request"`
}

// Review is a submitted pull request review.
type Review struct {
	ID    int64  `json:"id"`
	User  *User  `json:"user"`
	State string `json:"state"`
}

// BranchProtectionRuleEvent is the payload of the "branch_protection_rule" event.
type BranchProtectionRuleEvent struct {
	Envelope
	Rule *BranchProtectionRule `json:"rule"`
}

// BranchProtectionRule is the rule object of a branch protection rule event.
// Name is the branch name pattern the rule targets.
type BranchProtectionRule struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
