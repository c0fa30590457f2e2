package driven

import "context"

// GitHubClientFactory creates GitHub clients authenticated as an App installation.
// Implementations must be safe for concurrent use.
type GitHubClientFactory interface {
	Create(ctx context.Context, installationID int64) (GitHubClient, error)
}
