package driven

import (
	"context"

	"github.com/ericfisherdev/gitmonitor/internal/domain/model"
)

// SettingsProvider defines the driven port for per-repository policy configuration.
// Load returns (nil, nil) if the repository has no configuration; callers
// treat that as every policy being disabled. Implementations must be safe for
// concurrent use.
type SettingsProvider interface {
	Load(ctx context.Context, repo model.RepositoryIdentity) (*model.RepositorySettings, error)
}
