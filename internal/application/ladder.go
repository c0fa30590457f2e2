package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/gitmonitor/internal/domain/model"
	"github.com/ericfisherdev/gitmonitor/internal/domain/port/driven"
)

// EventHandler reacts to webhook deliveries of one event type on behalf of one policy.
type EventHandler interface {
	// Name identifies the handler in webhook result messages.
	Name() string
	// Execute decodes the raw payload and applies the policy. A returned error
	// is an unexpected failure (e.g. the settings provider is unreachable);
	// expected failures are reported as a PayloadError outcome.
	Execute(ctx context.Context, body []byte) (model.Outcome, error)
}

// HandlerDeps holds the collaborators shared by every policy handler.
type HandlerDeps struct {
	Settings driven.SettingsProvider
	Clients  driven.GitHubClientFactory
	Logger   *slog.Logger
}

func (d HandlerDeps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// policy is the handler-specific part of the decision ladder.
type policy struct {
	// enabled selects the handler's policy block from the repository settings.
	enabled func(model.RepositorySettings) bool
	// actions lists the event actions the handler reacts to.
	actions []string
	// evaluate runs the business predicates, the permission checks and the
	// remediation. It is only called for enabled policies and relevant actions.
	evaluate func(ctx context.Context, req policyRequest) (model.Outcome, error)
}

// policyRequest is what a policy sees once the ladder decided it applies.
type policyRequest struct {
	Action   string
	Repo     model.RepositoryIdentity
	Settings model.RepositorySettings

	clients driven.GitHubClientFactory
}

// Client returns a GitHub client authenticated as the installation that
// delivered the event.
func (r policyRequest) Client(ctx context.Context) (driven.GitHubClient, error) {
	client, err := r.clients.Create(ctx, r.Repo.InstallationID)
	if err != nil {
		return nil, fmt.Errorf("creating github client for installation %d: %w", r.Repo.InstallationID, err)
	}
	return client, nil
}

// ladder implements the decision steps shared by all policy handlers:
// decode, load settings, check the repository and policy switches, filter
// the action, then hand over to the policy.
type ladder struct {
	deps HandlerDeps
}

// run decodes body into event, which must be a pointer to a payload struct,
// and walks the ladder.
func (l ladder) run(ctx context.Context, body []byte, event model.Event, p policy) (model.Outcome, error) {
	if err := json.Unmarshal(body, event); err != nil {
		return model.PayloadError(fmt.Sprintf("invalid webhook payload: %v", err)), nil
	}

	env := event.Common()
	if env.Repository == nil || env.Repository.FullName == "" {
		return model.PayloadError("no repository information in webhook payload"), nil
	}
	if env.Installation == nil || env.Installation.ID == 0 {
		return model.PayloadError("no installation information in webhook payload"), nil
	}

	repo := model.RepositoryIdentity{
		ID:             env.Repository.ID,
		FullName:       env.Repository.FullName,
		InstallationID: env.Installation.ID,
	}

	settings, err := l.deps.Settings.Load(ctx, repo)
	if err != nil {
		return model.Outcome{}, fmt.Errorf("loading settings for %s: %w", repo.FullName, err)
	}
	if settings == nil || !settings.Enabled {
		return model.Disabled(), nil
	}
	if !p.enabled(*settings) {
		return model.Disabled(), nil
	}

	if !actionOfInterest(env.Action, p.actions) {
		return model.NotOfInterest(env.Action), nil
	}

	return p.evaluate(ctx, policyRequest{
		Action:   env.Action,
		Repo:     repo,
		Settings: *settings,
		clients:  l.deps.Clients,
	})
}

func actionOfInterest(action string, actions []string) bool {
	for _, a := range actions {
		if strings.EqualFold(action, a) {
			return true
		}
	}
	return false
}
