package github

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/gitmonitor/internal/domain/model"
	"github.com/ericfisherdev/gitmonitor/internal/domain/port/driven"
)

// DefaultSettingsPath is where repositories keep their monitor configuration.
const DefaultSettingsPath = ".github/ahk-monitor.yml"

// Compile-time interface satisfaction check.
var _ driven.SettingsProvider = (*RepoSettingsProvider)(nil)

// RepoSettingsProvider reads the policy configuration from a YAML file in the
// repository itself, fetched with the delivering installation's credentials.
// Nothing is cached: each delivery sees the file as it is on the default branch.
type RepoSettingsProvider struct {
	clients driven.GitHubClientFactory
	path    string
}

// NewRepoSettingsProvider creates a provider reading path from each repository.
// An empty path uses DefaultSettingsPath.
func NewRepoSettingsProvider(clients driven.GitHubClientFactory, path string) *RepoSettingsProvider {
	if path == "" {
		path = DefaultSettingsPath
	}
	return &RepoSettingsProvider{clients: clients, path: path}
}

// Load implements driven.SettingsProvider. A repository without the file has
// no settings and yields (nil, nil).
func (p *RepoSettingsProvider) Load(ctx context.Context, repo model.RepositoryIdentity) (*model.RepositorySettings, error) {
	client, err := p.clients.Create(ctx, repo.InstallationID)
	if err != nil {
		return nil, fmt.Errorf("creating github client for installation %d: %w", repo.InstallationID, err)
	}

	data, err := client.FetchFileContent(ctx, repo.FullName, p.path)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	settings, err := ParseSettings(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s of %s: %w", p.path, repo.FullName, err)
	}
	return settings, nil
}

// ParseSettings decodes a repository settings document. Unknown keys are rejected.
func ParseSettings(data []byte) (*model.RepositorySettings, error) {
	var settings model.RepositorySettings

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&settings); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty document.
			return &settings, nil
		}
		return nil, err
	}
	return &settings, nil
}
