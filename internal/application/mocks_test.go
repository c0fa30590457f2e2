package application_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/gitmonitor/internal/application"
	"github.com/ericfisherdev/gitmonitor/internal/domain/model"
	"github.com/ericfisherdev/gitmonitor/internal/domain/port/driven"
)

// --- Mock implementations ---

type mockSettingsProvider struct {
	settings *model.RepositorySettings
	err      error
	loaded   []model.RepositoryIdentity
}

func (m *mockSettingsProvider) Load(_ context.Context, repo model.RepositoryIdentity) (*model.RepositorySettings, error) {
	m.loaded = append(m.loaded, repo)
	return m.settings, m.err
}

type mockClientFactory struct {
	client  driven.GitHubClient
	err     error
	created []int64
}

func (m *mockClientFactory) Create(_ context.Context, installationID int64) (driven.GitHubClient, error) {
	m.created = append(m.created, installationID)
	if m.err != nil {
		return nil, m.err
	}
	return m.client, nil
}

type mergeCall struct {
	Repo   string
	Number int
	Req    model.MergeRequest
}

type commentCall struct {
	Repo   string
	Number int
	Body   string
}

type protectionCall struct {
	Repo       string
	Branch     string
	Protection model.BranchProtection
}

type assignCall struct {
	Repo   string
	Number int
	Logins []string
}

type mockGitHubClient struct {
	openPRs    []model.PullRequest
	listErr    error
	files      map[string][]byte
	mergeRes   model.MergeResult
	mergeErr   error
	commentErr error
	protectErr error
	assignErr  error

	merges      []mergeCall
	comments    []commentCall
	protections []protectionCall
	assigns     []assignCall
}

func (m *mockGitHubClient) ListPullRequests(_ context.Context, _ string, _ model.PRState) ([]model.PullRequest, error) {
	return m.openPRs, m.listErr
}

func (m *mockGitHubClient) FetchFileContent(_ context.Context, _ string, path string) ([]byte, error) {
	return m.files[path], nil
}

func (m *mockGitHubClient) MergePullRequest(_ context.Context, repo string, number int, req model.MergeRequest) (model.MergeResult, error) {
	m.merges = append(m.merges, mergeCall{Repo: repo, Number: number, Req: req})
	return m.mergeRes, m.mergeErr
}

func (m *mockGitHubClient) CreateIssueComment(_ context.Context, repo string, number int, body string) error {
	m.comments = append(m.comments, commentCall{Repo: repo, Number: number, Body: body})
	return m.commentErr
}

func (m *mockGitHubClient) UpdateBranchProtection(_ context.Context, repo string, branch string, protection model.BranchProtection) error {
	m.protections = append(m.protections, protectionCall{Repo: repo, Branch: branch, Protection: protection})
	return m.protectErr
}

func (m *mockGitHubClient) AddAssignees(_ context.Context, repo string, number int, logins []string) error {
	m.assigns = append(m.assigns, assignCall{Repo: repo, Number: number, Logins: logins})
	return m.assignErr
}

// --- Helpers ---

const (
	testRepo           = "octo/widgets"
	testInstallationID = int64(4242)
)

// newDeps wires the mocks into handler dependencies.
func newDeps(settings *model.RepositorySettings, client *mockGitHubClient) (application.HandlerDeps, *mockSettingsProvider, *mockClientFactory) {
	sp := &mockSettingsProvider{settings: settings}
	cf := &mockClientFactory{client: client}
	return application.HandlerDeps{Settings: sp, Clients: cf}, sp, cf
}

func testEnvelope(action, sender string) model.Envelope {
	return model.Envelope{
		Action:       action,
		Repository:   &model.EventRepo{ID: 1, Name: "widgets", FullName: testRepo, Owner: &model.User{Login: "octo"}},
		Installation: &model.Installation{ID: testInstallationID},
		Sender:       &model.User{Login: sender},
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

// runHandler executes h against payload and returns its outcome message.
func runHandler(t *testing.T, h application.EventHandler, payload []byte) (model.Outcome, string) {
	t.Helper()
	outcome, err := h.Execute(context.Background(), payload)
	require.NoError(t, err)
	return outcome, outcome.Message(h.Name())
}
