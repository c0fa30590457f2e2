package application_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/gitmonitor/internal/application"
	"github.com/ericfisherdev/gitmonitor/internal/domain/model"
)

func commandSettings() *model.RepositorySettings {
	return &model.RepositorySettings{
		Enabled:                   true,
		PullRequestCommentCommand: &model.PullRequestCommentCommandSettings{Enabled: true},
	}
}

func commentPayload(t *testing.T, action, body string, assoc model.AuthorAssociation, onPR bool) []byte {
	t.Helper()
	issue := &model.Issue{Number: 7, Title: "Fix bug", State: "open", User: &model.User{Login: "author"}}
	if onPR {
		issue.PullRequest = &model.IssuePullLinks{URL: "https://api.github.com/repos/octo/widgets/pulls/7"}
	}
	return mustJSON(t, model.IssueCommentEvent{
		Envelope: testEnvelope(action, "carol"),
		Issue:    issue,
		Comment: &model.Comment{
			ID:                99,
			Body:              body,
			User:              &model.User{Login: "carol"},
			AuthorAssociation: assoc,
		},
	})
}

func TestCommentCommand_CollaboratorMerges(t *testing.T) {
	client := &mockGitHubClient{mergeRes: model.MergeResult{Merged: true, SHA: "abc123"}}
	deps, _, factory := newDeps(commandSettings(), client)
	h := application.NewPullRequestCommentCommandHandler(deps)

	outcome, msg := runHandler(t, h, commentPayload(t, "created", "+ok", model.AuthorAssociationCollaborator, true))

	assert.Equal(t, model.OutcomeActionPerformed, outcome.Kind)
	assert.Equal(t, "PullRequestCommentCommandHandler -> action performed: merged pull request #7 Fix bug", msg)

	require.Len(t, client.merges, 1)
	assert.Equal(t, testRepo, client.merges[0].Repo)
	assert.Equal(t, 7, client.merges[0].Number)
	assert.Equal(t, "merged PR via +ok: #7 Fix bug", client.merges[0].Req.CommitTitle)
	assert.Equal(t, []int64{testInstallationID}, factory.created)
}

func TestCommentCommand_CommandWithTrailingText(t *testing.T) {
	client := &mockGitHubClient{mergeRes: model.MergeResult{Merged: true}}
	deps, _, _ := newDeps(commandSettings(), client)
	h := application.NewPullRequestCommentCommandHandler(deps)

	outcome, _ := runHandler(t, h, commentPayload(t, "created", "+ok looks good to me", model.AuthorAssociationCollaborator, true))

	assert.Equal(t, model.OutcomeActionPerformed, outcome.Kind)
	assert.Len(t, client.merges, 1)
}

func TestCommentCommand_NonCollaboratorDenied(t *testing.T) {
	client := &mockGitHubClient{mergeRes: model.MergeResult{Merged: true}}
	deps, _, _ := newDeps(commandSettings(), client)
	h := application.NewPullRequestCommentCommandHandler(deps)

	outcome, msg := runHandler(t, h, commentPayload(t, "created", "+ok", model.AuthorAssociationContributor, true))

	assert.Equal(t, model.OutcomePayloadError, outcome.Kind)
	assert.Equal(t, "PullRequestCommentCommandHandler -> payload error: carol is not allowed to execute the command: +ok", msg)
	assert.Empty(t, client.merges)
}

func TestCommentCommand_NoMergeWhenNotACommand(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		onPR     bool
		expected string
	}{
		{name: "plain comment", body: "looks good", onPR: true, expected: "comment is not a command"},
		{name: "unknown command", body: "+rebase now", onPR: true, expected: "invalid command: +rebase"},
		{name: "issue comment", body: "+ok", onPR: false, expected: "comment is not on a pull request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockGitHubClient{}
			deps, _, _ := newDeps(commandSettings(), client)
			h := application.NewPullRequestCommentCommandHandler(deps)

			outcome, _ := runHandler(t, h, commentPayload(t, "created", tt.body, model.AuthorAssociationCollaborator, tt.onPR))

			assert.Equal(t, model.OutcomeNoActionNeeded, outcome.Kind)
			assert.Equal(t, tt.expected, outcome.Description)
			assert.Empty(t, client.merges)
		})
	}
}

func TestCommentCommand_MergeFailures(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		client := &mockGitHubClient{mergeErr: errors.New("boom")}
		deps, _, _ := newDeps(commandSettings(), client)
		h := application.NewPullRequestCommentCommandHandler(deps)

		outcome, _ := runHandler(t, h, commentPayload(t, "created", "+ok", model.AuthorAssociationCollaborator, true))

		assert.Equal(t, model.OutcomePayloadError, outcome.Kind)
		assert.Equal(t, "failed to merge pull request #7 Fix bug: boom", outcome.Description)
	})

	t.Run("not merged", func(t *testing.T) {
		client := &mockGitHubClient{mergeRes: model.MergeResult{Merged: false, Message: "Pull Request is not mergeable"}}
		deps, _, _ := newDeps(commandSettings(), client)
		h := application.NewPullRequestCommentCommandHandler(deps)

		outcome, _ := runHandler(t, h, commentPayload(t, "created", "+ok", model.AuthorAssociationCollaborator, true))

		assert.Equal(t, model.OutcomePayloadError, outcome.Kind)
		assert.Equal(t, "failed to merge pull request #7 Fix bug: Pull Request is not mergeable", outcome.Description)
	})

	t.Run("not merged without message", func(t *testing.T) {
		client := &mockGitHubClient{mergeRes: model.MergeResult{Merged: false}}
		deps, _, _ := newDeps(commandSettings(), client)
		h := application.NewPullRequestCommentCommandHandler(deps)

		outcome, _ := runHandler(t, h, commentPayload(t, "created", "+ok", model.AuthorAssociationCollaborator, true))

		assert.Equal(t, model.OutcomePayloadError, outcome.Kind)
		assert.Equal(t, "failed to merge pull request #7 Fix bug", outcome.Description)
	})
}

func TestCommentCommand_EditedIsNotOfInterest(t *testing.T) {
	client := &mockGitHubClient{}
	deps, _, factory := newDeps(commandSettings(), client)
	h := application.NewPullRequestCommentCommandHandler(deps)

	outcome, msg := runHandler(t, h, commentPayload(t, "edited", "+ok", model.AuthorAssociationCollaborator, true))

	assert.Equal(t, model.OutcomeNotOfInterest, outcome.Kind)
	assert.Equal(t, "PullRequestCommentCommandHandler -> event not of interest: edited", msg)
	assert.Empty(t, factory.created)
}

func TestCommentCommand_ClientFactoryError(t *testing.T) {
	client := &mockGitHubClient{}
	deps, _, factory := newDeps(commandSettings(), client)
	factory.err = errors.New("bad key")
	h := application.NewPullRequestCommentCommandHandler(deps)

	_, err := h.Execute(t.Context(), commentPayload(t, "created", "+ok", model.AuthorAssociationCollaborator, true))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "installation 4242")
	assert.Contains(t, err.Error(), "bad key")
}

func TestCommentCommand_MissingIssue(t *testing.T) {
	payload := func(t *testing.T) []byte {
		return mustJSON(t, model.IssueCommentEvent{
			Envelope: testEnvelope("created", "carol"),
			Comment:  &model.Comment{ID: 99, Body: "+ok", User: &model.User{Login: "carol"}},
		})
	}

	t.Run("enabled", func(t *testing.T) {
		client := &mockGitHubClient{}
		deps, _, _ := newDeps(commandSettings(), client)

		outcome, _ := runHandler(t, application.NewPullRequestCommentCommandHandler(deps), payload(t))

		assert.Equal(t, model.OutcomePayloadError, outcome.Kind)
		assert.Equal(t, "no issue information in webhook payload", outcome.Description)
		assert.Empty(t, client.merges)
	})

	t.Run("disabled repository reports disabled first", func(t *testing.T) {
		client := &mockGitHubClient{}
		deps, _, factory := newDeps(&model.RepositorySettings{Enabled: true}, client)

		outcome, _ := runHandler(t, application.NewPullRequestCommentCommandHandler(deps), payload(t))

		assert.Equal(t, model.OutcomeDisabled, outcome.Kind)
		assert.Empty(t, client.merges)
		assert.Empty(t, factory.created)
	})
}
