package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/ericfisherdev/gitmonitor/internal/domain/model"
)

// IssueCommentEvent is the GitHub webhook event name for issue and pull request comments.
const IssueCommentEvent = "issue_comment"

const commandPrefix = "+"

// command is one "+keyword" comment command.
type command struct {
	// allowed decides whether the comment author may run the command.
	allowed func(ctx context.Context, ev *model.IssueCommentEvent) bool
	// execute runs the command.
	execute func(ctx context.Context, req policyRequest, ev *model.IssueCommentEvent) (model.Outcome, error)
}

// PullRequestCommentCommandHandler executes commands written as pull request
// comments, e.g. "+ok" to merge the pull request.
type PullRequestCommentCommandHandler struct {
	ladder   ladder
	commands map[string]command
}

// NewPullRequestCommentCommandHandler creates the handler with its built-in commands.
func NewPullRequestCommentCommandHandler(deps HandlerDeps) *PullRequestCommentCommandHandler {
	return &PullRequestCommentCommandHandler{
		ladder: ladder{deps: deps},
		commands: map[string]command{
			"ok": {allowed: isCollaborator, execute: mergePullRequest},
		},
	}
}

// Name implements EventHandler.
func (h *PullRequestCommentCommandHandler) Name() string {
	return "PullRequestCommentCommandHandler"
}

// Execute implements EventHandler.
func (h *PullRequestCommentCommandHandler) Execute(ctx context.Context, body []byte) (model.Outcome, error) {
	var ev model.IssueCommentEvent
	return h.ladder.run(ctx, body, &ev, policy{
		enabled: model.RepositorySettings.PullRequestCommentCommandEnabled,
		actions: []string{"created"},
		evaluate: func(ctx context.Context, req policyRequest) (model.Outcome, error) {
			return h.evaluate(ctx, req, &ev)
		},
	})
}

func (h *PullRequestCommentCommandHandler) evaluate(ctx context.Context, req policyRequest, ev *model.IssueCommentEvent) (model.Outcome, error) {
	if ev.Issue == nil {
		return model.PayloadError("no issue information in webhook payload"), nil
	}
	if ev.Comment == nil {
		return model.PayloadError("no comment information in webhook payload"), nil
	}
	if !ev.Issue.IsPullRequest() {
		return model.NoActionNeeded("comment is not on a pull request"), nil
	}

	contents := ev.Comment.Body
	name, ok := parseCommand(contents)
	if !ok {
		return model.NoActionNeeded("comment is not a command"), nil
	}

	cmd, ok := h.commands[name]
	if !ok {
		return model.NoActionNeeded(fmt.Sprintf("invalid command: %s%s", commandPrefix, name)), nil
	}

	if !cmd.allowed(ctx, ev) {
		login := ev.Comment.User.GetLogin()
		h.ladder.deps.logger().Warn("comment command denied",
			"repo", req.Repo.FullName,
			"number", ev.Issue.Number,
			"user", login,
			"command", name,
		)
		return model.PayloadError(fmt.Sprintf("%s is not allowed to execute the command: %s", login, contents)), nil
	}

	return cmd.execute(ctx, req, ev)
}

// parseCommand extracts the keyword of a "+keyword rest" comment: the text
// after the prefix up to the first space, or the whole remainder.
func parseCommand(contents string) (string, bool) {
	rest, ok := strings.CutPrefix(contents, commandPrefix)
	if !ok {
		return "", false
	}
	name, _, _ := strings.Cut(rest, " ")
	return name, true
}

func isCollaborator(_ context.Context, ev *model.IssueCommentEvent) bool {
	return strings.EqualFold(string(ev.Comment.AuthorAssociation), string(model.AuthorAssociationCollaborator))
}

func mergePullRequest(ctx context.Context, req policyRequest, ev *model.IssueCommentEvent) (model.Outcome, error) {
	client, err := req.Client(ctx)
	if err != nil {
		return model.Outcome{}, err
	}

	number, title := ev.Issue.Number, ev.Issue.Title
	result, err := client.MergePullRequest(ctx, req.Repo.FullName, number, model.MergeRequest{
		CommitTitle: fmt.Sprintf("merged PR via +ok: #%d %s", number, title),
	})
	if err != nil {
		return model.PayloadError(fmt.Sprintf("failed to merge pull request #%d %s: %v", number, title, err)), nil
	}
	if !result.Merged {
		msg := fmt.Sprintf("failed to merge pull request #%d %s", number, title)
		if result.Message != "" {
			msg += ": " + result.Message
		}
		return model.PayloadError(msg), nil
	}

	return model.ActionPerformed(fmt.Sprintf("merged pull request #%d %s", number, title)), nil
}
