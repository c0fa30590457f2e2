package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/ericfisherdev/gitmonitor/internal/domain/model"
)

// DefaultCommentWarning is posted when someone edits or deletes another
// user's comment. {actor}, {author} and {action} are substituted.
const DefaultCommentWarning = ":warning: @{actor} {action} a comment written by @{author}. " +
	"Please do not change other people's comments."

// IssueCommentEditDeleteHandler warns when a comment is edited or deleted by
// someone other than its author. Authors may always change their own comments.
type IssueCommentEditDeleteHandler struct {
	ladder ladder
}

// NewIssueCommentEditDeleteHandler creates the handler.
func NewIssueCommentEditDeleteHandler(deps HandlerDeps) *IssueCommentEditDeleteHandler {
	return &IssueCommentEditDeleteHandler{ladder: ladder{deps: deps}}
}

// Name implements EventHandler.
func (h *IssueCommentEditDeleteHandler) Name() string {
	return "IssueCommentEditDeleteHandler"
}

// Execute implements EventHandler.
func (h *IssueCommentEditDeleteHandler) Execute(ctx context.Context, body []byte) (model.Outcome, error) {
	var ev model.IssueCommentEvent
	return h.ladder.run(ctx, body, &ev, policy{
		enabled: model.RepositorySettings.CommentProtectionEnabled,
		actions: []string{"edited", "deleted"},
		evaluate: func(ctx context.Context, req policyRequest) (model.Outcome, error) {
			return h.evaluate(ctx, req, &ev)
		},
	})
}

func (h *IssueCommentEditDeleteHandler) evaluate(ctx context.Context, req policyRequest, ev *model.IssueCommentEvent) (model.Outcome, error) {
	if ev.Issue == nil {
		return model.PayloadError("no issue information in webhook payload"), nil
	}
	if ev.Comment == nil {
		return model.PayloadError("no comment information in webhook payload"), nil
	}

	actor := ev.Sender.GetLogin()
	author := ev.Comment.User.GetLogin()
	if actor == "" || author == "" {
		return model.PayloadError("no comment author or sender in webhook payload"), nil
	}
	if strings.EqualFold(actor, author) {
		return model.NoActionNeeded(fmt.Sprintf("comment %s by its author", strings.ToLower(req.Action))), nil
	}

	client, err := req.Client(ctx)
	if err != nil {
		return model.Outcome{}, err
	}

	action := strings.ToLower(req.Action)
	body := strings.NewReplacer(
		"{actor}", actor,
		"{author}", author,
		"{action}", action,
	).Replace(warningTemplate(req.Settings.CommentProtection.WarningMessage, DefaultCommentWarning))

	if err := client.CreateIssueComment(ctx, req.Repo.FullName, ev.Issue.Number, body); err != nil {
		return model.PayloadError(fmt.Sprintf("failed to post warning on #%d: %v", ev.Issue.Number, err)), nil
	}

	return model.ActionPerformed(fmt.Sprintf("comment of %s %s by %s, warning posted on #%d", author, action, actor, ev.Issue.Number)), nil
}
