package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/ericfisherdev/gitmonitor/internal/domain/model"
)

// PullRequestReviewEvent is the GitHub webhook event name for pull request reviews.
const PullRequestReviewEvent = "pull_request_review"

// PullRequestReviewToAssigneeHandler assigns the reviewer of a pull request
// as its assignee once they submit a review.
type PullRequestReviewToAssigneeHandler struct {
	ladder ladder
}

// NewPullRequestReviewToAssigneeHandler creates the handler.
func NewPullRequestReviewToAssigneeHandler(deps HandlerDeps) *PullRequestReviewToAssigneeHandler {
	return &PullRequestReviewToAssigneeHandler{ladder: ladder{deps: deps}}
}

// Name implements EventHandler.
func (h *PullRequestReviewToAssigneeHandler) Name() string {
	return "PullRequestReviewToAssigneeHandler"
}

// Execute implements EventHandler.
func (h *PullRequestReviewToAssigneeHandler) Execute(ctx context.Context, body []byte) (model.Outcome, error) {
	var ev model.PullRequestReviewEvent
	return h.ladder.run(ctx, body, &ev, policy{
		enabled: model.RepositorySettings.ReviewerToAssigneeEnabled,
		actions: []string{"submitted"},
		evaluate: func(ctx context.Context, req policyRequest) (model.Outcome, error) {
			return h.evaluate(ctx, req, &ev)
		},
	})
}

func (h *PullRequestReviewToAssigneeHandler) evaluate(ctx context.Context, req policyRequest, ev *model.PullRequestReviewEvent) (model.Outcome, error) {
	if ev.PullRequest == nil || ev.Review == nil {
		return model.PayloadError("no pull request review information in webhook payload"), nil
	}

	pr := ev.PullRequest
	reviewer := ev.Review.User.GetLogin()
	if reviewer == "" {
		return model.PayloadError("no reviewer in webhook payload"), nil
	}
	if strings.EqualFold(reviewer, pr.User.GetLogin()) {
		return model.NoActionNeeded("review by pull request author"), nil
	}
	for _, assignee := range pr.Assignees {
		if strings.EqualFold(assignee.GetLogin(), reviewer) {
			return model.NoActionNeeded(fmt.Sprintf("reviewer %s is already an assignee", reviewer)), nil
		}
	}

	client, err := req.Client(ctx)
	if err != nil {
		return model.Outcome{}, err
	}

	if err := client.AddAssignees(ctx, req.Repo.FullName, pr.Number, []string{reviewer}); err != nil {
		return model.PayloadError(fmt.Sprintf("failed to assign %s to pull request #%d: %v", reviewer, pr.Number, err)), nil
	}

	return model.ActionPerformed(fmt.Sprintf("assigned reviewer %s to pull request #%d", reviewer, pr.Number)), nil
}
