package application

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ericfisherdev/gitmonitor/internal/domain/model"
)

// PullRequestEvent is the GitHub webhook event name for pull request activity.
const PullRequestEvent = "pull_request"

// DefaultDuplicatePRWarning is posted on every open pull request except the
// earliest one. {pr} is replaced with the number of the earliest pull request.
const DefaultDuplicatePRWarning = "There are multiple open pull requests in this repository. " +
	"Only one pull request should be open at a time; please close this one and continue in #{pr}."

// PullRequestOpenDuplicateHandler warns when a pull request is opened while
// other pull requests of the repository are still open. The lowest-numbered
// open pull request is canonical and is never warned.
type PullRequestOpenDuplicateHandler struct {
	ladder ladder
}

// NewPullRequestOpenDuplicateHandler creates the handler.
func NewPullRequestOpenDuplicateHandler(deps HandlerDeps) *PullRequestOpenDuplicateHandler {
	return &PullRequestOpenDuplicateHandler{ladder: ladder{deps: deps}}
}

// Name implements EventHandler.
func (h *PullRequestOpenDuplicateHandler) Name() string {
	return "PullRequestOpenDuplicateHandler"
}

// Execute implements EventHandler.
func (h *PullRequestOpenDuplicateHandler) Execute(ctx context.Context, body []byte) (model.Outcome, error) {
	var ev model.PullRequestEvent
	return h.ladder.run(ctx, body, &ev, policy{
		enabled: model.RepositorySettings.MultiplePRProtectionEnabled,
		actions: []string{"opened"},
		evaluate: func(ctx context.Context, req policyRequest) (model.Outcome, error) {
			return h.evaluate(ctx, req, &ev)
		},
	})
}

func (h *PullRequestOpenDuplicateHandler) evaluate(ctx context.Context, req policyRequest, ev *model.PullRequestEvent) (model.Outcome, error) {
	if ev.PullRequest == nil {
		return model.PayloadError("no pull request information in webhook payload"), nil
	}

	client, err := req.Client(ctx)
	if err != nil {
		return model.Outcome{}, err
	}

	open, err := client.ListPullRequests(ctx, req.Repo.FullName, model.PRStateOpen)
	if err != nil {
		return model.Outcome{}, fmt.Errorf("listing open pull requests of %s: %w", req.Repo.FullName, err)
	}

	numbers := openNumbers(open, ev.PullRequest.Number)
	if len(numbers) <= 1 {
		return model.NoActionNeeded("pull request open is ok, there are no other PRs"), nil
	}

	canonical := numbers[0]
	body := strings.ReplaceAll(
		warningTemplate(req.Settings.MultiplePRProtection.WarningMessage, DefaultDuplicatePRWarning),
		"{pr}", strconv.Itoa(canonical),
	)

	warned := make([]string, 0, len(numbers)-1)
	for _, number := range numbers[1:] {
		if err := client.CreateIssueComment(ctx, req.Repo.FullName, number, body); err != nil {
			return model.PayloadError(fmt.Sprintf("failed to warn pull request #%d about duplicates: %v", number, err)), nil
		}
		warned = append(warned, fmt.Sprintf("#%d", number))
	}

	return model.ActionPerformed(fmt.Sprintf("warned %d duplicate pull request(s): %s", len(warned), strings.Join(warned, ", "))), nil
}

// openNumbers returns the distinct, ascending numbers of the open pull
// requests. The listing may lag behind the webhook, so the newly opened pull
// request is included even when GitHub does not return it yet.
func openNumbers(open []model.PullRequest, opened int) []int {
	numbers := make([]int, 0, len(open)+1)
	for _, pr := range open {
		numbers = append(numbers, pr.Number)
	}
	numbers = append(numbers, opened)

	slices.Sort(numbers)
	return slices.Compact(numbers)
}

// warningTemplate returns the configured message, falling back to def when empty.
func warningTemplate(configured, def string) string {
	if strings.TrimSpace(configured) == "" {
		return def
	}
	return configured
}
