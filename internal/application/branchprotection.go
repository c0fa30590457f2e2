package application

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/gitmonitor/internal/domain/model"
)

// BranchProtectionRuleEvent is the GitHub webhook event name for branch protection rule changes.
const BranchProtectionRuleEvent = "branch_protection_rule"

// BranchProtectionRuleHandler applies the repository's configured protection
// ruleset to a branch when a branch protection rule is created for it.
type BranchProtectionRuleHandler struct {
	ladder ladder
}

// NewBranchProtectionRuleHandler creates the handler.
func NewBranchProtectionRuleHandler(deps HandlerDeps) *BranchProtectionRuleHandler {
	return &BranchProtectionRuleHandler{ladder: ladder{deps: deps}}
}

// Name implements EventHandler.
func (h *BranchProtectionRuleHandler) Name() string {
	return "BranchProtectionRuleHandler"
}

// Execute implements EventHandler.
func (h *BranchProtectionRuleHandler) Execute(ctx context.Context, body []byte) (model.Outcome, error) {
	var ev model.BranchProtectionRuleEvent
	return h.ladder.run(ctx, body, &ev, policy{
		enabled: model.RepositorySettings.BranchProtectionEnabled,
		actions: []string{"created"},
		evaluate: func(ctx context.Context, req policyRequest) (model.Outcome, error) {
			return h.evaluate(ctx, req, &ev)
		},
	})
}

func (h *BranchProtectionRuleHandler) evaluate(ctx context.Context, req policyRequest, ev *model.BranchProtectionRuleEvent) (model.Outcome, error) {
	if ev.Rule == nil || ev.Rule.Name == "" {
		return model.PayloadError("no branch protection rule information in webhook payload"), nil
	}

	client, err := req.Client(ctx)
	if err != nil {
		return model.Outcome{}, err
	}

	branch := ev.Rule.Name
	protection := req.Settings.BranchProtection.Protection()
	if err := client.UpdateBranchProtection(ctx, req.Repo.FullName, branch, protection); err != nil {
		return model.PayloadError(fmt.Sprintf("failed to apply branch protection to %s: %v", branch, err)), nil
	}

	h.ladder.deps.logger().Info("branch protection applied",
		"repo", req.Repo.FullName,
		"branch", branch,
		"required_reviews", protection.RequiredApprovingReviewCount,
	)
	return model.ActionPerformed("branch protection rule applied"), nil
}
