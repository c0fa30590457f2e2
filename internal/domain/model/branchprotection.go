package model

// BranchProtection is the ruleset written to a branch through the GitHub
// branch protection API.
type BranchProtection struct {
	RequiredStatusChecks         []string
	StrictStatusChecks           bool
	RequiredApprovingReviewCount int
	DismissStaleReviews          bool
	RequireCodeOwnerReviews      bool
	EnforceAdmins                bool
	RequireLinearHistory         bool
	AllowForcePushes             bool
	AllowDeletions               bool
}

// Protection converts the configured settings into the ruleset to apply.
func (s BranchProtectionSettings) Protection() BranchProtection {
	reviews := s.RequiredApprovingReviewCount
	if reviews <= 0 {
		reviews = DefaultRequiredApprovingReviewCount
	}

	return BranchProtection{
		RequiredStatusChecks:         s.RequiredStatusChecks,
		StrictStatusChecks:           s.StrictStatusChecks,
		RequiredApprovingReviewCount: reviews,
		DismissStaleReviews:          s.DismissStaleReviews,
		RequireCodeOwnerReviews:      s.RequireCodeOwnerReviews,
		EnforceAdmins:                s.EnforceAdmins,
		RequireLinearHistory:         s.RequireLinearHistory,
		AllowForcePushes:             s.AllowForcePushes,
		AllowDeletions:               s.AllowDeletions,
	}
}
