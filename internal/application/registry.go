package application

import (
	"maps"
	"slices"
)

// HandlerFactory constructs the handler serving one delivery.
type HandlerFactory func() EventHandler

// Registration binds a webhook event name to a handler factory.
type Registration struct {
	Event   string
	Factory HandlerFactory
}

// Register pairs an event name with the factory of its handler.
func Register(event string, factory HandlerFactory) Registration {
	return Registration{Event: event, Factory: factory}
}

// Registry maps webhook event names to the handlers responsible for them.
// It is built once and never modified afterwards, so it is safe to share
// between concurrent deliveries.
type Registry struct {
	handlers map[string][]HandlerFactory
}

// NewRegistry builds a registry from the given registrations. An event may be
// registered more than once; its handlers then run in registration order.
func NewRegistry(registrations ...Registration) *Registry {
	handlers := make(map[string][]HandlerFactory, len(registrations))
	for _, reg := range registrations {
		handlers[reg.Event] = append(handlers[reg.Event], reg.Factory)
	}
	return &Registry{handlers: handlers}
}

// Lookup returns the handler factories registered for event, or nil.
func (r *Registry) Lookup(event string) []HandlerFactory {
	return r.handlers[event]
}

// Events returns the registered event names, sorted.
func (r *Registry) Events() []string {
	return slices.Sorted(maps.Keys(r.handlers))
}

// DefaultRegistry wires every policy handler to the event it serves.
func DefaultRegistry(deps HandlerDeps) *Registry {
	return NewRegistry(
		Register(BranchProtectionRuleEvent, func() EventHandler { return NewBranchProtectionRuleHandler(deps) }),
		Register(IssueCommentEvent, func() EventHandler { return NewPullRequestCommentCommandHandler(deps) }),
		Register(IssueCommentEvent, func() EventHandler { return NewIssueCommentEditDeleteHandler(deps) }),
		Register(PullRequestEvent, func() EventHandler { return NewPullRequestOpenDuplicateHandler(deps) }),
		Register(PullRequestReviewEvent, func() EventHandler { return NewPullRequestReviewToAssigneeHandler(deps) }),
	)
}
