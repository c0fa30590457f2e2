package model

import (
	"encoding/json"
	"fmt"
	"sync"
)

// WebhookResult aggregates the outcome messages of every handler that ran for
// one webhook delivery. It is safe for concurrent use.
type WebhookResult struct {
	mu        sync.Mutex
	messages  []string
	performed bool
}

// NewWebhookResult returns an empty result.
func NewWebhookResult() *WebhookResult {
	return &WebhookResult{messages: []string{}}
}

// Append records a handler outcome. An ActionPerformed outcome marks the
// whole delivery as having performed an action.
func (r *WebhookResult) Append(handler string, outcome Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, outcome.Message(handler))
	if outcome.Kind == OutcomeActionPerformed {
		r.performed = true
	}
}

// AppendError records a failure that escaped a handler.
func (r *WebhookResult) AppendError(handler string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, fmt.Sprintf("%s -> error: %v", handler, err))
}

// Messages returns a copy of the recorded messages in append order.
func (r *WebhookResult) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}

// ActionPerformed reports whether any handler performed an action.
func (r *WebhookResult) ActionPerformed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.performed
}

// MarshalJSON serializes the result for the HTTP response.
func (r *WebhookResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Messages        []string `json:"messages"`
		ActionPerformed bool     `json:"action_performed"`
	}{
		Messages:        r.Messages(),
		ActionPerformed: r.ActionPerformed(),
	})
}
