package model

import "fmt"

// OutcomeKind tags the result of one event handler invocation.
type OutcomeKind int

const (
	// OutcomeDisabled means the policy is not enabled for the repository.
	OutcomeDisabled OutcomeKind = iota
	// OutcomeNotOfInterest means the event action is not one the handler reacts to.
	OutcomeNotOfInterest
	// OutcomeNoActionNeeded means the handler ran and decided nothing needs remediation.
	OutcomeNoActionNeeded
	// OutcomeActionPerformed means the handler changed state through the GitHub API.
	OutcomeActionPerformed
	// OutcomePayloadError means the payload was malformed, the actor was not
	// authorized, or the GitHub API rejected the remediation.
	OutcomePayloadError
)

// String returns the tag as it appears in webhook result messages.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDisabled:
		return "disabled"
	case OutcomeNotOfInterest:
		return "event not of interest"
	case OutcomeNoActionNeeded:
		return "no action needed"
	case OutcomeActionPerformed:
		return "action performed"
	case OutcomePayloadError:
		return "payload error"
	default:
		return fmt.Sprintf("unknown outcome %d", int(k))
	}
}

// Outcome is the tagged result of one handler execution.
type Outcome struct {
	Kind        OutcomeKind
	Description string
}

// Disabled reports that the handler's policy is turned off for the repository.
func Disabled() Outcome {
	return Outcome{Kind: OutcomeDisabled, Description: "not enabled for repository"}
}

// NotOfInterest reports an event action the handler ignores.
func NotOfInterest(action string) Outcome {
	return Outcome{Kind: OutcomeNotOfInterest, Description: action}
}

// NoActionNeeded reports that the handler decided no remediation is warranted.
func NoActionNeeded(reason string) Outcome {
	return Outcome{Kind: OutcomeNoActionNeeded, Description: reason}
}

// ActionPerformed reports a remediation the handler carried out.
func ActionPerformed(description string) Outcome {
	return Outcome{Kind: OutcomeActionPerformed, Description: description}
}

// PayloadError reports a malformed payload, an authorization failure, or a
// rejected remediation.
func PayloadError(reason string) Outcome {
	return Outcome{Kind: OutcomePayloadError, Description: reason}
}

// Message formats the outcome as "<handler> -> <tag>: <description>".
func (o Outcome) Message(handler string) string {
	return fmt.Sprintf("%s -> %s: %s", handler, o.Kind, o.Description)
}
