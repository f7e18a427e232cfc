package culture

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidContext is returned for a situation outside the eight known contexts.
var ErrInvalidContext = errors.New("invalid context")

// Context is the business situation advice is generated for.
type Context string

const (
	MeetingIdea          Context = "meeting_idea"
	DisagreeWithSuperior Context = "disagree_with_superior"
	Reporting            Context = "reporting"
	RewardRecognition    Context = "reward_recognition"
	TeamCollaboration    Context = "team_collaboration"
	Negotiation          Context = "negotiation"
	Feedback             Context = "feedback"
	ConflictResolution   Context = "conflict_resolution"
)

// Contexts lists the eight known contexts in display order.
var Contexts = []Context{
	MeetingIdea,
	DisagreeWithSuperior,
	Reporting,
	RewardRecognition,
	TeamCollaboration,
	Negotiation,
	Feedback,
	ConflictResolution,
}

var contextLabels = map[Context]string{
	MeetingIdea:          "Proposing Ideas in Meetings",
	DisagreeWithSuperior: "Disagreeing with a Superior",
	Reporting:            "Status Reporting",
	RewardRecognition:    "Reward and Recognition",
	TeamCollaboration:    "Team Collaboration",
	Negotiation:          "Negotiation",
	Feedback:             "Giving and Receiving Feedback",
	ConflictResolution:   "Conflict Resolution",
}

// Valid reports whether c is one of the eight known contexts.
func (c Context) Valid() bool {
	_, ok := contextLabels[c]
	return ok
}

// Label returns the display label, or the raw value for unknown contexts.
func (c Context) Label() string {
	if l, ok := contextLabels[c]; ok {
		return l
	}
	return string(c)
}

// ParseContext accepts the canonical value in any case, with hyphens or
// underscores.
func ParseContext(s string) (Context, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "-", "_")
	c := Context(norm)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidContext, s)
	}
	return c, nil
}
