package domain

import "time"

// Position identifies the stage of the per-link hook pipeline a middleware runs in.
type Position string

const (
	PositionChainBefore Position = "chain_before"
	PositionLinkBefore  Position = "link_before"
	PositionLinkAfter   Position = "link_after"
	PositionChainAfter  Position = "chain_after"
)

// Positions lists the pipeline stages in execution order.
var Positions = []Position{PositionChainBefore, PositionLinkBefore, PositionLinkAfter, PositionChainAfter}

// IsBefore reports whether hooks at p run before the link.
func (p Position) IsBefore() bool {
	return p == PositionChainBefore || p == PositionLinkBefore
}

// ScopeKind tells whether a middleware observes every link or a single one.
type ScopeKind string

const (
	ScopeChain ScopeKind = "chain"
	ScopeLink  ScopeKind = "link"
)

// Placement is the read-only position metadata a middleware carries once attached.
type Placement struct {
	Scope    ScopeKind `json:"scope" yaml:"scope"`
	Link     string    `json:"link,omitempty" yaml:"link,omitempty"` // set for ScopeLink
	Position Position  `json:"position" yaml:"position"`
	Index    int       `json:"index" yaml:"index"` // registration order within the position bucket
}

// HookEvent is what a middleware observes at one stage of a link execution.
type HookEvent struct {
	Timestamp time.Time
	RunID     string
	Chain     string
	Link      string
	Placement Placement

	// Context is the context the link received.
	Context View
	// Result is the context the link produced. It is only valid in after hooks.
	Result View

	// Scratch is the run's shared side channel.
	Scratch *Scratch
}
