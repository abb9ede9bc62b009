package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrFlagNotFound is returned by flag lookups when no row matches within
// the requested team. Shared here so graph validation can distinguish a
// missing dependency from an infrastructure failure without depending on
// the storage layer.
var ErrFlagNotFound = errors.New("feature flag not found")

const (
	// PredicateKindFlag marks a predicate entry that references another flag.
	PredicateKindFlag = "flag"
	// OperatorFlagEvaluatesTo is the only operator on flag predicates that
	// forms a dependency edge. Other operators on flag predicates are
	// passed through untouched.
	OperatorFlagEvaluatesTo = "flag_evaluates_to"
)

type Flag struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	TeamID    uint           `gorm:"not null;index;uniqueIndex:idx_team_key" json:"team_id"`
	Key       string         `gorm:"size:128;not null;uniqueIndex:idx_team_key" json:"key"`
	Name      string         `gorm:"size:512" json:"name"`
	Active    bool           `gorm:"not null;default:false" json:"active"`
	Deleted   bool           `gorm:"not null;default:false;index" json:"deleted"`
	Filters   TargetingRules `gorm:"serializer:json" json:"filters"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TargetingRules is the predicate tree attached to a flag. Groups are OR-ed
// together at evaluation time; this service only inspects them for
// flag-to-flag references and never interprets the boolean semantics.
type TargetingRules struct {
	Groups []PredicateGroup `json:"groups"`
}

type PredicateGroup struct {
	Properties        []PredicateEntry `json:"properties"`
	RolloutPercentage *int             `json:"rollout_percentage,omitempty"`
}

// PredicateEntry is one condition inside a group. Entries form a loose
// tagged union: person/event property predicates and flag dependency
// predicates coexist in the same group, distinguished by Kind. Only
// Kind "flag" with operator "flag_evaluates_to" is meaningful here;
// everything else is opaque payload carried for the evaluation engine.
type PredicateEntry struct {
	Kind      string          `json:"kind"`
	Key       string          `json:"key,omitempty"`
	Reference string          `json:"reference,omitempty"`
	Operator  string          `json:"operator,omitempty"`
	Value     json.RawMessage `json:"value,omitempty"`
}

// IsFlagDependency reports whether the entry encodes a dependency edge.
func (e PredicateEntry) IsFlagDependency() bool {
	return e.Kind == PredicateKindFlag && e.Operator == OperatorFlagEvaluatesTo
}
