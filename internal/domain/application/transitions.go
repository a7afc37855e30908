package application

import (
	"fmt"
	"sort"
	"strings"

	"jobtracker/internal/pkg/apperr"
)

// TransitionTable lists, for every status, the statuses it may move to.
// Staying on the same non-terminal status (a stage change) is always allowed.
type TransitionTable struct {
	next map[Status]map[Status]bool
}

// DefaultTransitions moves forward only, optionally skipping steps.
// Rejection is possible from any non-terminal status; acceptance only from
// an offer.
func DefaultTransitions() *TransitionTable {
	t := &TransitionTable{next: make(map[Status]map[Status]bool)}
	for i, from := range progression {
		targets := map[Status]bool{StatusRejected: true}
		for _, to := range progression[i+1:] {
			targets[to] = true
		}
		if from == StatusOffer {
			targets[StatusAccepted] = true
		}
		t.next[from] = targets
	}
	return t
}

// NewTransitionTable builds a table from configuration. An empty map yields
// the default table. Unknown statuses and edges out of terminal statuses are
// rejected.
func NewTransitionTable(m map[string][]string) (*TransitionTable, error) {
	if len(m) == 0 {
		return DefaultTransitions(), nil
	}

	t := &TransitionTable{next: make(map[Status]map[Status]bool)}
	for fromName, toNames := range m {
		from := Status(strings.TrimSpace(fromName))
		if !from.Valid() {
			return nil, fmt.Errorf("transitions: unknown status %q", fromName)
		}
		if from.Terminal() && len(toNames) > 0 {
			return nil, fmt.Errorf("transitions: terminal status %q cannot have outgoing transitions", from)
		}
		targets := make(map[Status]bool, len(toNames))
		for _, toName := range toNames {
			to := Status(strings.TrimSpace(toName))
			if !to.Valid() {
				return nil, fmt.Errorf("transitions: unknown status %q in %q", toName, fromName)
			}
			targets[to] = true
		}
		t.next[from] = targets
	}
	return t, nil
}

// Allowed reports whether an application in from may move to to.
func (t *TransitionTable) Allowed(from, to Status) bool {
	if from.Terminal() {
		return false
	}
	if from == to {
		return true
	}
	return t.next[from][to]
}

// Next returns the statuses reachable from from, sorted.
func (t *TransitionTable) Next(from Status) []Status {
	out := make([]Status, 0, len(t.next[from]))
	for to := range t.next[from] {
		out = append(out, to)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Check returns a validation error when the move is not allowed.
func (t *TransitionTable) Check(from, to Status) error {
	if !to.Valid() {
		return apperr.Validation("status", fmt.Sprintf("unknown status %q", to))
	}
	if t.Allowed(from, to) {
		return nil
	}
	if from.Terminal() {
		return apperr.Validation("status", fmt.Sprintf("application is %s; no further changes are allowed", from))
	}

	next := t.Next(from)
	names := make([]string, len(next))
	for i, s := range next {
		names[i] = string(s)
	}
	return apperr.Validation("status", fmt.Sprintf("cannot move from %s to %s (allowed: %s)", from, to, strings.Join(names, ", ")))
}
