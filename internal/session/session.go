package session

import (
	"context"
	"errors"

	"github.com/temirov/branchwipe/internal/branches"
)

const (
	deleterMissingMessageConstant = "branch deleter not configured"
	phaseBrowsingLabelConstant    = "browsing"
	phaseDeletingLabelConstant    = "deleting"
	phaseDoneLabelConstant        = "done"
)

// ErrDeleterNotConfigured indicates the session was created without a Deleter.
var ErrDeleterNotConfigured = errors.New(deleterMissingMessageConstant)

// Phase is the lifecycle stage of a Session.
type Phase int

// Session phases.
const (
	PhaseBrowsing Phase = iota
	PhaseDeleting
	PhaseDone
)

// String returns the lowercase phase label.
func (phase Phase) String() string {
	switch phase {
	case PhaseDeleting:
		return phaseDeletingLabelConstant
	case PhaseDone:
		return phaseDoneLabelConstant
	default:
		return phaseBrowsingLabelConstant
	}
}

// Deleter deletes one branch.
type Deleter interface {
	DeleteBranch(executionContext context.Context, branch branches.Branch, operatorEmail string) error
}

// Failure records a branch whose deletion failed.
type Failure struct {
	Branch branches.Branch
	Err    error
}

// Options configure deletion behavior for a Session.
type Options struct {
	Order         DeletionOrder
	FailurePolicy FailurePolicy
	OperatorEmail string
}

// Session tracks the cursor, the selection and the deletion drain over an immutable snapshot.
// It is not safe for concurrent use.
type Session struct {
	snapshot     []branches.Branch
	cursor       int
	selection    []int
	pending      []int
	phase        Phase
	confirmed    bool
	aborted      bool
	initialCount int
	completed    int
	deleted      []branches.Branch
	failures     []Failure
	deleter      Deleter
	options      Options
}

// New starts a session in the Browsing phase with the cursor on the first branch.
func New(snapshot []branches.Branch, deleter Deleter, options Options) (*Session, error) {
	if len(snapshot) == 0 {
		return nil, branches.ErrNoBranches
	}
	if deleter == nil {
		return nil, ErrDeleterNotConfigured
	}
	if len(options.Order) == 0 {
		options.Order = DeletionOrderStack
	}
	if len(options.FailurePolicy) == 0 {
		options.FailurePolicy = FailurePolicyContinue
	}

	return &Session{
		snapshot: append([]branches.Branch(nil), snapshot...),
		phase:    PhaseBrowsing,
		deleter:  deleter,
		options:  options,
	}, nil
}

// Phase reports the current phase.
func (session *Session) Phase() Phase {
	return session.phase
}

// Branches returns a copy of the snapshot.
func (session *Session) Branches() []branches.Branch {
	return append([]branches.Branch(nil), session.snapshot...)
}

// Cursor returns the index of the highlighted branch.
func (session *Session) Cursor() int {
	return session.cursor
}

// IsSelected reports whether the branch at index is selected and not yet processed.
func (session *Session) IsSelected(index int) bool {
	if index < 0 || index >= len(session.snapshot) {
		return false
	}
	return positionOf(session.snapshot, session.activeSelection(), session.snapshot[index]) >= 0
}

// SelectedCount returns the number of selected branches not yet processed.
func (session *Session) SelectedCount() int {
	return len(session.activeSelection())
}

// MoveDown advances the cursor, wrapping to the first branch.
func (session *Session) MoveDown() {
	if session.phase != PhaseBrowsing {
		return
	}
	session.cursor = (session.cursor + 1) % len(session.snapshot)
}

// MoveUp moves the cursor back, wrapping to the last branch.
func (session *Session) MoveUp() {
	if session.phase != PhaseBrowsing {
		return
	}
	count := len(session.snapshot)
	session.cursor = (session.cursor - 1 + count) % count
}

// ToggleSelection adds the highlighted branch to the selection or removes it when already present.
func (session *Session) ToggleSelection() {
	if session.phase != PhaseBrowsing {
		return
	}
	position := positionOf(session.snapshot, session.selection, session.snapshot[session.cursor])
	if position >= 0 {
		session.selection = append(session.selection[:position], session.selection[position+1:]...)
		return
	}
	session.selection = append(session.selection, session.cursor)
}

// Confirm starts draining the selection. An empty selection finishes the session immediately.
func (session *Session) Confirm() {
	if session.phase != PhaseBrowsing {
		return
	}
	session.confirmed = true
	session.pending = append([]int(nil), session.selection...)
	session.initialCount = len(session.pending)
	if session.initialCount == 0 {
		session.phase = PhaseDone
		return
	}
	session.phase = PhaseDeleting
}

// Quit ends the session without deleting anything. It has no effect once deletion has started.
func (session *Session) Quit() {
	if session.phase != PhaseBrowsing {
		return
	}
	session.phase = PhaseDone
}

// Step deletes exactly one pending branch while Deleting. When nothing is pending the session
// moves to Done. A failed deletion is recorded and, under FailurePolicyAbort, ends the batch.
func (session *Session) Step(executionContext context.Context) {
	if session.phase != PhaseDeleting {
		return
	}
	if len(session.pending) == 0 {
		session.phase = PhaseDone
		return
	}

	branch := session.snapshot[session.takeNext()]
	deleteError := session.deleter.DeleteBranch(executionContext, branch, session.options.OperatorEmail)
	session.completed++

	if deleteError == nil {
		session.deleted = append(session.deleted, branch)
		return
	}

	session.failures = append(session.failures, Failure{Branch: branch, Err: deleteError})
	if session.options.FailurePolicy == FailurePolicyAbort {
		session.aborted = true
		session.phase = PhaseDone
	}
}

// Progress returns the completed fraction of the batch in [0, 1].
func (session *Session) Progress() float64 {
	if !session.confirmed {
		return 0
	}
	if session.initialCount == 0 {
		return 1
	}
	return float64(session.completed) / float64(session.initialCount)
}

// Deleted returns the branches deleted so far, in deletion order.
func (session *Session) Deleted() []branches.Branch {
	return append([]branches.Branch(nil), session.deleted...)
}

// Failures returns the failed deletions, in deletion order.
func (session *Session) Failures() []Failure {
	return append([]Failure(nil), session.failures...)
}

// Aborted reports whether a failure ended the batch early.
func (session *Session) Aborted() bool {
	return session.aborted
}

// Skipped returns the selected branches never attempted because the batch was aborted.
func (session *Session) Skipped() []branches.Branch {
	if !session.aborted {
		return nil
	}
	skipped := make([]branches.Branch, 0, len(session.pending))
	for _, index := range session.pending {
		skipped = append(skipped, session.snapshot[index])
	}
	return skipped
}

func (session *Session) takeNext() int {
	if session.options.Order == DeletionOrderQueue {
		next := session.pending[0]
		session.pending = session.pending[1:]
		return next
	}
	last := len(session.pending) - 1
	next := session.pending[last]
	session.pending = session.pending[:last]
	return next
}

func (session *Session) activeSelection() []int {
	if session.confirmed {
		return session.pending
	}
	return session.selection
}

func positionOf(snapshot []branches.Branch, indices []int, branch branches.Branch) int {
	for position, index := range indices {
		if snapshot[index].Equal(branch) {
			return position
		}
	}
	return -1
}
