package session

import (
	"fmt"
	"strings"
)

const (
	deletionOrderStackValueConstant          = "stack"
	deletionOrderQueueValueConstant          = "queue"
	failurePolicyContinueValueConstant       = "continue"
	failurePolicyAbortValueConstant          = "abort"
	unsupportedDeletionOrderTemplateConstant = "unsupported deletion order %q (expected %s or %s)"
	unsupportedFailurePolicyTemplateConstant = "unsupported failure policy %q (expected %s or %s)"
)

// DeletionOrder decides which selected branch is deleted next.
type DeletionOrder string

// Supported deletion orders.
const (
	// DeletionOrderStack deletes the most recently selected branch first.
	DeletionOrderStack DeletionOrder = DeletionOrder(deletionOrderStackValueConstant)
	// DeletionOrderQueue deletes branches in the order they were selected.
	DeletionOrderQueue DeletionOrder = DeletionOrder(deletionOrderQueueValueConstant)
)

// DeletionOrderChoices lists the accepted deletion order values.
func DeletionOrderChoices() []string {
	return []string{deletionOrderStackValueConstant, deletionOrderQueueValueConstant}
}

// UnmarshalText parses a case-insensitive deletion order.
func (order *DeletionOrder) UnmarshalText(text []byte) error {
	parsed, parseError := ParseDeletionOrder(string(text))
	if parseError != nil {
		return parseError
	}
	*order = parsed
	return nil
}

// ParseDeletionOrder validates a deletion order. An empty value selects DeletionOrderStack.
func ParseDeletionOrder(rawValue string) (DeletionOrder, error) {
	switch strings.ToLower(strings.TrimSpace(rawValue)) {
	case "", deletionOrderStackValueConstant:
		return DeletionOrderStack, nil
	case deletionOrderQueueValueConstant:
		return DeletionOrderQueue, nil
	default:
		return "", fmt.Errorf(unsupportedDeletionOrderTemplateConstant, rawValue, deletionOrderStackValueConstant, deletionOrderQueueValueConstant)
	}
}

// FailurePolicy decides what happens to the rest of the batch after a failed deletion.
type FailurePolicy string

// Supported failure policies.
const (
	// FailurePolicyContinue records the failure and keeps draining.
	FailurePolicyContinue FailurePolicy = FailurePolicy(failurePolicyContinueValueConstant)
	// FailurePolicyAbort records the failure and ends the batch.
	FailurePolicyAbort FailurePolicy = FailurePolicy(failurePolicyAbortValueConstant)
)

// FailurePolicyChoices lists the accepted failure policy values.
func FailurePolicyChoices() []string {
	return []string{failurePolicyContinueValueConstant, failurePolicyAbortValueConstant}
}

// UnmarshalText parses a case-insensitive failure policy.
func (policy *FailurePolicy) UnmarshalText(text []byte) error {
	parsed, parseError := ParseFailurePolicy(string(text))
	if parseError != nil {
		return parseError
	}
	*policy = parsed
	return nil
}

// ParseFailurePolicy validates a failure policy. An empty value selects FailurePolicyContinue.
func ParseFailurePolicy(rawValue string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(rawValue)) {
	case "", failurePolicyContinueValueConstant:
		return FailurePolicyContinue, nil
	case failurePolicyAbortValueConstant:
		return FailurePolicyAbort, nil
	default:
		return "", fmt.Errorf(unsupportedFailurePolicyTemplateConstant, rawValue, failurePolicyContinueValueConstant, failurePolicyAbortValueConstant)
	}
}
