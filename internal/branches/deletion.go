package branches

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	localDeleteFailedMessageConstant    = "local branch deletion failed"
	remoteDeleteFailedMessageConstant   = "remote branch deletion failed"
	deletionErrorTemplateConstant       = "%s for %s: %v"
	malformedRemoteTemplateConstant     = "upstream %q does not name a remote branch"
	localDeletedMessageConstant         = "Deleted local branch"
	remoteDeletedMessageConstant        = "Deleted remote branch"
	remoteSkippedMessageConstant        = "Keeping remote branch"
	dryRunLocalMessageConstant          = "Dry run: would delete local branch"
	dryRunRemoteMessageConstant         = "Dry run: would delete remote branch"
	deletionFailedMessageConstant       = "Branch deletion failed"
	logFieldBranchConstant              = "branch"
	logFieldRemoteConstant              = "remote"
	logFieldRemoteBranchConstant        = "remote_branch"
	logFieldReasonConstant              = "reason"
	remoteSkipReasonDisabledConstant    = "remote deletion disabled"
	remoteSkipReasonNotAuthoredConstant = "branch authored by someone else"
)

// ErrLocalDeleteFailed matches DeletionError values whose local deletion failed.
var ErrLocalDeleteFailed = errors.New(localDeleteFailedMessageConstant)

// ErrRemoteDeleteFailed matches DeletionError values whose remote deletion failed.
var ErrRemoteDeleteFailed = errors.New(remoteDeleteFailedMessageConstant)

// DeletionErrorKind identifies which deletion step failed.
type DeletionErrorKind int

// Supported deletion failure kinds.
const (
	LocalDeleteFailed DeletionErrorKind = iota
	RemoteDeleteFailed
)

// DeletionError reports a failed branch deletion.
type DeletionError struct {
	Kind   DeletionErrorKind
	Branch string
	Err    error
}

// Error describes the failed step, the branch and the cause.
func (failure DeletionError) Error() string {
	return fmt.Sprintf(deletionErrorTemplateConstant, failure.sentinel().Error(), failure.Branch, failure.Err)
}

// Unwrap exposes the underlying cause.
func (failure DeletionError) Unwrap() error {
	return failure.Err
}

// Is matches ErrLocalDeleteFailed or ErrRemoteDeleteFailed according to Kind.
func (failure DeletionError) Is(target error) bool {
	return target == failure.sentinel()
}

func (failure DeletionError) sentinel() error {
	if failure.Kind == RemoteDeleteFailed {
		return ErrRemoteDeleteFailed
	}
	return ErrLocalDeleteFailed
}

// DeletionOptions tune how branches are deleted.
type DeletionOptions struct {
	RemoteDeletionEnabled bool
	DryRun                bool
}

// DeletionService removes branches locally and, when permitted, on their upstream remote.
type DeletionService struct {
	logger  *zap.Logger
	gateway RepositoryGateway
	options DeletionOptions
}

// NewDeletionService constructs a DeletionService.
func NewDeletionService(logger *zap.Logger, gateway RepositoryGateway, options DeletionOptions) (*DeletionService, error) {
	if gateway == nil {
		return nil, ErrGatewayNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeletionService{logger: logger, gateway: gateway, options: options}, nil
}

// DeleteBranch force-deletes the local branch and then its remote counterpart when the branch
// has an upstream and its author email equals operatorEmail. A failed local deletion stops
// before any remote work; a failed remote deletion leaves the local deletion in place.
func (service *DeletionService) DeleteBranch(executionContext context.Context, branch Branch, operatorEmail string) error {
	branchField := zap.String(logFieldBranchConstant, branch.Name)

	if service.options.DryRun {
		service.logger.Info(dryRunLocalMessageConstant, branchField)
	} else if deleteError := service.gateway.DeleteLocalBranch(executionContext, branch.Name); deleteError != nil {
		return service.reportFailure(DeletionError{Kind: LocalDeleteFailed, Branch: branch.Name, Err: deleteError})
	} else {
		service.logger.Info(localDeletedMessageConstant, branchField)
	}

	if !branch.HasUpstream() {
		return nil
	}

	if !service.options.RemoteDeletionEnabled {
		service.logger.Debug(remoteSkippedMessageConstant, branchField, zap.String(logFieldReasonConstant, remoteSkipReasonDisabledConstant))
		return nil
	}

	if len(operatorEmail) == 0 || branch.Email != operatorEmail {
		service.logger.Debug(remoteSkippedMessageConstant, branchField, zap.String(logFieldReasonConstant, remoteSkipReasonNotAuthoredConstant))
		return nil
	}

	remoteName, remoteBranchName, remoteValid := branch.SplitRemote()
	if !remoteValid {
		return service.reportFailure(DeletionError{Kind: RemoteDeleteFailed, Branch: branch.Name, Err: fmt.Errorf(malformedRemoteTemplateConstant, branch.Remote)})
	}

	remoteFields := []zap.Field{branchField, zap.String(logFieldRemoteConstant, remoteName), zap.String(logFieldRemoteBranchConstant, remoteBranchName)}

	if service.options.DryRun {
		service.logger.Info(dryRunRemoteMessageConstant, remoteFields...)
		return nil
	}

	if deleteError := service.gateway.DeleteRemoteBranch(executionContext, remoteName, remoteBranchName); deleteError != nil {
		return service.reportFailure(DeletionError{Kind: RemoteDeleteFailed, Branch: branch.Name, Err: deleteError})
	}

	service.logger.Info(remoteDeletedMessageConstant, remoteFields...)
	return nil
}

func (service *DeletionService) reportFailure(failure DeletionError) error {
	service.logger.Warn(deletionFailedMessageConstant, zap.String(logFieldBranchConstant, failure.Branch), zap.Error(failure))
	return failure
}
