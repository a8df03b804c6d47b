package branches

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	branchRecordFieldSeparatorConstant  = "\x1f\x1f"
	branchRecordFormatSeparatorConstant = "%1f%1f"
	branchRecordFieldCountConstant      = 6
	branchRecordLineSeparatorConstant   = "\n"
	branchRecordCarriageReturnConstant  = "\r"
	detachedHeadPrefixConstant          = "("
	gatewayMissingMessageConstant       = "repository gateway not configured"
	noBranchesMessageConstant           = "no local branches found"
	registryErrorTemplateConstant       = "unable to list branches: %v"
	invalidEncodingMessageConstant      = "branch listing is not valid UTF-8"
	invalidRecordTemplateConstant       = "malformed branch record on line %d: expected %d fields, found %d"
	branchesListedMessageConstant       = "Listed local branches"
	detachedHeadSkippedMessageConstant  = "Skipping detached HEAD entry"
	logFieldBranchCountConstant         = "branch_count"
	logFieldRecordConstant              = "record"
	logFieldUpstreamConstant            = "upstream"
	remoteTrackingPrefixConstant        = "refs/remotes/"
	localUpstreamIgnoredMessageConstant = "Ignoring upstream that is not a remote-tracking branch"
)

var branchRecordFormat = strings.Join([]string{
	"%(refname:short)",
	"%(subject)",
	"%(authordate:format:%c)",
	"%(authorname)",
	"%(authoremail:trim)",
	"%(upstream)",
}, branchRecordFormatSeparatorConstant)

// ErrGatewayNotConfigured indicates the repository gateway dependency was missing.
var ErrGatewayNotConfigured = errors.New(gatewayMissingMessageConstant)

// ErrNoBranches indicates the repository has no local branches.
var ErrNoBranches = errors.New(noBranchesMessageConstant)

// RegistryError reports a failed or unparseable branch listing.
type RegistryError struct {
	Cause error
}

// Error describes the listing failure.
func (failure RegistryError) Error() string {
	return fmt.Sprintf(registryErrorTemplateConstant, failure.Cause)
}

// Unwrap exposes the underlying cause.
func (failure RegistryError) Unwrap() error {
	return failure.Cause
}

// Registry produces the branch snapshot for a session.
type Registry struct {
	logger  *zap.Logger
	gateway RepositoryGateway
}

// NewRegistry constructs a Registry reading from the provided gateway.
func NewRegistry(logger *zap.Logger, gateway RepositoryGateway) (*Registry, error) {
	if gateway == nil {
		return nil, ErrGatewayNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{logger: logger, gateway: gateway}, nil
}

// ListBranches returns local branches ordered by author date, newest first.
func (registry *Registry) ListBranches(executionContext context.Context) ([]Branch, error) {
	listing, listingError := registry.gateway.ListBranchRecords(executionContext)
	if listingError != nil {
		return nil, RegistryError{Cause: listingError}
	}

	branchList, parseError := registry.parseBranchRecords(listing)
	if parseError != nil {
		return nil, RegistryError{Cause: parseError}
	}

	if len(branchList) == 0 {
		return nil, ErrNoBranches
	}

	registry.logger.Debug(branchesListedMessageConstant, zap.Int(logFieldBranchCountConstant, len(branchList)))
	return branchList, nil
}

func (registry *Registry) parseBranchRecords(listing string) ([]Branch, error) {
	if !utf8.ValidString(listing) {
		return nil, errors.New(invalidEncodingMessageConstant)
	}

	lines := strings.Split(listing, branchRecordLineSeparatorConstant)
	branchList := make([]Branch, 0, len(lines))
	for lineIndex, line := range lines {
		record := strings.TrimSuffix(line, branchRecordCarriageReturnConstant)
		if len(strings.TrimSpace(record)) == 0 {
			continue
		}

		fields := strings.Split(record, branchRecordFieldSeparatorConstant)
		if len(fields) != branchRecordFieldCountConstant {
			return nil, fmt.Errorf(invalidRecordTemplateConstant, lineIndex+1, branchRecordFieldCountConstant, len(fields))
		}

		if strings.HasPrefix(fields[0], detachedHeadPrefixConstant) {
			registry.logger.Debug(detachedHeadSkippedMessageConstant, zap.String(logFieldRecordConstant, fields[0]))
			continue
		}

		branchList = append(branchList, Branch{
			Name:   fields[0],
			Title:  fields[1],
			Date:   fields[2],
			Author: fields[3],
			Email:  fields[4],
			Remote: registry.remoteTrackingUpstream(fields[0], fields[5]),
		})
	}

	return branchList, nil
}

// remoteTrackingUpstream returns "remote/branch" for upstreams under refs/remotes/.
// Upstreams that name another local branch yield an empty value.
func (registry *Registry) remoteTrackingUpstream(branchName string, upstreamReference string) string {
	if len(upstreamReference) == 0 {
		return ""
	}
	remoteUpstream, isRemoteTracking := strings.CutPrefix(upstreamReference, remoteTrackingPrefixConstant)
	if !isRemoteTracking {
		registry.logger.Debug(localUpstreamIgnoredMessageConstant, zap.String(logFieldRecordConstant, branchName), zap.String(logFieldUpstreamConstant, upstreamReference))
		return ""
	}
	return remoteUpstream
}
