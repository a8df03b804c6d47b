package branches

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRepositoryGateway struct {
	listing          string
	listingError     error
	localFailures    map[string]error
	remoteFailures   map[string]error
	email            string
	emailError       error
	deletedLocal     []string
	deletedRemote    []string
	remotesRequested []string
}

func (gateway *stubRepositoryGateway) ListBranchRecords(context.Context) (string, error) {
	return gateway.listing, gateway.listingError
}

func (gateway *stubRepositoryGateway) DeleteLocalBranch(_ context.Context, branchName string) error {
	if failure, exists := gateway.localFailures[branchName]; exists {
		return failure
	}
	gateway.deletedLocal = append(gateway.deletedLocal, branchName)
	return nil
}

func (gateway *stubRepositoryGateway) DeleteRemoteBranch(_ context.Context, remoteName string, remoteBranchName string) error {
	gateway.remotesRequested = append(gateway.remotesRequested, remoteName)
	if failure, exists := gateway.remoteFailures[remoteBranchName]; exists {
		return failure
	}
	gateway.deletedRemote = append(gateway.deletedRemote, remoteBranchName)
	return nil
}

func (gateway *stubRepositoryGateway) OperatorEmail(context.Context) (string, error) {
	return gateway.email, gateway.emailError
}

func buildRecord(fields ...string) string {
	return strings.Join(fields, branchRecordFieldSeparatorConstant)
}

func TestRegistryListBranchesParsesRecords(t *testing.T) {
	listing := strings.Join([]string{
		buildRecord("main", "Merge pull request #4", "Mon Oct 19 10:00:00 2026", "Ada", "ada@example.com", "refs/remotes/origin/main"),
		buildRecord("feature/login", "Add login form", "Sun Oct 18 09:00:00 2026", "Bob", "bob@example.com", ""),
		"",
	}, "\n")

	registry, err := NewRegistry(zap.NewNop(), &stubRepositoryGateway{listing: listing})
	require.NoError(t, err)

	branchList, listError := registry.ListBranches(context.Background())
	require.NoError(t, listError)
	require.Equal(t, []Branch{
		{Name: "main", Title: "Merge pull request #4", Date: "Mon Oct 19 10:00:00 2026", Author: "Ada", Email: "ada@example.com", Remote: "origin/main"},
		{Name: "feature/login", Title: "Add login form", Date: "Sun Oct 18 09:00:00 2026", Author: "Bob", Email: "bob@example.com"},
	}, branchList)
}

func TestRegistryListBranchesKeepsOnlyRemoteTrackingUpstreams(t *testing.T) {
	testCases := []struct {
		name           string
		upstream       string
		expectedRemote string
	}{
		{name: "remote_tracking", upstream: "refs/remotes/origin/feature/login", expectedRemote: "origin/feature/login"},
		{name: "tracks_local_branch", upstream: "refs/heads/main"},
		{name: "tracks_nested_local_branch", upstream: "refs/heads/feature/local"},
		{name: "no_upstream", upstream: ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			listing := buildRecord("topic", "Add topic", "date", "Ada", "ada@example.com", testCase.upstream)

			registry, err := NewRegistry(nil, &stubRepositoryGateway{listing: listing})
			require.NoError(t, err)

			branchList, listError := registry.ListBranches(context.Background())
			require.NoError(t, listError)
			require.Len(t, branchList, 1)
			require.Equal(t, testCase.expectedRemote, branchList[0].Remote)
			require.Equal(t, len(testCase.expectedRemote) > 0, branchList[0].HasUpstream())
		})
	}
}

func TestRegistryListBranchesHandlesEmptyFieldsAndCarriageReturns(t *testing.T) {
	listing := buildRecord("wip", "", "", "", "", "") + "\r\n"

	registry, err := NewRegistry(nil, &stubRepositoryGateway{listing: listing})
	require.NoError(t, err)

	branchList, listError := registry.ListBranches(context.Background())
	require.NoError(t, listError)
	require.Equal(t, []Branch{{Name: "wip"}}, branchList)
}

func TestRegistryListBranchesSkipsDetachedHead(t *testing.T) {
	listing := strings.Join([]string{
		buildRecord("(HEAD detached at 1a2b3c4)", "Fix", "date", "Ada", "ada@example.com", ""),
		buildRecord("main", "Fix", "date", "Ada", "ada@example.com", ""),
	}, "\n")

	registry, err := NewRegistry(nil, &stubRepositoryGateway{listing: listing})
	require.NoError(t, err)

	branchList, listError := registry.ListBranches(context.Background())
	require.NoError(t, listError)
	require.Len(t, branchList, 1)
	require.Equal(t, "main", branchList[0].Name)
}

func TestRegistryListBranchesFailures(t *testing.T) {
	gatewayFailure := errors.New("not a git repository")

	testCases := []struct {
		name               string
		gateway            *stubRepositoryGateway
		expectRegistry     bool
		expectNoBranches   bool
		expectWrappedCause error
	}{
		{
			name:               "gateway_error",
			gateway:            &stubRepositoryGateway{listingError: gatewayFailure},
			expectRegistry:     true,
			expectWrappedCause: gatewayFailure,
		},
		{
			name:           "invalid_utf8",
			gateway:        &stubRepositoryGateway{listing: buildRecord("bad\xff", "t", "d", "a", "e", "")},
			expectRegistry: true,
		},
		{
			name:           "wrong_field_count",
			gateway:        &stubRepositoryGateway{listing: buildRecord("main", "title", "date")},
			expectRegistry: true,
		},
		{
			name:             "empty_listing",
			gateway:          &stubRepositoryGateway{listing: "\n"},
			expectNoBranches: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			registry, err := NewRegistry(nil, testCase.gateway)
			require.NoError(t, err)

			branchList, listError := registry.ListBranches(context.Background())
			require.Error(t, listError)
			require.Nil(t, branchList)

			var registryError RegistryError
			require.Equal(t, testCase.expectRegistry, errors.As(listError, &registryError))
			require.Equal(t, testCase.expectNoBranches, errors.Is(listError, ErrNoBranches))
			if testCase.expectWrappedCause != nil {
				require.ErrorIs(t, listError, testCase.expectWrappedCause)
			}
		})
	}
}

func TestNewRegistryRequiresGateway(t *testing.T) {
	registry, err := NewRegistry(zap.NewNop(), nil)
	require.ErrorIs(t, err, ErrGatewayNotConfigured)
	require.Nil(t, registry)
}

func TestBranchSplitRemote(t *testing.T) {
	testCases := []struct {
		remote         string
		expectedRemote string
		expectedBranch string
		expectedValid  bool
	}{
		{remote: "origin/main", expectedRemote: "origin", expectedBranch: "main", expectedValid: true},
		{remote: "origin/feature/login", expectedRemote: "origin", expectedBranch: "feature/login", expectedValid: true},
		{remote: "origin", expectedValid: false},
		{remote: "", expectedValid: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.remote, func(t *testing.T) {
			remoteName, remoteBranchName, valid := Branch{Remote: testCase.remote}.SplitRemote()
			require.Equal(t, testCase.expectedValid, valid)
			require.Equal(t, testCase.expectedRemote, remoteName)
			require.Equal(t, testCase.expectedBranch, remoteBranchName)
		})
	}
}

func TestBranchEqualComparesAllFields(t *testing.T) {
	branch := Branch{Name: "main", Title: "t", Date: "d", Author: "a", Email: "e", Remote: "origin/main"}
	require.True(t, branch.Equal(branch))

	changed := branch
	changed.Remote = ""
	require.False(t, branch.Equal(changed))
}
