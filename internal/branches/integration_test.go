package branches_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/branchwipe/internal/branches"
	"github.com/temirov/branchwipe/internal/execshell"
)

const (
	integrationGitExecutableNameConstant = "git"
	integrationRemoteNameConstant        = "origin"
	integrationMainBranchNameConstant    = "main"
	integrationOwnedBranchNameConstant   = "feature/owned"
	integrationForeignBranchNameConstant = "feature/foreign"
	integrationLocalBranchNameConstant   = "feature/local"
	integrationUserNameConstant          = "Integration Tester"
	integrationUserEmailConstant         = "integration@example.com"
	integrationOtherUserNameConstant     = "Other Author"
	integrationOtherUserEmailConstant    = "other@example.com"
	integrationFileNameConstant          = "README.md"
	integrationCommandTimeoutConstant    = 30 * time.Second
)

type integrationRepository struct {
	localPath string
}

func newIntegrationRepository(t *testing.T) integrationRepository {
	t.Helper()
	if _, lookupError := exec.LookPath(integrationGitExecutableNameConstant); lookupError != nil {
		t.Skip("git executable not available")
	}

	temporaryRoot := t.TempDir()
	t.Setenv("HOME", temporaryRoot)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(temporaryRoot, "gitconfig"))

	remotePath := filepath.Join(temporaryRoot, "remote.git")
	localPath := filepath.Join(temporaryRoot, "local")

	runGit(t, temporaryRoot, nil, "init", "--bare", remotePath)
	runGit(t, temporaryRoot, nil, "init", localPath)
	runGit(t, localPath, nil, "config", "user.name", integrationUserNameConstant)
	runGit(t, localPath, nil, "config", "user.email", integrationUserEmailConstant)
	runGit(t, localPath, nil, "config", "commit.gpgsign", "false")

	commitFile(t, localPath, "initial", "2026-01-01T10:00:00Z")
	runGit(t, localPath, nil, "branch", "-M", integrationMainBranchNameConstant)
	runGit(t, localPath, nil, "remote", "add", integrationRemoteNameConstant, remotePath)
	runGit(t, localPath, nil, "push", "-u", integrationRemoteNameConstant, integrationMainBranchNameConstant)

	runGit(t, localPath, nil, "checkout", "-b", integrationOwnedBranchNameConstant)
	commitFile(t, localPath, "owned change", "2026-01-03T10:00:00Z")
	runGit(t, localPath, nil, "push", "-u", integrationRemoteNameConstant, integrationOwnedBranchNameConstant)
	runGit(t, localPath, nil, "checkout", integrationMainBranchNameConstant)

	runGit(t, localPath, nil, "checkout", "-b", integrationForeignBranchNameConstant)
	commitFile(t, localPath, "foreign change", "2026-01-02T10:00:00Z",
		"-c", "user.name="+integrationOtherUserNameConstant,
		"-c", "user.email="+integrationOtherUserEmailConstant,
	)
	runGit(t, localPath, nil, "push", "-u", integrationRemoteNameConstant, integrationForeignBranchNameConstant)
	runGit(t, localPath, nil, "checkout", integrationMainBranchNameConstant)

	runGit(t, localPath, nil, "branch", integrationLocalBranchNameConstant)

	return integrationRepository{localPath: localPath}
}

func commitFile(t *testing.T, repositoryPath string, message string, authoredAt string, globalOptions ...string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(repositoryPath, integrationFileNameConstant), []byte(message+"\n"), 0o644))
	runGit(t, repositoryPath, nil, "add", integrationFileNameConstant)

	environment := []string{"GIT_AUTHOR_DATE=" + authoredAt, "GIT_COMMITTER_DATE=" + authoredAt}
	arguments := append(append([]string{}, globalOptions...), "commit", "-m", message)
	runGit(t, repositoryPath, environment, arguments...)
}

func runGit(t *testing.T, workingDirectory string, environment []string, arguments ...string) string {
	t.Helper()
	executionContext, cancelFunction := context.WithTimeout(context.Background(), integrationCommandTimeoutConstant)
	defer cancelFunction()

	command := exec.CommandContext(executionContext, integrationGitExecutableNameConstant, arguments...)
	command.Dir = workingDirectory
	command.Env = append(os.Environ(), environment...)

	outputBytes, commandError := command.CombinedOutput()
	require.NoError(t, commandError, string(outputBytes))
	return string(outputBytes)
}

func newIntegrationGateway(t *testing.T, repositoryPath string) *branches.GitGateway {
	t.Helper()
	executor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	require.NoError(t, executorError)
	gateway, gatewayError := branches.NewGitGateway(executor, repositoryPath)
	require.NoError(t, gatewayError)
	return gateway
}

func TestRegistryListsRealRepository(t *testing.T) {
	repository := newIntegrationRepository(t)
	gateway := newIntegrationGateway(t, repository.localPath)

	registry, registryError := branches.NewRegistry(zap.NewNop(), gateway)
	require.NoError(t, registryError)

	branchList, listError := registry.ListBranches(context.Background())
	require.NoError(t, listError)
	require.Len(t, branchList, 4)

	require.Equal(t, integrationOwnedBranchNameConstant, branchList[0].Name)
	require.Equal(t, "owned change", branchList[0].Title)
	require.Equal(t, integrationUserNameConstant, branchList[0].Author)
	require.Equal(t, integrationUserEmailConstant, branchList[0].Email)
	require.Equal(t, integrationRemoteNameConstant+"/"+integrationOwnedBranchNameConstant, branchList[0].Remote)
	require.NotEmpty(t, branchList[0].Date)

	require.Equal(t, integrationForeignBranchNameConstant, branchList[1].Name)
	require.Equal(t, integrationOtherUserEmailConstant, branchList[1].Email)

	namesWithoutUpstream := []string{}
	for _, branch := range branchList {
		if !branch.HasUpstream() {
			namesWithoutUpstream = append(namesWithoutUpstream, branch.Name)
		}
	}
	require.Equal(t, []string{integrationLocalBranchNameConstant}, namesWithoutUpstream)

	operatorEmail, emailError := gateway.OperatorEmail(context.Background())
	require.NoError(t, emailError)
	require.Equal(t, integrationUserEmailConstant, operatorEmail)
}

func TestDeletionServiceAgainstRealRepository(t *testing.T) {
	repository := newIntegrationRepository(t)
	gateway := newIntegrationGateway(t, repository.localPath)

	registry, registryError := branches.NewRegistry(zap.NewNop(), gateway)
	require.NoError(t, registryError)
	branchList, listError := registry.ListBranches(context.Background())
	require.NoError(t, listError)

	service, serviceError := branches.NewDeletionService(zap.NewNop(), gateway, branches.DeletionOptions{RemoteDeletionEnabled: true})
	require.NoError(t, serviceError)

	branchesByName := map[string]branches.Branch{}
	for _, branch := range branchList {
		branchesByName[branch.Name] = branch
	}

	for _, branchName := range []string{integrationOwnedBranchNameConstant, integrationForeignBranchNameConstant, integrationLocalBranchNameConstant} {
		require.NoError(t, service.DeleteBranch(context.Background(), branchesByName[branchName], integrationUserEmailConstant))
		require.Empty(t, strings.TrimSpace(runGit(t, repository.localPath, nil, "branch", "--list", branchName)))
	}

	ownedRemote := runGit(t, repository.localPath, nil, "ls-remote", "--heads", integrationRemoteNameConstant, integrationOwnedBranchNameConstant)
	require.Empty(t, strings.TrimSpace(ownedRemote))

	foreignRemote := runGit(t, repository.localPath, nil, "ls-remote", "--heads", integrationRemoteNameConstant, integrationForeignBranchNameConstant)
	require.NotEmpty(t, strings.TrimSpace(foreignRemote))

	checkedOutError := service.DeleteBranch(context.Background(), branchesByName[integrationMainBranchNameConstant], integrationUserEmailConstant)
	require.ErrorIs(t, checkedOutError, branches.ErrLocalDeleteFailed)
	require.NotEmpty(t, strings.TrimSpace(runGit(t, repository.localPath, nil, "branch", "--list", integrationMainBranchNameConstant)))
}

func TestLocallyTrackedBranchesNeverTouchRemotes(t *testing.T) {
	repository := newIntegrationRepository(t)

	decoyRemotePath := filepath.Join(filepath.Dir(repository.localPath), "decoy.git")
	runGit(t, repository.localPath, nil, "init", "--bare", decoyRemotePath)
	runGit(t, repository.localPath, nil, "remote", "add", "feature", decoyRemotePath)
	runGit(t, repository.localPath, nil, "push", "feature", integrationMainBranchNameConstant+":refs/heads/local")

	runGit(t, repository.localPath, nil, "branch", "--track", "topic", integrationMainBranchNameConstant)
	runGit(t, repository.localPath, nil, "branch", "--track", "nested", integrationLocalBranchNameConstant)

	gateway := newIntegrationGateway(t, repository.localPath)
	registry, registryError := branches.NewRegistry(zap.NewNop(), gateway)
	require.NoError(t, registryError)
	branchList, listError := registry.ListBranches(context.Background())
	require.NoError(t, listError)

	branchesByName := map[string]branches.Branch{}
	for _, branch := range branchList {
		branchesByName[branch.Name] = branch
	}

	service, serviceError := branches.NewDeletionService(zap.NewNop(), gateway, branches.DeletionOptions{RemoteDeletionEnabled: true})
	require.NoError(t, serviceError)

	for _, branchName := range []string{"topic", "nested"} {
		branch, listed := branchesByName[branchName]
		require.True(t, listed, branchName)
		require.False(t, branch.HasUpstream(), branchName)
		require.Equal(t, integrationUserEmailConstant, branch.Email)

		require.NoError(t, service.DeleteBranch(context.Background(), branch, integrationUserEmailConstant))
		require.Empty(t, strings.TrimSpace(runGit(t, repository.localPath, nil, "branch", "--list", branchName)))
	}

	require.NotEmpty(t, strings.TrimSpace(runGit(t, repository.localPath, nil, "ls-remote", "--heads", "feature", "local")))
	require.NotEmpty(t, strings.TrimSpace(runGit(t, repository.localPath, nil, "branch", "--list", integrationLocalBranchNameConstant)))
}
