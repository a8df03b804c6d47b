package branches

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/branchwipe/internal/execshell"
)

const (
	gitExecutorMissingMessageConstant        = "git executor not configured"
	gitBranchSubcommandConstant              = "branch"
	gitForceDeleteFlagConstant               = "-D"
	gitSortFlagConstant                      = "--sort=-authordate"
	gitFormatFlagPrefixConstant              = "--format="
	gitPushSubcommandConstant                = "push"
	gitDeleteFlagConstant                    = "--delete"
	gitConfigSubcommandConstant              = "config"
	gitUserEmailKeyConstant                  = "user.email"
	gitTerminalPromptEnvironmentNameConstant = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableValue = "0"
)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryGateway is the boundary to the version-control system.
type RepositoryGateway interface {
	// ListBranchRecords returns the raw branch listing, one separator-delimited record per line.
	ListBranchRecords(executionContext context.Context) (string, error)
	// DeleteLocalBranch force-deletes a local branch.
	DeleteLocalBranch(executionContext context.Context, branchName string) error
	// DeleteRemoteBranch deletes a branch on the named remote.
	DeleteRemoteBranch(executionContext context.Context, remoteName string, remoteBranchName string) error
	// OperatorEmail returns the configured user.email.
	OperatorEmail(executionContext context.Context) (string, error)
}

// GitGateway implements RepositoryGateway by invoking git in a working directory.
type GitGateway struct {
	executor         GitExecutor
	workingDirectory string
}

// NewGitGateway constructs a gateway operating on the repository at workingDirectory.
// An empty working directory means the process working directory.
func NewGitGateway(executor GitExecutor, workingDirectory string) (*GitGateway, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &GitGateway{executor: executor, workingDirectory: strings.TrimSpace(workingDirectory)}, nil
}

// ListBranchRecords lists local branches newest author date first.
func (gateway *GitGateway) ListBranchRecords(executionContext context.Context) (string, error) {
	executionResult, executionError := gateway.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitBranchSubcommandConstant, gitSortFlagConstant, gitFormatFlagPrefixConstant + branchRecordFormat},
		WorkingDirectory: gateway.workingDirectory,
	})
	if executionError != nil {
		return "", executionError
	}
	return executionResult.StandardOutput, nil
}

// DeleteLocalBranch runs git branch -D.
func (gateway *GitGateway) DeleteLocalBranch(executionContext context.Context, branchName string) error {
	_, executionError := gateway.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitBranchSubcommandConstant, gitForceDeleteFlagConstant, branchName},
		WorkingDirectory: gateway.workingDirectory,
	})
	return executionError
}

// DeleteRemoteBranch runs git push --delete with terminal prompts disabled.
func (gateway *GitGateway) DeleteRemoteBranch(executionContext context.Context, remoteName string, remoteBranchName string) error {
	_, executionError := gateway.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            []string{gitPushSubcommandConstant, remoteName, gitDeleteFlagConstant, remoteBranchName},
		WorkingDirectory:     gateway.workingDirectory,
		EnvironmentVariables: map[string]string{gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableValue},
	})
	return executionError
}

// OperatorEmail reads user.email using git's own configuration resolution.
func (gateway *GitGateway) OperatorEmail(executionContext context.Context) (string, error) {
	executionResult, executionError := gateway.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitConfigSubcommandConstant, gitUserEmailKeyConstant},
		WorkingDirectory: gateway.workingDirectory,
	})
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}
