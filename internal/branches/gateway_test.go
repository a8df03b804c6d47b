package branches

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/branchwipe/internal/execshell"
)

type stubGitExecutor struct {
	recorded  []execshell.CommandDetails
	responses []stubGitResponse
}

type stubGitResponse struct {
	result execshell.ExecutionResult
	err    error
}

func (executor *stubGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recorded = append(executor.recorded, details)
	if len(executor.responses) == 0 {
		return execshell.ExecutionResult{}, nil
	}

	next := executor.responses[0]
	executor.responses = executor.responses[1:]
	if next.err != nil {
		return execshell.ExecutionResult{}, next.err
	}
	return next.result, nil
}

func TestNewGitGatewayRequiresExecutor(t *testing.T) {
	gateway, err := NewGitGateway(nil, "/tmp/repo")
	require.ErrorIs(t, err, ErrGitExecutorNotConfigured)
	require.Nil(t, gateway)
}

func TestGitGatewayIssuesExpectedCommands(t *testing.T) {
	testCases := []struct {
		name                string
		invoke              func(gateway *GitGateway) error
		expectedArguments   []string
		expectedEnvironment map[string]string
	}{
		{
			name: "list",
			invoke: func(gateway *GitGateway) error {
				_, err := gateway.ListBranchRecords(context.Background())
				return err
			},
			expectedArguments: []string{"branch", "--sort=-authordate", "--format=%(refname:short)%1f%1f%(subject)%1f%1f%(authordate:format:%c)%1f%1f%(authorname)%1f%1f%(authoremail:trim)%1f%1f%(upstream)"},
		},
		{
			name: "delete_local",
			invoke: func(gateway *GitGateway) error {
				return gateway.DeleteLocalBranch(context.Background(), "feature/login")
			},
			expectedArguments: []string{"branch", "-D", "feature/login"},
		},
		{
			name: "delete_remote",
			invoke: func(gateway *GitGateway) error {
				return gateway.DeleteRemoteBranch(context.Background(), "origin", "feature/login")
			},
			expectedArguments:   []string{"push", "origin", "--delete", "feature/login"},
			expectedEnvironment: map[string]string{"GIT_TERMINAL_PROMPT": "0"},
		},
		{
			name: "operator_email",
			invoke: func(gateway *GitGateway) error {
				_, err := gateway.OperatorEmail(context.Background())
				return err
			},
			expectedArguments: []string{"config", "user.email"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executor := &stubGitExecutor{}
			gateway, err := NewGitGateway(executor, "/tmp/repo")
			require.NoError(t, err)

			require.NoError(t, testCase.invoke(gateway))
			require.Len(t, executor.recorded, 1)
			require.Equal(t, testCase.expectedArguments, executor.recorded[0].Arguments)
			require.Equal(t, "/tmp/repo", executor.recorded[0].WorkingDirectory)
			require.Equal(t, testCase.expectedEnvironment, executor.recorded[0].EnvironmentVariables)
		})
	}
}

func TestGitGatewayOperatorEmailTrimsOutput(t *testing.T) {
	executor := &stubGitExecutor{responses: []stubGitResponse{{result: execshell.ExecutionResult{StandardOutput: "dev@example.com\n"}}}}
	gateway, err := NewGitGateway(executor, "")
	require.NoError(t, err)

	email, emailError := gateway.OperatorEmail(context.Background())
	require.NoError(t, emailError)
	require.Equal(t, "dev@example.com", email)
}

func TestGitGatewaySurfacesExecutorErrors(t *testing.T) {
	failure := errors.New("git failed")
	executor := &stubGitExecutor{responses: []stubGitResponse{{err: failure}}}
	gateway, err := NewGitGateway(executor, "")
	require.NoError(t, err)

	_, listError := gateway.ListBranchRecords(context.Background())
	require.ErrorIs(t, listError, failure)
}
