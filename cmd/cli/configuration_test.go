package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/branchwipe/internal/session"
)

const testConfigurationFileNameConstant = "config.yaml"

func writeConfigurationFile(t *testing.T, content map[string]any) string {
	t.Helper()
	encoded, encodeError := yaml.Marshal(content)
	require.NoError(t, encodeError)

	configurationPath := filepath.Join(t.TempDir(), testConfigurationFileNameConstant)
	require.NoError(t, os.WriteFile(configurationPath, encoded, 0o600))
	return configurationPath
}

func branchWipeSection(values map[string]any) map[string]any {
	return map[string]any{
		"tools": map[string]any{
			"branch_wipe": values,
		},
	}
}

func TestApplicationConfigurationSources(t *testing.T) {
	testCases := []struct {
		name                  string
		configuration         map[string]any
		environment           map[string]string
		arguments             []string
		expectedConfiguration BranchWipeConfiguration
		expectedLogFormat     string
	}{
		{
			name: "EmbeddedDefaults",
			expectedConfiguration: BranchWipeConfiguration{
				DeletionOrder:  session.DeletionOrderStack,
				FailurePolicy:  session.FailurePolicyContinue,
				RemoteDeletion: true,
				PollInterval:   16 * time.Millisecond,
			},
			expectedLogFormat: "structured",
		},
		{
			name: "ConfigurationFile",
			configuration: map[string]any{
				"common": map[string]any{"log_format": "console"},
				"tools": map[string]any{
					"branch_wipe": map[string]any{
						"deletion_order":  "queue",
						"failure_policy":  "abort",
						"remote_deletion": false,
						"dry_run":         true,
						"poll_interval":   "5ms",
					},
				},
			},
			expectedConfiguration: BranchWipeConfiguration{
				DeletionOrder:  session.DeletionOrderQueue,
				FailurePolicy:  session.FailurePolicyAbort,
				RemoteDeletion: false,
				DryRun:         true,
				PollInterval:   5 * time.Millisecond,
			},
			expectedLogFormat: "console",
		},
		{
			name:          "FlagsOverrideConfigurationFile",
			configuration: branchWipeSection(map[string]any{"deletion_order": "queue", "remote_deletion": false}),
			arguments:     []string{"--order", "stack", "--remote-deletion", "yes", "--on-failure=abort", "--log-format", "console"},
			expectedConfiguration: BranchWipeConfiguration{
				DeletionOrder:  session.DeletionOrderStack,
				FailurePolicy:  session.FailurePolicyAbort,
				RemoteDeletion: true,
				PollInterval:   16 * time.Millisecond,
			},
			expectedLogFormat: "console",
		},
		{
			name: "EnvironmentOverridesDefaults",
			environment: map[string]string{
				"BRANCHWIPE_TOOLS_BRANCH_WIPE_DRY_RUN":        "true",
				"BRANCHWIPE_TOOLS_BRANCH_WIPE_DELETION_ORDER": "QUEUE",
			},
			expectedConfiguration: BranchWipeConfiguration{
				DeletionOrder:  session.DeletionOrderQueue,
				FailurePolicy:  session.FailurePolicyContinue,
				RemoteDeletion: true,
				DryRun:         true,
				PollInterval:   16 * time.Millisecond,
			},
			expectedLogFormat: "structured",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			for environmentName, environmentValue := range testCase.environment {
				t.Setenv(environmentName, environmentValue)
			}

			harness := newApplicationHarness(t, &fakeGitRunner{listing: threeBranchListing()}, runeKey("q"))

			arguments := append([]string{}, testCase.arguments...)
			if testCase.configuration != nil {
				arguments = append(arguments, "--config", writeConfigurationFile(t, testCase.configuration))
			}

			require.NoError(t, harness.execute(arguments...))
			require.Equal(t, testCase.expectedConfiguration, harness.application.configuration.Tools.BranchWipe)
			require.Equal(t, testCase.expectedLogFormat, harness.application.configuration.Common.LogFormat)
		})
	}
}

func TestApplicationRejectsInvalidConfiguration(t *testing.T) {
	testCases := []struct {
		name          string
		configuration map[string]any
	}{
		{name: "UnknownDeletionOrder", configuration: branchWipeSection(map[string]any{"deletion_order": "random"})},
		{name: "UnknownFailurePolicy", configuration: branchWipeSection(map[string]any{"failure_policy": "retry"})},
		{name: "MalformedPollInterval", configuration: branchWipeSection(map[string]any{"poll_interval": "soon"})},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			harness := newApplicationHarness(t, &fakeGitRunner{listing: threeBranchListing()}, runeKey("q"))

			executionError := harness.execute("--config", writeConfigurationFile(t, testCase.configuration))
			require.ErrorContains(t, executionError, "unable to load configuration")
			require.False(t, harness.program.invoked)
		})
	}
}

func TestApplicationRejectsMissingConfigurationFile(t *testing.T) {
	harness := newApplicationHarness(t, &fakeGitRunner{listing: threeBranchListing()}, runeKey("q"))

	executionError := harness.execute("--config", filepath.Join(t.TempDir(), "absent.yaml"))
	require.ErrorContains(t, executionError, "unable to load configuration")
}

func TestDefaultConfigurationValuesCoverBranchWipeKeys(t *testing.T) {
	defaultValues := DefaultConfigurationValues(branchWipeConfigurationKeyConstant)

	for _, expectedKey := range []string{
		"common.log_level",
		"common.log_format",
		"common.log_file",
		"tools.branch_wipe.deletion_order",
		"tools.branch_wipe.failure_policy",
		"tools.branch_wipe.remote_deletion",
		"tools.branch_wipe.dry_run",
		"tools.branch_wipe.poll_interval",
	} {
		require.Contains(t, defaultValues, expectedKey)
	}
	require.Equal(t, filepath.Join(os.TempDir(), "branchwipe.log"), defaultValues["common.log_file"])
}
