package cli

import (
	_ "embed"
	"os"
	"path/filepath"
	"time"

	"github.com/temirov/branchwipe/internal/session"
	"github.com/temirov/branchwipe/internal/utils"
)

const (
	commonConfigurationKeyConstant        = "common"
	commonLogLevelConfigKeyConstant       = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant      = commonConfigurationKeyConstant + ".log_format"
	commonLogFileConfigKeyConstant        = commonConfigurationKeyConstant + ".log_file"
	toolsConfigurationKeyConstant         = "tools"
	branchWipeConfigurationKeyConstant    = toolsConfigurationKeyConstant + ".branch_wipe"
	deletionOrderConfigKeySuffixConstant  = ".deletion_order"
	failurePolicyConfigKeySuffixConstant  = ".failure_policy"
	remoteDeletionConfigKeySuffixConstant = ".remote_deletion"
	dryRunConfigKeySuffixConstant         = ".dry_run"
	pollIntervalConfigKeySuffixConstant   = ".poll_interval"
	defaultLogFileNameConstant            = "branchwipe.log"
	defaultPollIntervalConstant           = 16 * time.Millisecond
	defaultRemoteDeletionEnabledConstant  = true
	defaultDryRunEnabledConstant          = false
)

//go:embed default_config.yaml
var embeddedDefaultConfiguration []byte

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`
}

// ApplicationToolsConfiguration groups tool-specific settings.
type ApplicationToolsConfiguration struct {
	BranchWipe BranchWipeConfiguration `mapstructure:"branch_wipe"`
}

// BranchWipeConfiguration controls how the selected branches are deleted.
type BranchWipeConfiguration struct {
	DeletionOrder  session.DeletionOrder `mapstructure:"deletion_order"`
	FailurePolicy  session.FailurePolicy `mapstructure:"failure_policy"`
	RemoteDeletion bool                  `mapstructure:"remote_deletion"`
	DryRun         bool                  `mapstructure:"dry_run"`
	PollInterval   time.Duration         `mapstructure:"poll_interval"`
}

// DefaultBranchWipeConfiguration returns the settings used when nothing is configured.
func DefaultBranchWipeConfiguration() BranchWipeConfiguration {
	return BranchWipeConfiguration{
		DeletionOrder:  session.DeletionOrderStack,
		FailurePolicy:  session.FailurePolicyContinue,
		RemoteDeletion: defaultRemoteDeletionEnabledConstant,
		DryRun:         defaultDryRunEnabledConstant,
		PollInterval:   defaultPollIntervalConstant,
	}
}

// DefaultConfigurationValues returns viper defaults for every key, with tool keys rooted at branchWipePrefix.
func DefaultConfigurationValues(branchWipePrefix string) map[string]any {
	toolDefaults := DefaultBranchWipeConfiguration()
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
		commonLogFileConfigKeyConstant:   filepath.Join(os.TempDir(), defaultLogFileNameConstant),
	}
	defaultValues[branchWipePrefix+deletionOrderConfigKeySuffixConstant] = string(toolDefaults.DeletionOrder)
	defaultValues[branchWipePrefix+failurePolicyConfigKeySuffixConstant] = string(toolDefaults.FailurePolicy)
	defaultValues[branchWipePrefix+remoteDeletionConfigKeySuffixConstant] = toolDefaults.RemoteDeletion
	defaultValues[branchWipePrefix+dryRunConfigKeySuffixConstant] = toolDefaults.DryRun
	defaultValues[branchWipePrefix+pollIntervalConfigKeySuffixConstant] = toolDefaults.PollInterval.String()
	return defaultValues
}
