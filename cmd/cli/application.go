package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/branchwipe/internal/branches"
	"github.com/temirov/branchwipe/internal/execshell"
	"github.com/temirov/branchwipe/internal/session"
	"github.com/temirov/branchwipe/internal/ui"
	"github.com/temirov/branchwipe/internal/utils"
	flagutils "github.com/temirov/branchwipe/internal/utils/flags"
	pathutils "github.com/temirov/branchwipe/internal/utils/path"
)

const (
	applicationNameConstant                  = "branchwipe"
	applicationShortDescriptionConstant      = "Interactively delete local git branches and their remote counterparts"
	applicationLongDescriptionConstant       = "branchwipe lists the local branches of the repository in the current directory, newest first. Select branches with space and press enter to delete them; remote branches are removed as well when you authored them."
	configFileFlagNameConstant               = "config"
	configFileFlagUsageConstant              = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                 = "log-level"
	logLevelFlagUsageConstant                = "Override the configured log level."
	logFormatFlagNameConstant                = "log-format"
	logFormatFlagUsageConstant               = "Override the configured log format."
	logFileFlagNameConstant                  = "log-file"
	logFileFlagUsageConstant                 = "Override the file that receives log output."
	orderFlagNameConstant                    = "order"
	orderFlagUsageConstant                   = "Order in which selected branches are deleted."
	failurePolicyFlagNameConstant            = "on-failure"
	failurePolicyFlagUsageConstant           = "Keep going or stop after a failed deletion."
	remoteDeletionFlagNameConstant           = "remote-deletion"
	remoteDeletionFlagUsageConstant          = "Delete the upstream branch of branches you authored."
	dryRunFlagNameConstant                   = "dry-run"
	dryRunFlagShorthandConstant              = "n"
	dryRunFlagUsageConstant                  = "Show what would be deleted without running mutating git commands."
	environmentPrefixConstant                = "BRANCHWIPE"
	configurationNameConstant                = "config"
	configurationTypeConstant                = "yaml"
	configurationInitializedMessageConstant  = "configuration initialized"
	configurationLogLevelFieldConstant       = "log_level"
	configurationLogFormatFieldConstant      = "log_format"
	configurationFileFieldConstant           = "config_file"
	configurationOrderFieldConstant          = "deletion_order"
	configurationFailurePolicyFieldConstant  = "failure_policy"
	configurationRemoteDeletionFieldConstant = "remote_deletion"
	configurationDryRunFieldConstant         = "dry_run"
	configurationLoadErrorTemplateConstant   = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant      = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant          = "unable to flush logger: %w"
	workingDirectoryErrorTemplateConstant    = "unable to determine working directory: %w"
	programErrorTemplateConstant             = "interactive session failed: %w"
	flagValueErrorTemplateConstant           = "invalid --%s value: %w"
	operatorEmailUnavailableMessageConstant  = "operator email unavailable; remote branches will be kept"
	sessionStartedMessageConstant            = "branch selection started"
	sessionFinishedMessageConstant           = "branch selection finished"
	logFieldWorkingDirectoryConstant         = "working_directory"
	logFieldBranchCountConstant              = "branch_count"
	logFieldOperatorEmailConstant            = "operator_email"
	logFieldDeletedCountConstant             = "deleted_count"
	logFieldFailedCountConstant              = "failed_count"
	logFieldSkippedCountConstant             = "skipped_count"
	logFieldAbortedConstant                  = "aborted"
	commandArgumentsStartIndexConstant       = 1
)

// programRunner runs an interactive model to completion.
type programRunner func(executionContext context.Context, model tea.Model) (tea.Model, error)

// Application wires the Cobra root command, configuration loader and structured logger.
type Application struct {
	rootCommand             *cobra.Command
	configurationLoader     *utils.ConfigurationLoader
	loggerFactory           *utils.LoggerFactory
	pathResolver            *pathutils.Resolver
	logger                  *zap.Logger
	configuration           ApplicationConfiguration
	configurationMetadata   utils.LoadedConfiguration
	configurationFilePath   string
	logLevelFlagValue       string
	logFormatFlagValue      string
	logFileFlagValue        string
	orderFlagValue          string
	failurePolicyFlagValue  string
	remoteDeletionFlagValue bool
	dryRunFlagValue         bool
	arguments               []string
	commandRunner           execshell.CommandRunner
	workingDirectory        func() (string, error)
	runProgram              programRunner
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		utils.DefaultSearchPaths(applicationNameConstant),
	)
	configurationLoader.SetEmbeddedConfiguration(embeddedDefaultConfiguration, configurationTypeConstant)

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		pathResolver:        pathutils.NewResolver(),
		logger:              zap.NewNop(),
		commandRunner:       execshell.NewOSCommandRunner(),
		workingDirectory:    os.Getwd,
		runProgram:          runTerminalProgram,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runBranchWipe(command)
		},
	}

	cobraCommand.SetContext(context.Background())

	persistentFlags := cobraCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	flagutils.AddChoiceFlag(persistentFlags, &application.logLevelFlagValue, logLevelFlagNameConstant, string(utils.LogLevelInfo), utils.LogLevelChoices(), logLevelFlagUsageConstant)
	flagutils.AddChoiceFlag(persistentFlags, &application.logFormatFlagValue, logFormatFlagNameConstant, string(utils.LogFormatStructured), utils.LogFormatChoices(), logFormatFlagUsageConstant)
	persistentFlags.StringVar(&application.logFileFlagValue, logFileFlagNameConstant, "", logFileFlagUsageConstant)

	defaults := DefaultBranchWipeConfiguration()
	localFlags := cobraCommand.Flags()
	flagutils.AddChoiceFlag(localFlags, &application.orderFlagValue, orderFlagNameConstant, string(defaults.DeletionOrder), session.DeletionOrderChoices(), orderFlagUsageConstant)
	flagutils.AddChoiceFlag(localFlags, &application.failurePolicyFlagValue, failurePolicyFlagNameConstant, string(defaults.FailurePolicy), session.FailurePolicyChoices(), failurePolicyFlagUsageConstant)
	flagutils.AddToggleFlag(localFlags, &application.remoteDeletionFlagValue, remoteDeletionFlagNameConstant, "", defaults.RemoteDeletion, remoteDeletionFlagUsageConstant)
	flagutils.AddToggleFlag(localFlags, &application.dryRunFlagValue, dryRunFlagNameConstant, dryRunFlagShorthandConstant, defaults.DryRun, dryRunFlagUsageConstant)

	application.rootCommand = cobraCommand

	return application
}

// SetArguments replaces the process arguments used by Execute.
func (application *Application) SetArguments(arguments []string) {
	application.arguments = append([]string{}, arguments...)
}

// Execute runs the root command and ensures logger flushing.
func (application *Application) Execute() error {
	arguments := application.arguments
	if arguments == nil && len(os.Args) > commandArgumentsStartIndexConstant {
		arguments = os.Args[commandArgumentsStartIndexConstant:]
	}
	normalizedArguments := flagutils.NormalizeToggleArguments(application.rootCommand.Flags(), arguments)
	if normalizedArguments == nil {
		normalizedArguments = []string{}
	}
	application.rootCommand.SetArgs(normalizedArguments)

	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := DefaultConfigurationValues(branchWipeConfigurationKeyConstant)

	configurationFilePath := application.pathResolver.Resolve(application.configurationFilePath)
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if overrideError := application.applyFlagOverrides(command); overrideError != nil {
		return overrideError
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
		application.pathResolver.Resolve(application.configuration.Common.LogFile),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	toolConfiguration := application.configuration.Tools.BranchWipe
	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.String(configurationOrderFieldConstant, string(toolConfiguration.DeletionOrder)),
		zap.String(configurationFailurePolicyFieldConstant, string(toolConfiguration.FailurePolicy)),
		zap.Bool(configurationRemoteDeletionFieldConstant, toolConfiguration.RemoteDeletion),
		zap.Bool(configurationDryRunFieldConstant, toolConfiguration.DryRun),
	)

	return nil
}

func (application *Application) applyFlagOverrides(command *cobra.Command) error {
	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}
	if application.persistentFlagChanged(command, logFileFlagNameConstant) {
		application.configuration.Common.LogFile = application.logFileFlagValue
	}

	toolConfiguration := &application.configuration.Tools.BranchWipe
	if localFlagChanged(command, orderFlagNameConstant) {
		deletionOrder, parseError := session.ParseDeletionOrder(application.orderFlagValue)
		if parseError != nil {
			return fmt.Errorf(flagValueErrorTemplateConstant, orderFlagNameConstant, parseError)
		}
		toolConfiguration.DeletionOrder = deletionOrder
	}
	if localFlagChanged(command, failurePolicyFlagNameConstant) {
		failurePolicy, parseError := session.ParseFailurePolicy(application.failurePolicyFlagValue)
		if parseError != nil {
			return fmt.Errorf(flagValueErrorTemplateConstant, failurePolicyFlagNameConstant, parseError)
		}
		toolConfiguration.FailurePolicy = failurePolicy
	}
	if localFlagChanged(command, remoteDeletionFlagNameConstant) {
		toolConfiguration.RemoteDeletion = application.remoteDeletionFlagValue
	}
	if localFlagChanged(command, dryRunFlagNameConstant) {
		toolConfiguration.DryRun = application.dryRunFlagValue
	}

	return nil
}

func (application *Application) runBranchWipe(command *cobra.Command) error {
	executionContext := command.Context()
	toolConfiguration := application.configuration.Tools.BranchWipe

	workingDirectory, workingDirectoryError := application.workingDirectory()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorTemplateConstant, workingDirectoryError)
	}

	executor, executorError := execshell.NewShellExecutorWithObserver(application.logger, application.commandRunner, ui.NewCommandEventLogger(application.logger))
	if executorError != nil {
		return executorError
	}

	gateway, gatewayError := branches.NewGitGateway(executor, workingDirectory)
	if gatewayError != nil {
		return gatewayError
	}

	registry, registryError := branches.NewRegistry(application.logger, gateway)
	if registryError != nil {
		return registryError
	}

	snapshot, listError := registry.ListBranches(executionContext)
	if listError != nil {
		return listError
	}

	operatorEmail, emailError := gateway.OperatorEmail(executionContext)
	if emailError != nil {
		application.logger.Warn(operatorEmailUnavailableMessageConstant, zap.Error(emailError))
		operatorEmail = ""
	}

	deletionService, serviceError := branches.NewDeletionService(application.logger, gateway, branches.DeletionOptions{
		RemoteDeletionEnabled: toolConfiguration.RemoteDeletion,
		DryRun:                toolConfiguration.DryRun,
	})
	if serviceError != nil {
		return serviceError
	}

	activeSession, sessionError := session.New(snapshot, deletionService, session.Options{
		Order:         toolConfiguration.DeletionOrder,
		FailurePolicy: toolConfiguration.FailurePolicy,
		OperatorEmail: operatorEmail,
	})
	if sessionError != nil {
		return sessionError
	}

	model, modelError := ui.NewModel(executionContext, activeSession, application.logger, ui.Options{
		PollInterval: toolConfiguration.PollInterval,
		DryRun:       toolConfiguration.DryRun,
	})
	if modelError != nil {
		return modelError
	}

	application.logger.Info(
		sessionStartedMessageConstant,
		zap.String(logFieldWorkingDirectoryConstant, workingDirectory),
		zap.Int(logFieldBranchCountConstant, len(snapshot)),
		zap.String(logFieldOperatorEmailConstant, operatorEmail),
	)

	if _, programError := application.runProgram(executionContext, model); programError != nil {
		return fmt.Errorf(programErrorTemplateConstant, programError)
	}

	application.logger.Info(
		sessionFinishedMessageConstant,
		zap.Int(logFieldDeletedCountConstant, len(activeSession.Deleted())),
		zap.Int(logFieldFailedCountConstant, len(activeSession.Failures())),
		zap.Int(logFieldSkippedCountConstant, len(activeSession.Skipped())),
		zap.Bool(logFieldAbortedConstant, activeSession.Aborted()),
	)

	_, writeError := fmt.Fprint(command.OutOrStdout(), ui.RenderSummary(activeSession, toolConfiguration.DryRun))
	return writeError
}

func runTerminalProgram(executionContext context.Context, model tea.Model) (tea.Model, error) {
	return tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(executionContext)).Run()
}

func (application *Application) flushLogger() error {
	return application.syncLoggerInstance(application.logger)
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

func localFlagChanged(command *cobra.Command, flagName string) bool {
	return command != nil && command.Flags().Changed(flagName)
}
