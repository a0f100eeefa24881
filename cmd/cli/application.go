package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	branchcmd "github.com/temirov/forgehealth/cmd/cli/branch"
	checkcmd "github.com/temirov/forgehealth/cmd/cli/check"
	"github.com/temirov/forgehealth/internal/execshell"
	"github.com/temirov/forgehealth/internal/gitrepo"
	"github.com/temirov/forgehealth/internal/health"
	"github.com/temirov/forgehealth/internal/provider"
	"github.com/temirov/forgehealth/internal/utils"
)

const (
	applicationNameConstant             = "forgehealth"
	applicationShortDescriptionConstant = "Command-line interface for provider health checks"
	applicationLongDescriptionConstant  = "forgehealth probes code-hosting providers, normalizes their failures into a stable error taxonomy, and surfaces provider-degradation warnings."

	configFileFlagNameConstant  = "config"
	configFileFlagUsageConstant = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant    = "log-level"
	logLevelFlagUsageConstant   = "Override the configured log level."
	logFormatFlagNameConstant   = "log-format"
	logFormatFlagUsageConstant  = "Override the configured log format (structured or console)."

	environmentPrefixConstant              = "FORGEHEALTH"
	configurationNameConstant              = "config"
	configurationTypeConstant              = "yaml"
	defaultConfigurationSearchPathConstant = "."

	commonLogLevelConfigKeyConstant  = "common.log_level"
	commonLogFormatConfigKeyConstant = "common.log_format"

	configurationLoadErrorTemplateConstant = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant    = "unable to create logger: %w"

	rootCommandInfoMessageConstant    = "forgehealth CLI executed"
	logFieldCommandNameConstant       = "command_name"
	logFieldConfigurationFileConstant = "config_file"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common    ApplicationCommonConfiguration `mapstructure:"common"`
	Providers []provider.Configuration       `mapstructure:"providers"`
	Tools     ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration holds configuration for CLI subcommands.
type ApplicationToolsConfiguration struct {
	Check  checkcmd.CommandConfiguration  `mapstructure:"check"`
	Branch branchcmd.CommandConfiguration `mapstructure:"branch"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	commandContextAccessor utils.CommandContextAccessor
	notifierOnce           sync.Once
	sharedNotifier         provider.HealthNotifier
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			application.logger.Info(rootCommandInfoMessageConstant, zap.String(logFieldCommandNameConstant, command.Name()))
			return command.Help()
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	checkBuilder := checkcmd.CommandBuilder{
		LoggerProvider:        application.loggerProvider,
		ConfigurationProvider: func() checkcmd.CommandConfiguration { return application.configuration.Tools.Check },
		ProvidersProvider:     application.providersProvider,
		NotifierProvider:      application.HealthNotifier,
		DebugModeProvider:     application.debugModeActive,
	}
	if checkCommand, checkBuildError := checkBuilder.Build(); checkBuildError == nil {
		cobraCommand.AddCommand(checkCommand)
	}

	branchBuilder := branchcmd.CommandBuilder{
		LoggerProvider:        application.loggerProvider,
		ConfigurationProvider: func() branchcmd.CommandConfiguration { return application.configuration.Tools.Branch },
		ProvidersProvider:     application.providersProvider,
		GitExecutorProvider:   application.gitExecutorProvider,
		NotifierProvider:      application.HealthNotifier,
		DebugModeProvider:     application.debugModeActive,
	}
	if branchCommand, branchBuildError := branchBuilder.Build(); branchBuildError == nil {
		cobraCommand.AddCommand(branchCommand)
	}

	application.rootCommand = cobraCommand
	return application
}

// Execute runs the root command for the constructed application.
func (application *Application) Execute() error {
	return application.rootCommand.Execute()
}

// RootCommand exposes the assembled cobra command for testing.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

// initializeConfiguration loads settings, applies flag overrides, and builds the logger.
func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatConsole),
	}

	loadedMetadata, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedMetadata

	application.applyFlagOverrides(command.Flags())

	createdLogger, loggerError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerError)
	}
	application.logger = createdLogger

	application.logger.Debug(rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.String(logFieldConfigurationFileConstant, loadedMetadata.ConfigFileUsed),
	)

	if command.Context() != nil {
		command.SetContext(application.commandContextAccessor.WithConfigurationFilePath(command.Context(), application.configurationFilePath))
	}

	return nil
}

// applyFlagOverrides copies explicitly set logging flags over loaded configuration.
func (application *Application) applyFlagOverrides(flagSet *pflag.FlagSet) {
	if flagValue, flagSupplied := changedFlagValue(flagSet, logLevelFlagNameConstant); flagSupplied {
		application.configuration.Common.LogLevel = flagValue
	}
	if flagValue, flagSupplied := changedFlagValue(flagSet, logFormatFlagNameConstant); flagSupplied {
		application.configuration.Common.LogFormat = flagValue
	}
}

func changedFlagValue(flagSet *pflag.FlagSet, flagName string) (string, bool) {
	if flagSet == nil || !flagSet.Changed(flagName) {
		return "", false
	}
	flagValue, flagError := flagSet.GetString(flagName)
	if flagError != nil {
		return "", false
	}
	trimmedFlagValue := strings.TrimSpace(flagValue)
	if len(trimmedFlagValue) == 0 {
		return "", false
	}
	return trimmedFlagValue, true
}

func (application *Application) loggerProvider() *zap.Logger {
	return application.logger
}

func (application *Application) providersProvider() []provider.Configuration {
	return application.configuration.Providers
}

// HealthNotifier returns the warning surface shared by all commands: console
// rendering decorated with Prometheus counters on the default registry. The
// notifier is built once; counter registration must not repeat in-process.
func (application *Application) HealthNotifier() provider.HealthNotifier {
	application.notifierOnce.Do(func() {
		consoleNotifier := health.NewConsoleHealthNotifier(application.logger)
		metricsNotifier, decorationError := health.NewMetricsHealthNotifier(consoleNotifier, prometheus.DefaultRegisterer)
		if decorationError != nil {
			application.sharedNotifier = consoleNotifier
			return
		}
		application.sharedNotifier = metricsNotifier
	})
	return application.sharedNotifier
}

func (application *Application) gitExecutorProvider() (gitrepo.GitExecutor, error) {
	return execshell.NewShellExecutor(execshell.NewOSCommandRunner(), execshell.NewLoggingCommandEventObserver(application.logger))
}

func (application *Application) debugModeActive() bool {
	return utils.LogLevel(application.configuration.Common.LogLevel).EnablesDebugDiagnostics()
}

// Execute constructs the application and runs it, returning the resulting error.
func Execute() error {
	return NewApplication().Execute()
}
