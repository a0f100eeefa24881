package branch

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/forgehealth/internal/fetch"
	"github.com/temirov/forgehealth/internal/gitrepo"
	"github.com/temirov/forgehealth/internal/health"
	"github.com/temirov/forgehealth/internal/provider"
	"github.com/temirov/forgehealth/internal/taxonomy"
)

const (
	commandUseNameConstant          = "branch"
	commandShortDescriptionConstant = "Verify the current branch is visible on a provider"
	commandLongDescriptionConstant  = "branch resolves the branch checked out in a local repository and probes the selected provider's branch endpoint through the request layer to confirm the branch exists remotely."
	commandExampleConstant          = "forgehealth branch --provider github --repository ~/Development/example"

	providerFlagNameConstant    = "provider"
	providerFlagUsageConstant   = "Identifier of the configured provider to query."
	repositoryFlagNameConstant  = "repository"
	repositoryFlagUsageConstant = "Path to the local repository."
	timeoutFlagNameConstant     = "timeout-ms"
	timeoutFlagUsageConstant    = "Per-request timeout in milliseconds."

	defaultRepositoryPathConstant      = "."
	defaultTimeoutMillisecondsConstant = int64(30000)
	defaultBranchPathTemplateConstant  = "/branches/%s"

	providerRequiredMessageConstant        = "provider identifier is required; pass --provider or configure a default"
	gitExecutorUnavailableMessageConstant  = "git executor not available"
	providerUnknownMessageTemplateConstant = "provider %q is not configured"
	detachedHeadMessageConstant            = "repository is in a detached HEAD state; no branch to verify\n"
	branchVisibleMessageTemplateConstant   = "BRANCH OK: %s is visible on %s\n"
	branchMissingMessageTemplateConstant   = "BRANCH MISSING: %s was not found on %s\n"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandConfiguration describes the persisted settings for the branch command.
type CommandConfiguration struct {
	DefaultProvider     string `mapstructure:"default_provider"`
	TimeoutMilliseconds int64  `mapstructure:"timeout_ms"`
}

// CommandBuilder assembles the branch command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	ProvidersProvider     func() []provider.Configuration
	GitExecutorProvider   func() (gitrepo.GitExecutor, error)
	NotifierProvider      func() provider.HealthNotifier
	TransportProvider     func() fetch.RequestTransport
	DebugModeProvider     func() bool
}

// Build constructs the branch command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseNameConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		RunE:    builder.run,
	}
	command.Flags().String(providerFlagNameConstant, "", providerFlagUsageConstant)
	command.Flags().String(repositoryFlagNameConstant, defaultRepositoryPathConstant, repositoryFlagUsageConstant)
	command.Flags().Int64(timeoutFlagNameConstant, defaultTimeoutMillisecondsConstant, timeoutFlagUsageConstant)
	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	providerIdentifier := builder.resolveProviderIdentifier(command)
	if len(providerIdentifier) == 0 {
		return errors.New(providerRequiredMessageConstant)
	}

	providerConfiguration, providerFound := builder.lookupProviderConfiguration(providerIdentifier)
	if !providerFound {
		return fmt.Errorf(providerUnknownMessageTemplateConstant, providerIdentifier)
	}

	branchName, branchPresent, branchError := builder.resolveCurrentBranch(command)
	if branchError != nil {
		return branchError
	}
	if !branchPresent {
		fmt.Fprint(command.OutOrStdout(), detachedHeadMessageConstant)
		return nil
	}

	return builder.verifyBranchOnProvider(command, providerConfiguration, branchName)
}

func (builder *CommandBuilder) resolveCurrentBranch(command *cobra.Command) (string, bool, error) {
	if builder.GitExecutorProvider == nil {
		return "", false, errors.New(gitExecutorUnavailableMessageConstant)
	}
	gitExecutor, executorError := builder.GitExecutorProvider()
	if executorError != nil {
		return "", false, executorError
	}

	repositoryReader, readerError := gitrepo.NewRepositoryReader(gitExecutor)
	if readerError != nil {
		return "", false, readerError
	}

	repositoryPath, _ := command.Flags().GetString(repositoryFlagNameConstant)
	return repositoryReader.CurrentBranchName(command.Context(), repositoryPath)
}

// verifyBranchOnProvider probes the provider's branch endpoint. A NotFound
// taxonomy error reports the branch as missing rather than failing the command.
func (builder *CommandBuilder) verifyBranchOnProvider(command *cobra.Command, providerConfiguration provider.Configuration, branchName string) error {
	materializedProvider, materializationError := providerConfiguration.Materialize(nil)
	if materializationError != nil {
		return materializationError
	}

	executor, executorError := builder.buildExecutor()
	if executorError != nil {
		return executorError
	}

	branchTargetURL := materializedProvider.BaseURL + fmt.Sprintf(builder.resolveBranchPathTemplate(providerConfiguration), url.PathEscape(branchName))
	response, fetchError := executor.Fetch(materializedProvider, branchTargetURL, fetch.RequestDetails{}, fetch.FetchOptions{
		Timeout: builder.resolveTimeout(command),
	})
	if fetchError != nil {
		notFoundError := taxonomy.NotFoundError{}
		if errors.As(fetchError, &notFoundError) {
			fmt.Fprintf(command.OutOrStdout(), branchMissingMessageTemplateConstant, branchName, materializedProvider.Name)
			return nil
		}
		return fetchError
	}

	_ = response.Body.Close()
	fmt.Fprintf(command.OutOrStdout(), branchVisibleMessageTemplateConstant, branchName, materializedProvider.Name)
	return nil
}

func (builder *CommandBuilder) resolveProviderIdentifier(command *cobra.Command) string {
	if command != nil {
		if flagValue, flagError := command.Flags().GetString(providerFlagNameConstant); flagError == nil {
			trimmedFlagValue := strings.TrimSpace(flagValue)
			if len(trimmedFlagValue) > 0 {
				return trimmedFlagValue
			}
		}
	}
	if builder.ConfigurationProvider != nil {
		return strings.TrimSpace(builder.ConfigurationProvider().DefaultProvider)
	}
	return ""
}

func (builder *CommandBuilder) lookupProviderConfiguration(providerIdentifier string) (provider.Configuration, bool) {
	if builder.ProvidersProvider == nil {
		return provider.Configuration{}, false
	}
	for _, providerConfiguration := range builder.ProvidersProvider() {
		if strings.EqualFold(strings.TrimSpace(providerConfiguration.ID), providerIdentifier) {
			return providerConfiguration, true
		}
	}
	return provider.Configuration{}, false
}

func (builder *CommandBuilder) resolveBranchPathTemplate(providerConfiguration provider.Configuration) string {
	trimmedTemplate := strings.TrimSpace(providerConfiguration.BranchPathTemplate)
	if len(trimmedTemplate) == 0 {
		return defaultBranchPathTemplateConstant
	}
	return trimmedTemplate
}

func (builder *CommandBuilder) resolveTimeout(command *cobra.Command) time.Duration {
	timeoutMilliseconds := defaultTimeoutMillisecondsConstant
	if builder.ConfigurationProvider != nil {
		if configuredTimeout := builder.ConfigurationProvider().TimeoutMilliseconds; configuredTimeout > 0 {
			timeoutMilliseconds = configuredTimeout
		}
	}
	if command != nil && command.Flags().Changed(timeoutFlagNameConstant) {
		if flagTimeout, flagError := command.Flags().GetInt64(timeoutFlagNameConstant); flagError == nil && flagTimeout > 0 {
			timeoutMilliseconds = flagTimeout
		}
	}
	return time.Duration(timeoutMilliseconds) * time.Millisecond
}

func (builder *CommandBuilder) buildExecutor() (*fetch.Executor, error) {
	logger := builder.resolveLogger()

	notifier := builder.resolveNotifier(logger)
	diagnostics := fetch.NewZapDiagnosticLogger(logger, builder.resolveDebugMode())

	classifier, classifierError := fetch.NewResponseClassifier(notifier, diagnostics)
	if classifierError != nil {
		return nil, classifierError
	}

	return fetch.NewExecutor(builder.resolveTransport(), classifier, logger)
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider != nil {
		if logger := builder.LoggerProvider(); logger != nil {
			return logger
		}
	}
	return zap.NewNop()
}

func (builder *CommandBuilder) resolveNotifier(logger *zap.Logger) provider.HealthNotifier {
	if builder.NotifierProvider != nil {
		if notifier := builder.NotifierProvider(); notifier != nil {
			return notifier
		}
	}
	return health.NewConsoleHealthNotifier(logger)
}

func (builder *CommandBuilder) resolveTransport() fetch.RequestTransport {
	if builder.TransportProvider != nil {
		if transport := builder.TransportProvider(); transport != nil {
			return transport
		}
	}
	return fetch.NewHTTPClientTransport(nil)
}

func (builder *CommandBuilder) resolveDebugMode() bool {
	if builder.DebugModeProvider == nil {
		return false
	}
	return builder.DebugModeProvider()
}
