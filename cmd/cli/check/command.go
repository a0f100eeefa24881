package check

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/forgehealth/internal/fetch"
	"github.com/temirov/forgehealth/internal/health"
	"github.com/temirov/forgehealth/internal/provider"
	"github.com/temirov/forgehealth/internal/taxonomy"
)

const (
	commandUseNameConstant          = "check"
	commandShortDescriptionConstant = "Probe configured providers and report their health"
	commandLongDescriptionConstant  = "check issues one probe request per configured provider through the request layer, reports per-provider health, and surfaces degradation warnings for transient failures."
	commandExampleConstant          = "forgehealth check --timeout-ms 5000"

	timeoutFlagNameConstant  = "timeout-ms"
	timeoutFlagUsageConstant = "Per-request timeout in milliseconds."

	noProvidersMessageConstant           = "no providers configured"
	healthyResultTemplateConstant        = "OK: %s\n"
	degradedResultTemplateConstant       = "DEGRADED: %s (%v)\n"
	failedResultTemplateConstant         = "FAILED: %s (%v)\n"
	checkFailuresMessageTemplateConstant = "%d provider(s) failed the health probe"

	defaultTimeoutMillisecondsConstant = int64(30000)
	defaultUserAgentConstant           = "forgehealth"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandConfiguration describes the persisted settings for the check command.
type CommandConfiguration struct {
	TimeoutMilliseconds int64  `mapstructure:"timeout_ms"`
	UserAgent           string `mapstructure:"user_agent"`
}

// CommandBuilder assembles the check command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	ProvidersProvider     func() []provider.Configuration
	NotifierProvider      func() provider.HealthNotifier
	TransportProvider     func() fetch.RequestTransport
	DebugModeProvider     func() bool
}

// Build constructs the check command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseNameConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		RunE:    builder.run,
	}
	command.Flags().Int64(timeoutFlagNameConstant, defaultTimeoutMillisecondsConstant, timeoutFlagUsageConstant)
	return command, nil
}

type probeResult struct {
	providerName string
	failure      error
	fatal        bool
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	providerConfigurations := builder.resolveProviders()
	if len(providerConfigurations) == 0 {
		return errors.New(noProvidersMessageConstant)
	}

	executor, executorError := builder.buildExecutor()
	if executorError != nil {
		return executorError
	}

	requestTimeout := builder.resolveTimeout(command)
	userAgent := builder.resolveUserAgent()

	probeResults := make([]probeResult, len(providerConfigurations))
	var probeGroup sync.WaitGroup
	for providerIndex, providerConfiguration := range providerConfigurations {
		probeGroup.Add(1)
		go func(resultIndex int, configuration provider.Configuration) {
			defer probeGroup.Done()
			probeResults[resultIndex] = builder.probeProvider(executor, configuration, requestTimeout, userAgent)
		}(providerIndex, providerConfiguration)
	}
	probeGroup.Wait()

	fatalFailureCount := 0
	for _, result := range probeResults {
		switch {
		case result.failure == nil:
			fmt.Fprintf(command.OutOrStdout(), healthyResultTemplateConstant, result.providerName)
		case result.fatal:
			fatalFailureCount++
			fmt.Fprintf(command.OutOrStdout(), failedResultTemplateConstant, result.providerName, result.failure)
		default:
			fmt.Fprintf(command.OutOrStdout(), degradedResultTemplateConstant, result.providerName, result.failure)
		}
	}

	if fatalFailureCount > 0 {
		return fmt.Errorf(checkFailuresMessageTemplateConstant, fatalFailureCount)
	}
	return nil
}

// probeProvider issues one probe request and grades the outcome. Taxonomy
// errors are fatal to the probe; absorbed transient failures re-raised by the
// executor grade as degraded only.
func (builder *CommandBuilder) probeProvider(executor *fetch.Executor, configuration provider.Configuration, requestTimeout time.Duration, userAgent string) probeResult {
	materializedProvider, materializationError := configuration.Materialize(nil)
	if materializationError != nil {
		return probeResult{providerName: configuration.ID, failure: materializationError, fatal: true}
	}

	probeURL := materializedProvider.BaseURL + configuration.ResolvedProbePath()
	response, fetchError := executor.Fetch(materializedProvider, probeURL, fetch.RequestDetails{}, fetch.FetchOptions{
		Timeout:   requestTimeout,
		UserAgent: userAgent,
	})
	if fetchError != nil {
		return probeResult{providerName: materializedProvider.Name, failure: fetchError, fatal: isFatalProbeFailure(fetchError)}
	}

	_ = response.Body.Close()
	return probeResult{providerName: materializedProvider.Name}
}

func isFatalProbeFailure(failure error) bool {
	cancellationError := taxonomy.CancellationError{}
	authenticationError := taxonomy.AuthenticationError{}
	notFoundError := taxonomy.NotFoundError{}
	rateLimitError := taxonomy.RateLimitError{}
	clientError := taxonomy.ClientError{}
	return errors.As(failure, &cancellationError) ||
		errors.As(failure, &authenticationError) ||
		errors.As(failure, &notFoundError) ||
		errors.As(failure, &rateLimitError) ||
		errors.As(failure, &clientError)
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

func (builder *CommandBuilder) resolveProviders() []provider.Configuration {
	if builder.ProvidersProvider == nil {
		return nil
	}
	return builder.ProvidersProvider()
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

func (builder *CommandBuilder) resolveUserAgent() string {
	if builder.ConfigurationProvider != nil {
		if configuredUserAgent := builder.ConfigurationProvider().UserAgent; len(configuredUserAgent) > 0 {
			return configuredUserAgent
		}
	}
	return defaultUserAgentConstant
}
