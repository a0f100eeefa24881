package check_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/forgehealth/cmd/cli/check"
	"github.com/temirov/forgehealth/internal/provider"
)

const (
	healthyProviderIdentifierConstant  = "healthy"
	rejectedProviderIdentifierConstant = "rejected"
	degradedProviderIdentifierConstant = "degraded"
	healthyOutputFragmentConstant      = "OK: healthy"
	rejectedOutputFragmentConstant     = "FAILED: rejected"
	degradedOutputFragmentConstant     = "DEGRADED: degraded"
)

type recordingHealthNotifier struct {
	notifierMutex    sync.Mutex
	degradedMessages []string
	timeoutProviders []string
	genericMessages  []string
}

func (notifier *recordingHealthNotifier) ShowProviderDegradedWarning(message string) {
	notifier.notifierMutex.Lock()
	defer notifier.notifierMutex.Unlock()
	notifier.degradedMessages = append(notifier.degradedMessages, message)
}

func (notifier *recordingHealthNotifier) ShowProviderTimeoutWarning(providerName string) {
	notifier.notifierMutex.Lock()
	defer notifier.notifierMutex.Unlock()
	notifier.timeoutProviders = append(notifier.timeoutProviders, providerName)
}

func (notifier *recordingHealthNotifier) ShowGenericErrorMessage(message string) {
	notifier.notifierMutex.Lock()
	defer notifier.notifierMutex.Unlock()
	notifier.genericMessages = append(notifier.genericMessages, message)
}

func buildCheckCommand(testInstance *testing.T, providerConfigurations []provider.Configuration, notifier provider.HealthNotifier) (*bytes.Buffer, func() error) {
	testInstance.Helper()

	builder := check.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() check.CommandConfiguration { return check.CommandConfiguration{TimeoutMilliseconds: 2000} },
		ProvidersProvider:     func() []provider.Configuration { return providerConfigurations },
		NotifierProvider:      func() provider.HealthNotifier { return notifier },
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetArgs([]string{})

	return outputBuffer, command.Execute
}

func TestCheckCommandRequiresProviders(testInstance *testing.T) {
	_, executeCommand := buildCheckCommand(testInstance, nil, &recordingHealthNotifier{})
	require.Error(testInstance, executeCommand())
}

func TestCheckCommandReportsHealthyProvider(testInstance *testing.T) {
	providerServer := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		responseWriter.WriteHeader(http.StatusNoContent)
	}))
	defer providerServer.Close()

	outputBuffer, executeCommand := buildCheckCommand(testInstance, []provider.Configuration{
		{ID: healthyProviderIdentifierConstant, BaseURL: providerServer.URL},
	}, &recordingHealthNotifier{})

	require.NoError(testInstance, executeCommand())
	require.Contains(testInstance, outputBuffer.String(), healthyOutputFragmentConstant)
}

func TestCheckCommandFailsOnAuthenticationError(testInstance *testing.T) {
	providerServer := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		responseWriter.WriteHeader(http.StatusUnauthorized)
	}))
	defer providerServer.Close()

	outputBuffer, executeCommand := buildCheckCommand(testInstance, []provider.Configuration{
		{ID: rejectedProviderIdentifierConstant, BaseURL: providerServer.URL},
	}, &recordingHealthNotifier{})

	require.Error(testInstance, executeCommand())
	require.Contains(testInstance, outputBuffer.String(), rejectedOutputFragmentConstant)
}

func TestCheckCommandGradesServerOutageAsDegraded(testInstance *testing.T) {
	providerServer := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		http.Error(responseWriter, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer providerServer.Close()

	notifier := &recordingHealthNotifier{}
	outputBuffer, executeCommand := buildCheckCommand(testInstance, []provider.Configuration{
		{ID: degradedProviderIdentifierConstant, BaseURL: providerServer.URL},
	}, notifier)

	require.NoError(testInstance, executeCommand())
	require.Contains(testInstance, outputBuffer.String(), degradedOutputFragmentConstant)
	require.Len(testInstance, notifier.degradedMessages, 1)
}

func TestCheckCommandReportsMixedProviderOutcomes(testInstance *testing.T) {
	healthyServer := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		responseWriter.WriteHeader(http.StatusOK)
	}))
	defer healthyServer.Close()

	rejectingServer := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		responseWriter.WriteHeader(http.StatusUnauthorized)
	}))
	defer rejectingServer.Close()

	outputBuffer, executeCommand := buildCheckCommand(testInstance, []provider.Configuration{
		{ID: healthyProviderIdentifierConstant, BaseURL: healthyServer.URL},
		{ID: rejectedProviderIdentifierConstant, BaseURL: rejectingServer.URL},
	}, &recordingHealthNotifier{})

	executionError := executeCommand()
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "1 provider(s) failed")
	require.Contains(testInstance, outputBuffer.String(), healthyOutputFragmentConstant)
	require.Contains(testInstance, outputBuffer.String(), rejectedOutputFragmentConstant)
}
