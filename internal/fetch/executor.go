package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/temirov/forgehealth/internal/provider"
	"github.com/temirov/forgehealth/internal/taxonomy"
)

const (
	transportNotConfiguredMessageConstant  = "request transport not configured"
	classifierNotConfiguredMessageConstant = "response classifier not configured"
	providerNotConfiguredMessageConstant   = "provider not configured"

	authorizationHeaderNameConstant    = "Authorization"
	userAgentHeaderNameConstant        = "User-Agent"
	authorizationValueTemplateConstant = "token %s"

	requestStartedLogMessageConstant   = "provider request started"
	requestSucceededLogMessageConstant = "provider request succeeded"
	requestFailedLogMessageConstant    = "provider request failed"

	requestIdentifierLogFieldConstant  = "request_id"
	providerIdentifierLogFieldConstant = "provider_id"
	targetURLLogFieldConstant          = "target_url"
	statusCodeLogFieldConstant         = "status_code"
)

var (
	// ErrTransportNotConfigured indicates construction without a transport.
	ErrTransportNotConfigured = errors.New(transportNotConfiguredMessageConstant)
	// ErrClassifierNotConfigured indicates construction without a classifier.
	ErrClassifierNotConfigured = errors.New(classifierNotConfiguredMessageConstant)
	// ErrProviderNotConfigured indicates Fetch was invoked without a provider.
	ErrProviderNotConfigured = errors.New(providerNotConfiguredMessageConstant)
)

// Executor performs outbound provider requests, applying the unified
// cancellation/timeout signal and routing failures through the classifier.
type Executor struct {
	transport  RequestTransport
	classifier *ResponseClassifier
	logger     *zap.Logger
}

// NewExecutor constructs an executor over the supplied collaborators. The
// logger may be nil; lifecycle logging is then discarded.
func NewExecutor(transport RequestTransport, classifier *ResponseClassifier, logger *zap.Logger) (*Executor, error) {
	if transport == nil {
		return nil, ErrTransportNotConfigured
	}
	if classifier == nil {
		return nil, ErrClassifierNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{transport: transport, classifier: classifier, logger: logger}, nil
}

// Fetch issues the request described by targetURL and details on behalf of the
// provider. A successful response resets the provider's exception count and is
// returned unread; the caller owns the body, and closing it releases the
// request's cancellation signal. Failures surface as taxonomy errors, or as
// the original failure when classification absorbed it.
func (executor *Executor) Fetch(subjectProvider *provider.Provider, targetURL string, details RequestDetails, options FetchOptions) (*http.Response, error) {
	if subjectProvider == nil {
		return nil, ErrProviderNotConfigured
	}

	// Pre-signaled cancellation fails before any network activity.
	if options.Cancellation != nil && options.Cancellation.Err() != nil {
		return nil, taxonomy.CancellationError{Cause: options.Cancellation.Err()}
	}

	requestContext, cancelRequestContext := options.deriveRequestContext()
	cancellationTransferred := false
	defer func() {
		if !cancellationTransferred {
			cancelRequestContext()
		}
	}()

	request, requestBuildError := executor.buildRequest(requestContext, subjectProvider, targetURL, details, options)
	if requestBuildError != nil {
		return nil, requestBuildError
	}

	requestIdentifier := uuid.NewString()
	executor.logger.Debug(requestStartedLogMessageConstant,
		zap.String(requestIdentifierLogFieldConstant, requestIdentifier),
		zap.String(providerIdentifierLogFieldConstant, subjectProvider.ID),
		zap.String(targetURLLogFieldConstant, targetURL),
	)

	response, transportError := executor.transport.PerformRequest(request)
	if transportError != nil {
		return nil, executor.handleTransportFailure(requestContext, subjectProvider, requestIdentifier, transportError)
	}

	if response.StatusCode >= http.StatusOK && response.StatusCode < http.StatusMultipleChoices {
		subjectProvider.ResetRequestExceptionCount()
		executor.logger.Debug(requestSucceededLogMessageConstant,
			zap.String(requestIdentifierLogFieldConstant, requestIdentifier),
			zap.String(providerIdentifierLogFieldConstant, subjectProvider.ID),
			zap.Int(statusCodeLogFieldConstant, response.StatusCode),
		)
		// The body outlives this call; the request context must stay live
		// until the caller settles the stream.
		response.Body = &contextReleasingBody{ReadCloser: response.Body, releaseContext: cancelRequestContext}
		cancellationTransferred = true
		return response, nil
	}

	statusError := newStatusError(response)
	executor.logger.Debug(requestFailedLogMessageConstant,
		zap.String(requestIdentifierLogFieldConstant, requestIdentifier),
		zap.String(providerIdentifierLogFieldConstant, subjectProvider.ID),
		zap.Int(statusCodeLogFieldConstant, statusError.StatusCode),
	)

	classificationError := executor.classifier.Classify(subjectProvider, statusError)
	if classificationError != nil {
		return nil, classificationError
	}

	// Classification absorbed the status after telemetry; the original
	// failure still reaches the caller.
	return nil, statusError
}

func (executor *Executor) buildRequest(requestContext context.Context, subjectProvider *provider.Provider, targetURL string, details RequestDetails, options FetchOptions) (*http.Request, error) {
	requestMethod := details.Method
	if len(requestMethod) == 0 {
		requestMethod = http.MethodGet
	}

	var requestBody io.Reader
	if len(details.Body) > 0 {
		requestBody = bytes.NewReader(details.Body)
	}

	request, requestError := http.NewRequestWithContext(requestContext, requestMethod, targetURL, requestBody)
	if requestError != nil {
		return nil, requestError
	}

	for headerName, headerValues := range details.Header {
		for _, headerValue := range headerValues {
			request.Header.Add(headerName, headerValue)
		}
	}
	if len(options.UserAgent) > 0 {
		request.Header.Set(userAgentHeaderNameConstant, options.UserAgent)
	}
	if len(subjectProvider.Token) > 0 {
		request.Header.Set(authorizationHeaderNameConstant, fmt.Sprintf(authorizationValueTemplateConstant, subjectProvider.Token))
	}

	return request, nil
}

// handleTransportFailure wraps abort-shaped transport failures as
// CancellationError and routes everything else through the classifier,
// re-raising the original failure when classification absorbed it.
func (executor *Executor) handleTransportFailure(requestContext context.Context, subjectProvider *provider.Provider, requestIdentifier string, transportError error) error {
	executor.logger.Debug(requestFailedLogMessageConstant,
		zap.String(requestIdentifierLogFieldConstant, requestIdentifier),
		zap.String(providerIdentifierLogFieldConstant, subjectProvider.ID),
		zap.Error(transportError),
	)

	if cancellationIndicated(requestContext, transportError) {
		return taxonomy.CancellationError{Cause: transportError}
	}

	classificationError := executor.classifier.Classify(subjectProvider, transportError)
	if classificationError != nil {
		return classificationError
	}
	return transportError
}

func cancellationIndicated(requestContext context.Context, failure error) bool {
	if requestContext.Err() != nil {
		return true
	}
	return errors.Is(failure, context.Canceled) || errors.Is(failure, context.DeadlineExceeded)
}

// contextReleasingBody ties release of the request context, and with it the
// timeout timer, to settlement of the response body stream.
type contextReleasingBody struct {
	io.ReadCloser
	releaseContext context.CancelFunc
}

// Close closes the underlying body and releases the request context.
func (body *contextReleasingBody) Close() error {
	closeError := body.ReadCloser.Close()
	body.releaseContext()
	return closeError
}
