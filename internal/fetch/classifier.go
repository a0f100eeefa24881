package fetch

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/temirov/forgehealth/internal/provider"
	"github.com/temirov/forgehealth/internal/taxonomy"
)

const (
	// aggregatorIdentityConstant labels the ambiguous non-rate-limit 403 case.
	// That rejection is attributed to the aggregating host rather than the
	// originating provider, unlike the 401 case which carries the provider id.
	aggregatorIdentityConstant = "forgehealth"

	rateLimitIndicatorPhraseConstant = "rate limit exceeded"
	timeoutIndicatorPhraseConstant   = "timeout"
	rateLimitResetHeaderNameConstant = "x-ratelimit-reset"

	classificationScopeConstant = "fetch.ResponseClassifier"

	providerDegradedMessageTemplateConstant               = "%s may be experiencing issues right now."
	providerDegradedWithStatusPageMessageTemplateConstant = "%s may be experiencing issues right now. Status: %s"

	notifierNotConfiguredMessageConstant    = "health notifier not configured"
	diagnosticsNotConfiguredMessageConstant = "diagnostic logger not configured"
)

var (
	// ErrNotifierNotConfigured indicates construction without a health notifier.
	ErrNotifierNotConfigured = errors.New(notifierNotConfiguredMessageConstant)
	// ErrDiagnosticsNotConfigured indicates construction without a diagnostic logger.
	ErrDiagnosticsNotConfigured = errors.New(diagnosticsNotConfiguredMessageConstant)
)

// ResponseClassifier maps failed provider requests onto the taxonomy and
// performs provider-health side effects for absorbed statuses.
type ResponseClassifier struct {
	notifier    provider.HealthNotifier
	diagnostics DiagnosticLogger
}

// NewResponseClassifier constructs a classifier over the supplied collaborators.
func NewResponseClassifier(notifier provider.HealthNotifier, diagnostics DiagnosticLogger) (*ResponseClassifier, error) {
	if notifier == nil {
		return nil, ErrNotifierNotConfigured
	}
	if diagnostics == nil {
		return nil, ErrDiagnosticsNotConfigured
	}
	return &ResponseClassifier{notifier: notifier, diagnostics: diagnostics}, nil
}

// Classify inspects the supplied failure and returns a taxonomy error for
// conditions fatal to the call. A nil return means the failure was absorbed
// after telemetry and warnings; the executor then re-raises the original
// failure itself so callers keep full observability.
func (classifier *ResponseClassifier) Classify(subjectProvider *provider.Provider, failure error) error {
	cancellationError := taxonomy.CancellationError{}
	if errors.As(failure, &cancellationError) {
		return failure
	}

	statusError := StatusError{}
	if !errors.As(failure, &statusError) {
		classifier.surfaceDebugFailure(statusError, failure)
		return nil
	}

	switch statusError.StatusCode {
	case http.StatusNotFound, http.StatusGone, http.StatusUnprocessableEntity:
		return taxonomy.NotFoundError{Cause: failure}
	case http.StatusUnauthorized:
		return taxonomy.AuthenticationError{
			ProviderID: subjectProvider.ID,
			Reason:     taxonomy.AuthenticationReasonUnauthorized,
			Cause:      failure,
		}
	case http.StatusForbidden:
		if rateLimitIndicated(statusError) {
			return taxonomy.RateLimitError{
				Cause:   failure,
				Token:   subjectProvider.Token,
				ResetAt: parseRateLimitReset(statusError.Header),
			}
		}
		return taxonomy.AuthenticationError{
			ProviderID: aggregatorIdentityConstant,
			Reason:     taxonomy.AuthenticationReasonForbidden,
			Cause:      failure,
		}
	case http.StatusInternalServerError:
		classifier.diagnostics.LogError(failure, classificationScopeConstant)
		if len(statusError.Payload) > 0 {
			subjectProvider.TrackRequestException()
			classifier.notifier.ShowProviderDegradedWarning(buildDegradedWarningMessage(subjectProvider))
		}
		return nil
	case http.StatusBadGateway:
		classifier.diagnostics.LogError(failure, classificationScopeConstant)
		if timeoutIndicated(statusError) {
			subjectProvider.TrackRequestException()
			classifier.notifier.ShowProviderTimeoutWarning(subjectProvider.Name)
		}
	case http.StatusServiceUnavailable:
		classifier.diagnostics.LogError(failure, classificationScopeConstant)
		subjectProvider.TrackRequestException()
		classifier.notifier.ShowProviderDegradedWarning(buildDegradedWarningMessage(subjectProvider))
		return nil
	default:
		if statusError.StatusCode >= http.StatusBadRequest && statusError.StatusCode < http.StatusInternalServerError {
			return taxonomy.ClientError{Cause: failure}
		}
	}

	classifier.surfaceDebugFailure(statusError, failure)
	return nil
}

// surfaceDebugFailure shows a generic failure message when debug diagnostics
// are active, preferring the captured payload over the plain error text.
func (classifier *ResponseClassifier) surfaceDebugFailure(statusError StatusError, failure error) {
	if !classifier.diagnostics.IsDebugModeActive() {
		return
	}
	failureMessage := failure.Error()
	if len(statusError.Payload) > 0 {
		failureMessage = statusError.Payload
	}
	classifier.notifier.ShowGenericErrorMessage(failureMessage)
}

// rateLimitIndicated reports whether the failing response looks like a rate
// limit rejection. Detection is a substring match on free text; keep every
// caller behind this predicate so it can be hardened in one place.
func rateLimitIndicated(statusError StatusError) bool {
	combinedText := strings.ToLower(statusError.Message + " " + statusError.Payload)
	return strings.Contains(combinedText, rateLimitIndicatorPhraseConstant)
}

// timeoutIndicated reports whether the failing response message mentions a timeout.
func timeoutIndicated(statusError StatusError) bool {
	combinedText := strings.ToLower(statusError.Message + " " + statusError.Payload)
	return strings.Contains(combinedText, timeoutIndicatorPhraseConstant)
}

// parseRateLimitReset reads the x-ratelimit-reset header as epoch seconds.
// Missing or malformed values yield nil; a parse failure never escapes.
func parseRateLimitReset(header http.Header) *int64 {
	if header == nil {
		return nil
	}
	headerValue := strings.TrimSpace(header.Get(rateLimitResetHeaderNameConstant))
	if len(headerValue) == 0 {
		return nil
	}
	resetInstant, parseError := strconv.ParseInt(headerValue, 10, 64)
	if parseError != nil {
		return nil
	}
	return &resetInstant
}

func buildDegradedWarningMessage(subjectProvider *provider.Provider) string {
	if len(subjectProvider.StatusPageURL) == 0 {
		return fmt.Sprintf(providerDegradedMessageTemplateConstant, subjectProvider.Name)
	}
	return fmt.Sprintf(providerDegradedWithStatusPageMessageTemplateConstant, subjectProvider.Name, subjectProvider.StatusPageURL)
}
