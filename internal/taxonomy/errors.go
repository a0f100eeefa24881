package taxonomy

import "fmt"

const (
	cancellationMessageConstant                   = "operation canceled"
	cancellationWithCauseMessageTemplateConstant  = "operation canceled: %s"
	authenticationMessageTemplateConstant         = "authentication failed for provider %s (%s)"
	authenticationWithCauseTemplateConstant       = "authentication failed for provider %s (%s): %s"
	notFoundMessageConstant                       = "requested resource not found"
	notFoundWithCauseMessageTemplateConstant      = "requested resource not found: %s"
	rateLimitMessageConstant                      = "provider rate limit exceeded"
	rateLimitWithResetMessageTemplateConstant     = "provider rate limit exceeded; resets at %d"
	clientErrorMessageConstant                    = "provider rejected the request"
	clientErrorWithCauseMessageTemplateConstant   = "provider rejected the request: %s"
	unauthorizedAuthenticationReasonValueConstant = "unauthorized"
	forbiddenAuthenticationReasonValueConstant    = "forbidden"
)

// AuthenticationReason distinguishes the HTTP conditions that produce an AuthenticationError.
type AuthenticationReason string

// Authentication reason enumerations.
const (
	AuthenticationReasonUnauthorized AuthenticationReason = AuthenticationReason(unauthorizedAuthenticationReasonValueConstant)
	AuthenticationReasonForbidden    AuthenticationReason = AuthenticationReason(forbiddenAuthenticationReasonValueConstant)
)

// CancellationError reports an operation aborted by the caller or by an elapsed timeout.
type CancellationError struct {
	Cause error
}

// Error describes the cancellation.
func (cancellationError CancellationError) Error() string {
	if cancellationError.Cause == nil {
		return cancellationMessageConstant
	}
	return fmt.Sprintf(cancellationWithCauseMessageTemplateConstant, cancellationError.Cause)
}

// Unwrap exposes the abort cause when one was observed.
func (cancellationError CancellationError) Unwrap() error {
	return cancellationError.Cause
}

// AuthenticationError reports a request rejected for missing or insufficient credentials.
type AuthenticationError struct {
	ProviderID string
	Reason     AuthenticationReason
	Cause      error
}

// Error describes the authentication failure.
func (authenticationError AuthenticationError) Error() string {
	if authenticationError.Cause == nil {
		return fmt.Sprintf(authenticationMessageTemplateConstant, authenticationError.ProviderID, authenticationError.Reason)
	}
	return fmt.Sprintf(authenticationWithCauseTemplateConstant, authenticationError.ProviderID, authenticationError.Reason, authenticationError.Cause)
}

// Unwrap exposes the underlying response failure.
func (authenticationError AuthenticationError) Unwrap() error {
	return authenticationError.Cause
}

// NotFoundError reports a target the provider declined to serve (404, 410, or 422).
type NotFoundError struct {
	Cause error
}

// Error describes the missing resource.
func (notFoundError NotFoundError) Error() string {
	if notFoundError.Cause == nil {
		return notFoundMessageConstant
	}
	return fmt.Sprintf(notFoundWithCauseMessageTemplateConstant, notFoundError.Cause)
}

// Unwrap exposes the underlying response failure.
func (notFoundError NotFoundError) Unwrap() error {
	return notFoundError.Cause
}

// RateLimitError reports a request refused because the provider rate limit was exhausted.
// ResetAt carries the advertised reset instant in epoch seconds when the
// provider supplied a parseable value; it is nil otherwise.
type RateLimitError struct {
	Cause   error
	Token   string
	ResetAt *int64
}

// Error describes the rate limit rejection.
func (rateLimitError RateLimitError) Error() string {
	if rateLimitError.ResetAt == nil {
		return rateLimitMessageConstant
	}
	return fmt.Sprintf(rateLimitWithResetMessageTemplateConstant, *rateLimitError.ResetAt)
}

// Unwrap exposes the underlying response failure.
func (rateLimitError RateLimitError) Unwrap() error {
	return rateLimitError.Cause
}

// ClientError reports any remaining 4xx response that matched no more specific variant.
type ClientError struct {
	Cause error
}

// Error describes the rejection.
func (clientError ClientError) Error() string {
	if clientError.Cause == nil {
		return clientErrorMessageConstant
	}
	return fmt.Sprintf(clientErrorWithCauseMessageTemplateConstant, clientError.Cause)
}

// Unwrap exposes the underlying response failure.
func (clientError ClientError) Unwrap() error {
	return clientError.Cause
}
