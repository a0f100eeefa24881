package provider

import (
	"sync/atomic"
	"time"
)

// Provider identifies one remote code-hosting integration and carries its
// mutable exception-tracking state. The request layer reads identity and
// token fields and invokes the tracking methods; it never stores a Provider.
type Provider struct {
	ID            string
	Name          string
	BaseURL       string
	StatusPageURL string
	Token         string

	requestExceptionCount atomic.Int64
	lastExceptionReset    atomic.Int64
}

// TrackRequestException records one failed provider request. Increments are
// atomic so concurrent calls for the same provider never lose updates.
func (subjectProvider *Provider) TrackRequestException() {
	subjectProvider.requestExceptionCount.Add(1)
}

// ResetRequestExceptionCount clears the tracked exception count, signaling the
// provider recovered, and records the reset instant.
func (subjectProvider *Provider) ResetRequestExceptionCount() {
	subjectProvider.requestExceptionCount.Store(0)
	subjectProvider.lastExceptionReset.Store(time.Now().Unix())
}

// RequestExceptionCount reports the exceptions tracked since the last reset.
func (subjectProvider *Provider) RequestExceptionCount() int64 {
	return subjectProvider.requestExceptionCount.Load()
}

// LastExceptionReset reports when the exception count was last cleared. The
// zero time indicates the count was never reset.
func (subjectProvider *Provider) LastExceptionReset() time.Time {
	resetInstant := subjectProvider.lastExceptionReset.Load()
	if resetInstant == 0 {
		return time.Time{}
	}
	return time.Unix(resetInstant, 0)
}

// HealthNotifier receives provider-degradation signals destined for an
// external notification surface. The request layer consumes this interface
// and never implements it.
type HealthNotifier interface {
	// ShowProviderDegradedWarning surfaces a generic service-degradation warning.
	ShowProviderDegradedWarning(message string)
	// ShowProviderTimeoutWarning surfaces a provider-specific timeout warning.
	ShowProviderTimeoutWarning(providerName string)
	// ShowGenericErrorMessage surfaces a diagnostic failure message in debug mode.
	ShowGenericErrorMessage(message string)
}
