package health

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/temirov/forgehealth/internal/provider"
)

const (
	warningCounterNameConstant           = "forgehealth_provider_warnings_total"
	warningCounterHelpConstant           = "Provider health warnings emitted, labeled by warning kind."
	warningKindLabelNameConstant         = "kind"
	warningKindDegradedValueConstant     = "degraded"
	warningKindTimeoutValueConstant      = "timeout"
	warningKindGenericValueConstant      = "generic"
	innerNotifierRequiredMessageConstant = "inner health notifier not configured"
)

// ErrInnerNotifierNotConfigured indicates decoration without a target notifier.
var ErrInnerNotifierNotConfigured = errors.New(innerNotifierRequiredMessageConstant)

// MetricsHealthNotifier decorates another notifier with Prometheus counters so
// warning emission rates become observable.
type MetricsHealthNotifier struct {
	innerNotifier  provider.HealthNotifier
	warningCounter *prometheus.CounterVec
}

// NewMetricsHealthNotifier wraps innerNotifier and registers its counters on
// the supplied registerer; a nil registerer uses the default registry.
func NewMetricsHealthNotifier(innerNotifier provider.HealthNotifier, registerer prometheus.Registerer) (*MetricsHealthNotifier, error) {
	if innerNotifier == nil {
		return nil, ErrInnerNotifierNotConfigured
	}
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	warningCounter := promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: warningCounterNameConstant,
			Help: warningCounterHelpConstant,
		},
		[]string{warningKindLabelNameConstant},
	)

	return &MetricsHealthNotifier{innerNotifier: innerNotifier, warningCounter: warningCounter}, nil
}

// ShowProviderDegradedWarning counts the warning and delegates.
func (notifier *MetricsHealthNotifier) ShowProviderDegradedWarning(message string) {
	notifier.warningCounter.WithLabelValues(warningKindDegradedValueConstant).Inc()
	notifier.innerNotifier.ShowProviderDegradedWarning(message)
}

// ShowProviderTimeoutWarning counts the warning and delegates.
func (notifier *MetricsHealthNotifier) ShowProviderTimeoutWarning(providerName string) {
	notifier.warningCounter.WithLabelValues(warningKindTimeoutValueConstant).Inc()
	notifier.innerNotifier.ShowProviderTimeoutWarning(providerName)
}

// ShowGenericErrorMessage counts the message and delegates.
func (notifier *MetricsHealthNotifier) ShowGenericErrorMessage(message string) {
	notifier.warningCounter.WithLabelValues(warningKindGenericValueConstant).Inc()
	notifier.innerNotifier.ShowGenericErrorMessage(message)
}
