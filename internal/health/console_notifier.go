package health

import (
	"fmt"

	"go.uber.org/zap"
)

const (
	providerTimeoutMessageTemplateConstant = "%s request timed out; the provider may be unreachable."
)

// ConsoleHealthNotifier renders provider-health warnings through a zap logger
// configured for human-readable output.
type ConsoleHealthNotifier struct {
	logger *zap.Logger
}

// NewConsoleHealthNotifier constructs a console notifier backed by the
// provided zap logger; a nil logger discards notifications.
func NewConsoleHealthNotifier(logger *zap.Logger) *ConsoleHealthNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleHealthNotifier{logger: logger}
}

// ShowProviderDegradedWarning logs a service-degradation warning.
func (notifier *ConsoleHealthNotifier) ShowProviderDegradedWarning(message string) {
	notifier.logger.Warn(message)
}

// ShowProviderTimeoutWarning logs a provider-specific timeout warning.
func (notifier *ConsoleHealthNotifier) ShowProviderTimeoutWarning(providerName string) {
	notifier.logger.Warn(fmt.Sprintf(providerTimeoutMessageTemplateConstant, providerName))
}

// ShowGenericErrorMessage logs a diagnostic failure message.
func (notifier *ConsoleHealthNotifier) ShowGenericErrorMessage(message string) {
	notifier.logger.Error(message)
}
