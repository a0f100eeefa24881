package fetch

import "go.uber.org/zap"

const (
	diagnosticScopeFieldNameConstant    = "scope"
	diagnosticFailureLogMessageConstant = "provider request failure"
)

// DiagnosticLogger records classification diagnostics and exposes the debug
// flag gating the generic failure surface.
type DiagnosticLogger interface {
	// LogError records the failure with the scope it was observed in.
	LogError(failure error, scope string)
	// IsDebugModeActive reports whether debug diagnostics are enabled.
	IsDebugModeActive() bool
}

// ZapDiagnosticLogger adapts a zap logger to the DiagnosticLogger collaborator.
type ZapDiagnosticLogger struct {
	logger          *zap.Logger
	debugModeActive bool
}

// NewZapDiagnosticLogger constructs the adapter; a nil logger becomes a no-op.
func NewZapDiagnosticLogger(logger *zap.Logger, debugModeActive bool) *ZapDiagnosticLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapDiagnosticLogger{logger: logger, debugModeActive: debugModeActive}
}

// LogError records the failure with its originating scope.
func (diagnosticLogger *ZapDiagnosticLogger) LogError(failure error, scope string) {
	diagnosticLogger.logger.Error(diagnosticFailureLogMessageConstant, zap.Error(failure), zap.String(diagnosticScopeFieldNameConstant, scope))
}

// IsDebugModeActive reports whether debug diagnostics are enabled.
func (diagnosticLogger *ZapDiagnosticLogger) IsDebugModeActive() bool {
	return diagnosticLogger.debugModeActive
}
