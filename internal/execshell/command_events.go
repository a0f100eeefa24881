package execshell

import (
	"go.uber.org/zap"
)

const (
	commandStartedLogMessageConstant  = "shell command started"
	commandFinishedLogMessageConstant = "shell command finished"
	commandFailedLogMessageConstant   = "shell command failed"
	commandLabelLogFieldConstant      = "command"
	exitCodeLogFieldConstant          = "exit_code"
)

// CommandEventObserver receives lifecycle notifications for shell command execution.
type CommandEventObserver interface {
	// CommandStarted notifies observers that command execution is beginning.
	CommandStarted(command ShellCommand)
	// CommandCompleted notifies observers that command execution finished and supplies the result.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports unexpected failures prior to receiving an execution result.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// noopCommandEventObserver discards all command events.
type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand)                    {}
func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}
func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error)     {}

// LoggingCommandEventObserver records command lifecycle events through zap.
type LoggingCommandEventObserver struct {
	logger *zap.Logger
}

// NewLoggingCommandEventObserver constructs an observer backed by the provided
// zap logger; a nil logger discards events.
func NewLoggingCommandEventObserver(logger *zap.Logger) *LoggingCommandEventObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingCommandEventObserver{logger: logger}
}

// CommandStarted implements CommandEventObserver.
func (observer *LoggingCommandEventObserver) CommandStarted(command ShellCommand) {
	observer.logger.Debug(commandStartedLogMessageConstant, zap.String(commandLabelLogFieldConstant, command.Label()))
}

// CommandCompleted implements CommandEventObserver.
func (observer *LoggingCommandEventObserver) CommandCompleted(command ShellCommand, result ExecutionResult) {
	observer.logger.Debug(commandFinishedLogMessageConstant,
		zap.String(commandLabelLogFieldConstant, command.Label()),
		zap.Int(exitCodeLogFieldConstant, result.ExitCode),
	)
}

// CommandExecutionFailed implements CommandEventObserver.
func (observer *LoggingCommandEventObserver) CommandExecutionFailed(command ShellCommand, failure error) {
	observer.logger.Warn(commandFailedLogMessageConstant,
		zap.String(commandLabelLogFieldConstant, command.Label()),
		zap.Error(failure),
	)
}
