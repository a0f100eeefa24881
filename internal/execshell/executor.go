package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	gitCommandNameConstant                 = "git"
	runnerNotConfiguredMessageConstant     = "command runner not configured"
	commandFailedMessageTemplateConstant   = "%s exited with code %d%s"
	executionFailedMessageTemplateConstant = "%s could not be executed: %s"
	standardErrorSuffixTemplateConstant    = ": %s"
	commandLabelJoinSeparatorConstant      = " "
)

// CommandName identifies an executable supported by the shell executor.
type CommandName string

// CommandGit names the git executable.
const CommandGit CommandName = CommandName(gitCommandNameConstant)

// CommandDetails carries the arguments and environment for one invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
}

// ShellCommand pairs an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// Label renders the command for event messages.
func (command ShellCommand) Label() string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(commandParts, commandLabelJoinSeparatorConstant)
}

// ExecutionResult captures the observable outcome of a completed command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner executes shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// ErrRunnerNotConfigured indicates the executor was constructed without a runner.
var ErrRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)

// CommandFailedError reports a command that completed with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command.
func (commandFailedError CommandFailedError) Error() string {
	standardErrorSuffix := ""
	trimmedStandardError := strings.TrimSpace(commandFailedError.Result.StandardError)
	if len(trimmedStandardError) > 0 {
		standardErrorSuffix = fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
	}
	return fmt.Sprintf(commandFailedMessageTemplateConstant, commandFailedError.Command.Label(), commandFailedError.Result.ExitCode, standardErrorSuffix)
}

// ExecutionFailedError reports a command that never produced an exit code.
type ExecutionFailedError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionFailedError ExecutionFailedError) Error() string {
	return fmt.Sprintf(executionFailedMessageTemplateConstant, executionFailedError.Command.Label(), executionFailedError.Cause)
}

// Unwrap exposes the underlying cause.
func (executionFailedError ExecutionFailedError) Unwrap() error {
	return executionFailedError.Cause
}

// ShellExecutor coordinates command execution with lifecycle notifications.
type ShellExecutor struct {
	runner   CommandRunner
	observer CommandEventObserver
}

// NewShellExecutor constructs an executor over the supplied runner. A nil
// observer discards lifecycle events.
func NewShellExecutor(runner CommandRunner, observer CommandEventObserver) (*ShellExecutor, error) {
	if runner == nil {
		return nil, ErrRunnerNotConfigured
	}
	if observer == nil {
		observer = noopCommandEventObserver{}
	}
	return &ShellExecutor{runner: runner, observer: observer}, nil
}

// ExecuteGit runs the git executable with the provided details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	command := ShellCommand{Name: CommandGit, Details: details}

	executor.observer.CommandStarted(command)

	executionResult, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.observer.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, ExecutionFailedError{Command: command, Cause: runError}
	}

	executor.observer.CommandCompleted(command, executionResult)
	if executionResult.ExitCode != 0 {
		return executionResult, CommandFailedError{Command: command, Result: executionResult}
	}

	return executionResult, nil
}
