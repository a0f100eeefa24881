package gitrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/forgehealth/internal/execshell"
)

const (
	gitRevParseSubcommandConstant        = "rev-parse"
	gitAbbreviatedReferenceFlagConstant  = "--abbrev-ref"
	gitHeadReferenceConstant             = "HEAD"
	detachedHeadOutputConstant           = "HEAD"
	executorNotConfiguredMessageConstant = "git executor not configured"
)

// ErrExecutorNotConfigured indicates the reader was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// GitExecutor is the execshell surface required by repository helpers.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryReader resolves repository details using the git executable.
type RepositoryReader struct {
	executor GitExecutor
}

// NewRepositoryReader constructs a reader over the supplied executor.
func NewRepositoryReader(executor GitExecutor) (*RepositoryReader, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryReader{executor: executor}, nil
}

// CurrentBranchName reports the branch checked out at repositoryPath. The
// boolean reports presence: a detached HEAD yields absence without error.
func (reader *RepositoryReader) CurrentBranchName(executionContext context.Context, repositoryPath string) (string, bool, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitAbbreviatedReferenceFlagConstant, gitHeadReferenceConstant},
		WorkingDirectory: strings.TrimSpace(repositoryPath),
	}

	executionResult, executionError := reader.executor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return "", false, executionError
	}

	branchName := strings.TrimSpace(executionResult.StandardOutput)
	if len(branchName) == 0 || branchName == detachedHeadOutputConstant {
		return "", false, nil
	}

	return branchName, true, nil
}
