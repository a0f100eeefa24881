package provider

import (
	"errors"
	"strings"
)

const (
	missingIdentifierMessageConstant = "provider identifier is required"
	missingBaseURLMessageConstant    = "provider base URL is required"
	defaultProbePathConstant         = "/"
)

var (
	// ErrMissingIdentifier indicates a provider declaration without an id.
	ErrMissingIdentifier = errors.New(missingIdentifierMessageConstant)
	// ErrMissingBaseURL indicates a provider declaration without a base URL.
	ErrMissingBaseURL = errors.New(missingBaseURLMessageConstant)
)

// Configuration describes one provider declaration as persisted in the
// application configuration file.
type Configuration struct {
	ID                       string `mapstructure:"id"`
	Name                     string `mapstructure:"name"`
	BaseURL                  string `mapstructure:"base_url"`
	StatusPageURL            string `mapstructure:"status_page_url"`
	TokenEnvironmentVariable string `mapstructure:"token_env"`
	ProbePath                string `mapstructure:"probe_path"`
	BranchPathTemplate       string `mapstructure:"branch_path_template"`
}

// Materialize validates the declaration and builds the runtime Provider,
// resolving the authentication token from the environment when available.
func (configuration Configuration) Materialize(environment map[string]string) (*Provider, error) {
	trimmedIdentifier := strings.TrimSpace(configuration.ID)
	if len(trimmedIdentifier) == 0 {
		return nil, ErrMissingIdentifier
	}
	trimmedBaseURL := strings.TrimSpace(configuration.BaseURL)
	if len(trimmedBaseURL) == 0 {
		return nil, ErrMissingBaseURL
	}

	providerName := strings.TrimSpace(configuration.Name)
	if len(providerName) == 0 {
		providerName = trimmedIdentifier
	}

	materializedProvider := &Provider{
		ID:            trimmedIdentifier,
		Name:          providerName,
		BaseURL:       strings.TrimRight(trimmedBaseURL, defaultProbePathConstant),
		StatusPageURL: strings.TrimSpace(configuration.StatusPageURL),
	}

	if tokenValue, tokenFound := ResolveToken(trimmedIdentifier, configuration.TokenEnvironmentVariable, environment); tokenFound {
		materializedProvider.Token = tokenValue
	}

	return materializedProvider, nil
}

// ResolvedProbePath reports the configured probe path or the root path default.
func (configuration Configuration) ResolvedProbePath() string {
	trimmedProbePath := strings.TrimSpace(configuration.ProbePath)
	if len(trimmedProbePath) == 0 {
		return defaultProbePathConstant
	}
	return trimmedProbePath
}
