package provider

import (
	"fmt"
	"os"
	"strings"
)

const (
	providerTokenSuffixConstant  = "_TOKEN"
	genericTokenVariableConstant = "FORGEHEALTH_TOKEN"
	identifierSeparatorConstant  = "-"
	environmentJoinConstant      = "_"
)

// ResolveToken returns the first non-empty authentication token observed for
// the provider, preferring the provided environment map over the process
// environment. Candidates are consulted most specific first: an explicitly
// configured variable name, the provider-derived <ID>_TOKEN, and finally the
// generic FORGEHEALTH_TOKEN fallback.
func ResolveToken(providerIdentifier string, configuredVariableName string, environment map[string]string) (string, bool) {
	candidateVariableNames := tokenVariableCandidates(providerIdentifier, configuredVariableName)
	for _, variableName := range candidateVariableNames {
		if tokenValue, tokenFound := lookupEnvironmentMap(environment, variableName); tokenFound {
			return tokenValue, true
		}
	}
	for _, variableName := range candidateVariableNames {
		if tokenValue, tokenPresent := os.LookupEnv(variableName); tokenPresent {
			trimmedToken := strings.TrimSpace(tokenValue)
			if len(trimmedToken) > 0 {
				return trimmedToken, true
			}
		}
	}
	return "", false
}

func tokenVariableCandidates(providerIdentifier string, configuredVariableName string) []string {
	candidateVariableNames := make([]string, 0, 3)
	trimmedConfiguredName := strings.TrimSpace(configuredVariableName)
	if len(trimmedConfiguredName) > 0 {
		candidateVariableNames = append(candidateVariableNames, trimmedConfiguredName)
	}
	trimmedIdentifier := strings.TrimSpace(providerIdentifier)
	if len(trimmedIdentifier) > 0 {
		normalizedIdentifier := strings.ToUpper(strings.ReplaceAll(trimmedIdentifier, identifierSeparatorConstant, environmentJoinConstant))
		candidateVariableNames = append(candidateVariableNames, fmt.Sprintf("%s%s", normalizedIdentifier, providerTokenSuffixConstant))
	}
	candidateVariableNames = append(candidateVariableNames, genericTokenVariableConstant)
	return candidateVariableNames
}

func lookupEnvironmentMap(environment map[string]string, variableName string) (string, bool) {
	if environment == nil {
		return "", false
	}
	variableValue, variableExists := environment[variableName]
	if !variableExists {
		return "", false
	}
	trimmedValue := strings.TrimSpace(variableValue)
	if len(trimmedValue) == 0 {
		return "", false
	}
	return trimmedValue, true
}
