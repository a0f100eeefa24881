package provider_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/forgehealth/internal/provider"
)

const (
	testConfiguredVariableNameConstant = "CUSTOM_FORGE_TOKEN"
	testDerivedVariableNameConstant    = "GITHUB_TOKEN"
	testGenericVariableNameConstant    = "FORGEHEALTH_TOKEN"
	testConfiguredTokenValueConstant   = "configured-token"
	testDerivedTokenValueConstant      = "derived-token"
	testGenericTokenValueConstant      = "generic-token"
)

func TestResolveTokenPrefersEnvironmentMapOverProcessEnvironment(testInstance *testing.T) {
	testInstance.Setenv(testDerivedVariableNameConstant, testDerivedTokenValueConstant)

	resolvedToken, tokenFound := provider.ResolveToken(testProviderIdentifierConstant, testConfiguredVariableNameConstant, map[string]string{
		testConfiguredVariableNameConstant: testConfiguredTokenValueConstant,
	})

	require.True(testInstance, tokenFound)
	require.Equal(testInstance, testConfiguredTokenValueConstant, resolvedToken)
}

func TestResolveTokenDerivesVariableFromProviderIdentifier(testInstance *testing.T) {
	testInstance.Setenv(testDerivedVariableNameConstant, testDerivedTokenValueConstant)

	resolvedToken, tokenFound := provider.ResolveToken(testProviderIdentifierConstant, "", nil)

	require.True(testInstance, tokenFound)
	require.Equal(testInstance, testDerivedTokenValueConstant, resolvedToken)
}

func TestResolveTokenFallsBackToGenericVariable(testInstance *testing.T) {
	testInstance.Setenv(testGenericVariableNameConstant, testGenericTokenValueConstant)

	resolvedToken, tokenFound := provider.ResolveToken(testSecondProviderIdentifierConstant, "", nil)

	require.True(testInstance, tokenFound)
	require.Equal(testInstance, testGenericTokenValueConstant, resolvedToken)
}

func TestResolveTokenIgnoresBlankValues(testInstance *testing.T) {
	testInstance.Setenv(testGenericVariableNameConstant, "   ")

	_, tokenFound := provider.ResolveToken(testSecondProviderIdentifierConstant, "", map[string]string{
		testConfiguredVariableNameConstant: "  ",
	})

	require.False(testInstance, tokenFound)
}

func TestMaterializeValidatesDeclaration(testInstance *testing.T) {
	testCases := []struct {
		name          string
		configuration provider.Configuration
		expectedError error
	}{
		{
			name:          "missing_identifier",
			configuration: provider.Configuration{BaseURL: "https://api.github.com"},
			expectedError: provider.ErrMissingIdentifier,
		},
		{
			name:          "missing_base_url",
			configuration: provider.Configuration{ID: testProviderIdentifierConstant},
			expectedError: provider.ErrMissingBaseURL,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			materializedProvider, materializationError := testCase.configuration.Materialize(nil)
			require.ErrorIs(testInstance, materializationError, testCase.expectedError)
			require.Nil(testInstance, materializedProvider)
		})
	}
}

func TestMaterializeBuildsProviderWithResolvedToken(testInstance *testing.T) {
	configuration := provider.Configuration{
		ID:            testProviderIdentifierConstant,
		BaseURL:       "https://api.github.com/",
		StatusPageURL: "https://www.githubstatus.com",
	}

	materializedProvider, materializationError := configuration.Materialize(map[string]string{
		testDerivedVariableNameConstant: testDerivedTokenValueConstant,
	})

	require.NoError(testInstance, materializationError)
	require.Equal(testInstance, testProviderIdentifierConstant, materializedProvider.ID)
	require.Equal(testInstance, testProviderIdentifierConstant, materializedProvider.Name)
	require.Equal(testInstance, "https://api.github.com", materializedProvider.BaseURL)
	require.Equal(testInstance, testDerivedTokenValueConstant, materializedProvider.Token)
}
