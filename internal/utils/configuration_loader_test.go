package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/forgehealth/internal/utils"
)

const (
	testConfigurationNameConstant     = "config"
	testConfigurationTypeConstant     = "yaml"
	testEnvironmentPrefixConstant     = "FORGEHEALTHTEST"
	testConfigurationFileNameConstant = "config.yaml"
)

type loaderTestConfiguration struct {
	Common struct {
		LogLevel  string `mapstructure:"log_level"`
		LogFormat string `mapstructure:"log_format"`
	} `mapstructure:"common"`
	Providers []struct {
		ID      string `mapstructure:"id"`
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"providers"`
}

func writeConfigurationFile(testInstance *testing.T, configurationContent map[string]any) string {
	testInstance.Helper()
	serializedContent, marshalError := yaml.Marshal(configurationContent)
	require.NoError(testInstance, marshalError)
	configurationFilePath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, serializedContent, 0o600))
	return configurationFilePath
}

func TestLoadConfigurationReadsFileAndDefaults(testInstance *testing.T) {
	configurationFilePath := writeConfigurationFile(testInstance, map[string]any{
		"common": map[string]any{"log_level": "debug"},
		"providers": []map[string]any{
			{"id": "github", "base_url": "https://api.github.com"},
		},
	})

	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)
	loadedTarget := loaderTestConfiguration{}

	loadedMetadata, loadError := loader.LoadConfiguration(configurationFilePath, map[string]any{"common.log_format": "console"}, &loadedTarget)

	require.NoError(testInstance, loadError)
	require.Equal(testInstance, configurationFilePath, loadedMetadata.ConfigFileUsed)
	require.Equal(testInstance, "debug", loadedTarget.Common.LogLevel)
	require.Equal(testInstance, "console", loadedTarget.Common.LogFormat)
	require.Len(testInstance, loadedTarget.Providers, 1)
	require.Equal(testInstance, "github", loadedTarget.Providers[0].ID)
}

func TestLoadConfigurationToleratesMissingFile(testInstance *testing.T) {
	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{testInstance.TempDir()})
	loadedTarget := loaderTestConfiguration{}

	_, loadError := loader.LoadConfiguration("", map[string]any{"common.log_level": "info"}, &loadedTarget)

	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "info", loadedTarget.Common.LogLevel)
}

func TestLoadConfigurationAppliesEnvironmentOverrides(testInstance *testing.T) {
	testInstance.Setenv(testEnvironmentPrefixConstant+"_COMMON_LOG_LEVEL", "warn")

	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{testInstance.TempDir()})
	loadedTarget := loaderTestConfiguration{}

	_, loadError := loader.LoadConfiguration("", map[string]any{"common.log_level": "info"}, &loadedTarget)

	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "warn", loadedTarget.Common.LogLevel)
}
