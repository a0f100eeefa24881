package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/forgehealth/internal/utils"
)

func TestCreateLoggerAcceptsSupportedCombinations(testInstance *testing.T) {
	factory := utils.NewLoggerFactory()

	supportedLevels := []utils.LogLevel{utils.LogLevelDebug, utils.LogLevelInfo, utils.LogLevelWarn, utils.LogLevelError}
	supportedFormats := []utils.LogFormat{utils.LogFormatStructured, utils.LogFormatConsole}

	for _, logLevel := range supportedLevels {
		for _, logFormat := range supportedFormats {
			logger, creationError := factory.CreateLogger(logLevel, logFormat)
			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, logger)
		}
	}
}

func TestCreateLoggerRejectsUnsupportedValues(testInstance *testing.T) {
	factory := utils.NewLoggerFactory()

	testInstance.Run("unsupported_level", func(testInstance *testing.T) {
		logger, creationError := factory.CreateLogger(utils.LogLevel("verbose"), utils.LogFormatConsole)
		require.Error(testInstance, creationError)
		require.Nil(testInstance, logger)
	})

	testInstance.Run("unsupported_format", func(testInstance *testing.T) {
		logger, creationError := factory.CreateLogger(utils.LogLevelInfo, utils.LogFormat("plain"))
		require.Error(testInstance, creationError)
		require.Nil(testInstance, logger)
	})
}

func TestEnablesDebugDiagnostics(testInstance *testing.T) {
	require.True(testInstance, utils.LogLevelDebug.EnablesDebugDiagnostics())
	require.False(testInstance, utils.LogLevelInfo.EnablesDebugDiagnostics())
	require.False(testInstance, utils.LogLevelWarn.EnablesDebugDiagnostics())
	require.False(testInstance, utils.LogLevelError.EnablesDebugDiagnostics())
}
