package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/litmuschaos/chaos-engine/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chaos.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFullConfiguration(t *testing.T) {
	path := writeConfig(t, `
enabled: true
intensity: 3
experimentDuration: 120
cooldownPeriod: 30
targetServices:
  - svc-a
  - svc-b
excludedServices:
  - svc-c
safeMode: true
cancelResidualFaults: true
`)

	configuration, err := Load(path)
	require.NoError(t, err)

	assert.True(t, configuration.Enabled)
	assert.Equal(t, types.MediumIntensity, configuration.Intensity)
	assert.Equal(t, 120, configuration.ExperimentDuration)
	assert.Equal(t, 30, configuration.CooldownPeriod)
	assert.Equal(t, []string{"svc-a", "svc-b"}, configuration.TargetServices)
	assert.Equal(t, []string{"svc-c"}, configuration.ExcludedServices)
	assert.True(t, configuration.CancelResidualFaults)
}

func TestLoadKeepsDefaultsForUnsetFields(t *testing.T) {
	path := writeConfig(t, "enabled: true\n")

	configuration, err := Load(path)
	require.NoError(t, err)

	defaults := types.NewDefaultConfiguration()
	assert.Equal(t, defaults.Intensity, configuration.Intensity)
	assert.Equal(t, defaults.ExperimentDuration, configuration.ExperimentDuration)
	assert.Equal(t, defaults.TargetServices, configuration.TargetServices)
	assert.True(t, configuration.Enabled)
}

func TestLoadRejectsIntensityOutsideRange(t *testing.T) {
	path := writeConfig(t, "intensity: 9\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidateRejectsNonPositiveDuration(t *testing.T) {
	configuration := types.NewDefaultConfiguration()
	configuration.ExperimentDuration = 0
	require.Error(t, Validate(configuration))
}
