package config

import (
	"os"

	"github.com/litmuschaos/chaos-engine/pkg/types"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Load reads a ChaosConfiguration from a yaml file, unset fields keep the
// defaults of NewDefaultConfiguration
func Load(path string) (types.ChaosConfiguration, error) {
	configuration := types.NewDefaultConfiguration()

	data, err := os.ReadFile(path)
	if err != nil {
		return configuration, errors.Wrapf(err, "unable to read configuration file %v", path)
	}

	if err := yaml.Unmarshal(data, &configuration); err != nil {
		return configuration, errors.Wrapf(err, "unable to parse configuration file %v", path)
	}

	if err := Validate(configuration); err != nil {
		return configuration, err
	}
	return configuration, nil
}

// Validate rejects configurations a manager cannot act on
func Validate(configuration types.ChaosConfiguration) error {
	if configuration.Intensity < types.MinimalIntensity || configuration.Intensity > types.ExtremeIntensity {
		return errors.Errorf("intensity %d outside the ordinal range [%d,%d]",
			configuration.Intensity, types.MinimalIntensity, types.ExtremeIntensity)
	}
	if configuration.ExperimentDuration <= 0 {
		return errors.Errorf("experiment duration must be positive, got %d", configuration.ExperimentDuration)
	}
	if configuration.CooldownPeriod < 0 {
		return errors.Errorf("cooldown period must not be negative, got %d", configuration.CooldownPeriod)
	}
	return nil
}
