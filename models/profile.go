package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// ThresholdProfile is the shape of an organism/dataset YAML profile.
// Only the fields present in the file are overridden.
type ThresholdProfile struct {
	Sexes      *SexRoles   `yaml:"sexes"`
	Thresholds *Thresholds `yaml:"thresholds"`
}

// ApplyThresholdProfile overlays a YAML profile file onto the current
// configuration. The file is read whole; a malformed profile aborts the
// run rather than silently classifying with half-applied thresholds.
func (cfg *Config) ApplyThresholdProfile(path string) error {
	contents, readErr := os.ReadFile(path)
	if readErr != nil {
		return fmt.Errorf("threshold profile %s : %w", path, readErr)
	}

	// defaults carry over for anything the profile leaves unset
	profile := ThresholdProfile{
		Sexes:      &cfg.Sexes,
		Thresholds: &cfg.Thresholds,
	}
	if yamlErr := yaml.UnmarshalStrict(contents, &profile); yamlErr != nil {
		return fmt.Errorf("threshold profile %s : %w", path, yamlErr)
	}

	cfg.Sexes = *profile.Sexes
	cfg.Thresholds = *profile.Thresholds

	return nil
}
