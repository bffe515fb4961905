package models

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseConfig() Config {
	cfg := Config{}
	cfg.Sexes = SexRoles{Heterogametic: "F", Homogametic: "M"}
	cfg.Thresholds = Thresholds{
		MinLocusCount:       100,
		PValueCeiling:       0.001,
		HetCeiling:          0.05,
		DepthOutlierCeiling: 110,
		LowDepthCeiling:     2,
		MinDepthRatio:       20,
	}
	return cfg
}

func writeProfile(t *testing.T, contents string) string {
	t.Helper()

	profilePath := path.Join(t.TempDir(), "profile.yml")
	assert.NoError(t, os.WriteFile(profilePath, []byte(contents), 0644))
	return profilePath
}

func TestApplyThresholdProfile(t *testing.T) {
	t.Run("should override only what the profile names", func(t *testing.T) {
		cfg := baseConfig()
		profilePath := writeProfile(t,
			"sexes:\n"+
				"  heterogametic: M\n"+
				"  homogametic: F\n"+
				"thresholds:\n"+
				"  min_depth_ratio: 10\n")

		assert.NoError(t, cfg.ApplyThresholdProfile(profilePath))

		// XY system : males heterogametic
		assert.Equal(t, "M", cfg.Sexes.Heterogametic)
		assert.Equal(t, "F", cfg.Sexes.Homogametic)
		assert.Equal(t, 10.0, cfg.Thresholds.MinDepthRatio)

		// everything else keeps its prior value
		assert.Equal(t, 0.001, cfg.Thresholds.PValueCeiling)
		assert.Equal(t, 100, cfg.Thresholds.MinLocusCount)
	})

	t.Run("should reject unknown profile keys", func(t *testing.T) {
		cfg := baseConfig()
		profilePath := writeProfile(t, "thresholds:\n  not_a_knob: 5\n")

		assert.Error(t, cfg.ApplyThresholdProfile(profilePath))
	})

	t.Run("should reject a missing profile file", func(t *testing.T) {
		cfg := baseConfig()
		assert.Error(t, cfg.ApplyThresholdProfile(path.Join(t.TempDir(), "nope.yml")))
	})
}
