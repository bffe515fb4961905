package models

type Config struct {
	Debug  bool   `envconfig:"SEXSCAFF_DEBUG" default:"false"`
	SemVer string `envconfig:"SEXSCAFF_SEMVER" default:"0.1.0"`

	Api struct {
		Port                  string `envconfig:"SEXSCAFF_API_INTERNAL_PORT" default:"5000"`
		Serve                 bool   `envconfig:"SEXSCAFF_API_SERVE" default:"false"`
		RescanIntervalMinutes int    `envconfig:"SEXSCAFF_API_RESCAN_INTERVAL_MINUTES" default:"0"`
	}

	Input struct {
		SexMetadataPath    string `envconfig:"SEXSCAFF_SEX_METADATA_PATH"`
		HeterozygosityPath string `envconfig:"SEXSCAFF_HETEROZYGOSITY_PATH"`
		DepthPath          string `envconfig:"SEXSCAFF_DEPTH_PATH"`

		// When enabled, startup blocks (with exponential backoff) until all
		// three input tables exist on disk. Useful when the upstream
		// genotype-statistics tool is still writing them.
		WaitForInputs bool `envconfig:"SEXSCAFF_WAIT_FOR_INPUTS" default:"false"`
	}

	Output struct {
		Dir string `envconfig:"SEXSCAFF_OUTPUT_DIR" default:"."`
	}

	Sexes      SexRoles
	Thresholds Thresholds

	// Optional YAML file overriding Thresholds/SexRoles for a given
	// organism or dataset (thresholds are tuning knobs, not universals).
	ThresholdProfilePath string `envconfig:"SEXSCAFF_THRESHOLD_PROFILE_PATH"`
}

// SexRoles maps the dataset's two sex values onto their biological roles.
// The heterogametic sex (XY males, ZW females) is hemizygous at sex-linked
// loci; which label plays which role depends on the organism.
type SexRoles struct {
	Heterogametic string `envconfig:"SEXSCAFF_HETEROGAMETIC_SEX" default:"F" yaml:"heterogametic" mapstructure:"heterogametic"`
	Homogametic   string `envconfig:"SEXSCAFF_HOMOGAMETIC_SEX" default:"M" yaml:"homogametic" mapstructure:"homogametic"`
}

// Thresholds are the classification tuning knobs. Defaults match the
// reference dataset; different organisms need retuning, hence named
// configuration rather than inline literals.
type Thresholds struct {
	// heterozygosity records at or below this locus count are excluded
	// as insufficient data
	MinLocusCount int `envconfig:"SEXSCAFF_MIN_LOCUS_COUNT" default:"100" yaml:"min_locus_count" mapstructure:"min_locus_count"`

	// X/Z pass: welch p-value ceiling and the near-zero heterozygosity
	// ceiling applied to the heterogametic sex
	PValueCeiling float64 `envconfig:"SEXSCAFF_P_VALUE_CEILING" default:"0.001" yaml:"p_value_ceiling" mapstructure:"p_value_ceiling"`
	HetCeiling    float64 `envconfig:"SEXSCAFF_HET_CEILING" default:"0.05" yaml:"het_ceiling" mapstructure:"het_ceiling"`

	// W/Y pass: anomalously-high-depth cutoff on the heterogametic sex
	// (repetitive/multi-copy regions), near-zero depth ceiling on the
	// homogametic sex, and the minimum heterogametic/homogametic ratio
	DepthOutlierCeiling float64 `envconfig:"SEXSCAFF_DEPTH_OUTLIER_CEILING" default:"110" yaml:"depth_outlier_ceiling" mapstructure:"depth_outlier_ceiling"`
	LowDepthCeiling     float64 `envconfig:"SEXSCAFF_LOW_DEPTH_CEILING" default:"2" yaml:"low_depth_ceiling" mapstructure:"low_depth_ceiling"`
	MinDepthRatio       float64 `envconfig:"SEXSCAFF_MIN_DEPTH_RATIO" default:"20" yaml:"min_depth_ratio" mapstructure:"min_depth_ratio"`
}
