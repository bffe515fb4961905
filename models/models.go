package models

import (
	"sexscaff/models/constants"
)

type (
	// Individual is one sequenced sample of known sex.
	Individual struct {
		Id  string `dataframe:"individual,string"`
		Sex string `dataframe:"sex,string"`
	}

	// HeterozygosityRecord is one per-scaffold, per-individual row of the
	// upstream genotype-statistics tool's homozygosity table, joined with
	// sex metadata and carrying its derived heterozygote fields.
	HeterozygosityRecord struct {
		Scaffold   string `dataframe:"scaffold,string"`
		Individual string `dataframe:"individual,string"`
		Sex        string `dataframe:"sex,string"`

		ObservedHomozygoteCount float64 `dataframe:"o_hom,float"`
		ExpectedHomozygoteCount float64 `dataframe:"e_hom,float"`
		LocusCount              int     `dataframe:"n,int"`
		InbreedingCoefficient   float64 `dataframe:"f_coeff,float"`

		ObservedHeterozygoteCount float64 `dataframe:"o_het,float"`
		ExpectedHeterozygoteCount float64 `dataframe:"e_het,float"`
		ObservedHetProportion     float64 `dataframe:"p_obs_het,float"`
	}

	// DepthObservation is one long-form row of the reshaped depth table:
	// one individual's sequencing depth at one locus (scaffold+position).
	DepthObservation struct {
		Scaffold   string  `dataframe:"scaffold,string"`
		Position   int     `dataframe:"position,int"`
		Locus      string  `dataframe:"locus,string"`
		Individual string  `dataframe:"individual,string"`
		Sex        string  `dataframe:"sex,string"`
		Depth      float64 `dataframe:"depth,float"`
	}

	// WideSummary is one pivoted row per group key: per-sex mean, SEM and
	// observation count. Only keys with observations from both sexes
	// survive summarization.
	WideSummary struct {
		Key   string
		Mean  map[string]float64
		Sem   map[string]float64
		Count map[string]int
	}

	// TestResult is the outcome of the two-sample differential test for
	// one group key. Tested=false marks a degenerate group (a sex with a
	// single observation has undefined variance); PValue is then
	// meaningless and Method records why.
	TestResult struct {
		Key    string
		PValue float64
		Method string
		Tested bool
	}

	// ClassificationRow is WideSummary joined with TestResult, labeled,
	// and carrying the heterogametic/homogametic mean ratio.
	ClassificationRow struct {
		Key          string
		Mean         map[string]float64
		Sem          map[string]float64
		Count        map[string]int
		PValue       float64
		Method       string
		Tested       bool
		Significance constants.Significance
		Ratio        float64
	}
)
