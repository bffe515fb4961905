package serviceInfo

const (
	SERVICE_NAME        = "Sexscaff"
	SERVICE_WELCOME     = "Welcome to the Sexscaff sex-linkage service! Please refer to the documentation for available endpoints"
	SERVICE_DESCRIPTION = "Classifies genomic scaffolds and loci as sex-chromosome-linked from per-sex heterozygosity and depth differentials"

	SERVICE_ARTIFACT = "sexscaff"
	SERVICE_ID       = "ca.sexscaff"
	SERVICE_CONTACT  = "mailto:info@sexscaff.ca"
)
