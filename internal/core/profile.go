package core

// ProfileName selects the Selector's inclusion policy.
type ProfileName string

const (
	ProfileOverview    ProfileName = "overview"
	ProfileSummary     ProfileName = "summary"
	ProfileDev         ProfileName = "dev"
	ProfileMax         ProfileName = "max"
	ProfileMachineLean ProfileName = "machine-lean"
)

// ValidProfile reports whether p is one of the five named profiles.
func ValidProfile(p ProfileName) bool {
	switch p {
	case ProfileOverview, ProfileSummary, ProfileDev, ProfileMax, ProfileMachineLean:
		return true
	}
	return false
}

// MetaDensity controls per-file metadata verbosity in the rendered report
// per-file metadata verbosity in the rendered report.
type MetaDensity string

const (
	MetaDensityMin      MetaDensity = "min"
	MetaDensityStandard MetaDensity = "standard"
	MetaDensityFull     MetaDensity = "full"
	MetaDensityAuto     MetaDensity = "auto"
)

// RenderMode picks combined (single report over all repos) vs per-repo
// report generation.
type RenderMode string

const (
	RenderModeCombined RenderMode = "combined"
	RenderModePerRepo  RenderMode = "per-repo"
)

// Profile is the named policy plus its orthogonal switches.
type Profile struct {
	Name        ProfileName
	PlanOnly    bool
	CodeOnly    bool
	MetaDensity MetaDensity
}

// ResolveMetaDensity implements the "auto" rule: standard
// if any filter is active, full otherwise.
func (p Profile) ResolveMetaDensity(pathFilterActive, extFilterActive bool) MetaDensity {
	if p.MetaDensity != MetaDensityAuto {
		return p.MetaDensity
	}
	if pathFilterActive || extFilterActive {
		return MetaDensityStandard
	}
	return MetaDensityFull
}
