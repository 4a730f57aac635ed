package garden

// PlantTemplate holds the immutable per-type defaults a new plant is
// instantiated from. Templates are registered once and never mutated.
type PlantTemplate struct {
	Type                string
	WaterRequirement    int
	OptimalTempMin      int
	OptimalTempMax      int
	MinTempTolerance    int
	MaxTempTolerance    int
	VulnerableParasites []string
}

// DefaultTemplates returns the built-in plant types used when no template
// file is available.
func DefaultTemplates() []PlantTemplate {
	return []PlantTemplate{
		{
			Type:                "Rose",
			WaterRequirement:    10,
			OptimalTempMin:      65,
			OptimalTempMax:      75,
			MinTempTolerance:    40,
			MaxTempTolerance:    95,
			VulnerableParasites: []string{"aphids", "spider_mites"},
		},
		{
			Type:                "Tomato",
			WaterRequirement:    15,
			OptimalTempMin:      70,
			OptimalTempMax:      85,
			MinTempTolerance:    50,
			MaxTempTolerance:    100,
			VulnerableParasites: []string{"hornworms", "spider_mites", "whiteflies"},
		},
		{
			Type:                "Lettuce",
			WaterRequirement:    8,
			OptimalTempMin:      55,
			OptimalTempMax:      70,
			MinTempTolerance:    35,
			MaxTempTolerance:    80,
			VulnerableParasites: []string{"aphids", "slugs"},
		},
		{
			Type:                "Sunflower",
			WaterRequirement:    12,
			OptimalTempMin:      70,
			OptimalTempMax:      85,
			MinTempTolerance:    45,
			MaxTempTolerance:    100,
			VulnerableParasites: []string{"beetles", "aphids"},
		},
	}
}
