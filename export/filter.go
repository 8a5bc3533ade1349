package export

// FilterConfig controls which records make it into the export. Records
// whose identity cannot be resolved bypass these thresholds because the
// fields they test are unknown; they are surfaced in the Report instead.
type FilterConfig struct {
	IncludeCharacters bool `yaml:"include_characters"`
	IncludeArtifacts  bool `yaml:"include_artifacts"`
	IncludeWeapons    bool `yaml:"include_weapons"`
	IncludeMaterials  bool `yaml:"include_materials"`

	MinCharacterLevel         uint32 `yaml:"min_character_level"`
	MinCharacterAscension     uint32 `yaml:"min_character_ascension"`
	MinCharacterConstellation uint32 `yaml:"min_character_constellation"`

	// MinArtifactLevel tests the exported enhancement level, not the
	// wire level.
	MinArtifactLevel  uint32 `yaml:"min_artifact_level"`
	MinArtifactRarity uint32 `yaml:"min_artifact_rarity"`

	MinWeaponLevel      uint32 `yaml:"min_weapon_level"`
	MinWeaponRefinement uint32 `yaml:"min_weapon_refinement"`
	MinWeaponAscension  uint32 `yaml:"min_weapon_ascension"`
	MinWeaponRarity     uint32 `yaml:"min_weapon_rarity"`
}

// DefaultFilter returns the standard export thresholds.
func DefaultFilter() FilterConfig {
	return FilterConfig{
		IncludeCharacters:         true,
		IncludeArtifacts:          true,
		IncludeWeapons:            true,
		IncludeMaterials:          true,
		MinCharacterLevel:         1,
		MinCharacterAscension:     0,
		MinCharacterConstellation: 0,
		MinArtifactLevel:          0,
		MinArtifactRarity:         5,
		MinWeaponLevel:            1,
		MinWeaponRefinement:       0,
		MinWeaponAscension:        0,
		MinWeaponRarity:           3,
	}
}
