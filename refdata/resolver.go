// Package refdata consumes the reference-data collaborator: a versioned,
// read-only lookup from internal numeric identifiers to stable export
// identities and stat schemas.
//
// The core tolerates unknown identifiers. Entities observed on the wire but
// absent from the current dataset (new game content before a dataset update)
// are carried through export with a fallback identity, never dropped.
package refdata

// SkillKind classifies a character skill for talent-level mapping.
type SkillKind string

// Skill kinds.
const (
	SkillAuto  SkillKind = "auto"
	SkillSkill SkillKind = "skill"
	SkillBurst SkillKind = "burst"
)

// ArtifactInfo is the resolved identity of an artifact piece.
type ArtifactInfo struct {
	// SetName is the display name of the artifact set.
	SetName string `json:"set"`
	// SlotKey is the GOOD slot key (flower, plume, sands, goblet, circlet).
	SlotKey string `json:"slot"`
	// Rarity is the star rating.
	Rarity uint32 `json:"rarity"`
}

// WeaponInfo is the resolved identity of a weapon.
type WeaponInfo struct {
	// Name is the display name.
	Name string `json:"name"`
	// Rarity is the star rating.
	Rarity uint32 `json:"rarity"`
}

// Affix is a resolved substat roll: the stat it affects and the roll value
// at full precision.
type Affix struct {
	// PropertyKey is the GOOD stat key (e.g. "critDMG_").
	PropertyKey string `json:"prop"`
	// Value is the roll value. Never rounded; unactivated initial rolls
	// carry fractional values that must survive export intact.
	Value float64 `json:"value"`
}

// Resolver maps internal identifiers to export identities.
// All lookups return ok=false for identifiers absent from the dataset.
// Implementations must be safe for concurrent use; a version change swaps
// results going forward without any session reset.
type Resolver interface {
	// Version identifies the loaded dataset.
	Version() string
	// Character resolves an avatar id to a display name.
	Character(id uint32) (string, bool)
	// Weapon resolves a weapon item id.
	Weapon(id uint32) (WeaponInfo, bool)
	// Artifact resolves an artifact item id.
	Artifact(id uint32) (ArtifactInfo, bool)
	// Material resolves a material item id to a display name.
	Material(id uint32) (string, bool)
	// Affix resolves a substat append id to its property and roll value.
	Affix(id uint32) (Affix, bool)
	// Property resolves a main-stat property id to a GOOD stat key.
	Property(id uint32) (string, bool)
	// Skill resolves a skill id to its kind.
	Skill(id uint32) (SkillKind, bool)
}
