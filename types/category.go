//nolint:revive // types is a common Go package naming convention
package types

// Category identifies one inventory category tracked by the session.
type Category string

// Category constants. These are wire values as well as export partitions.
const (
	CategoryArtifact  Category = "artifact"
	CategoryWeapon    Category = "weapon"
	CategoryMaterial  Category = "material"
	CategoryCharacter Category = "character"
)

// Categories returns all categories in canonical export order.
// The order is fixed so repeated exports are byte-identical.
func Categories() []Category {
	return []Category{
		CategoryCharacter,
		CategoryArtifact,
		CategoryWeapon,
		CategoryMaterial,
	}
}

// Valid returns true if c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryArtifact, CategoryWeapon, CategoryMaterial, CategoryCharacter:
		return true
	}
	return false
}

// EnumStatus is the completion state of a category enumeration stream.
type EnumStatus string

// Enumeration stream states.
const (
	EnumNotStarted EnumStatus = "not_started"
	EnumInProgress EnumStatus = "in_progress"
	EnumComplete   EnumStatus = "complete"
)
