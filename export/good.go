// Package export produces the canonical GOOD (Genshin Open Object
// Description) payload from an inventory snapshot: filter, resolve
// identities, map internal fields to the export schema, serialize
// deterministically.
package export

import "github.com/irminsul-dev/irminsul/types"

// GoodFormat is the GOOD "format" field value.
const GoodFormat = "GOOD"

// GoodVersion is the GOOD schema version this package emits.
const GoodVersion = 2

// Substat is one accumulated artifact substat.
type Substat struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// Artifact is a GOOD artifact record.
type Artifact struct {
	SetKey      string    `json:"setKey"`
	SlotKey     string    `json:"slotKey"`
	Level       uint32    `json:"level"`
	Rarity      uint32    `json:"rarity"`
	MainStatKey string    `json:"mainStatKey"`
	Location    string    `json:"location"`
	Lock        bool      `json:"lock"`
	Substats    []Substat `json:"substats"`
}

// Weapon is a GOOD weapon record.
type Weapon struct {
	Key        string `json:"key"`
	Level      uint32 `json:"level"`
	Ascension  uint32 `json:"ascension"`
	Refinement uint32 `json:"refinement"`
	Location   string `json:"location"`
	Lock       bool   `json:"lock"`
}

// TalentLevel holds a character's three talent levels.
type TalentLevel struct {
	Auto  uint32 `json:"auto"`
	Skill uint32 `json:"skill"`
	Burst uint32 `json:"burst"`
}

// Character is a GOOD character record.
type Character struct {
	Key           string      `json:"key"`
	Level         uint32      `json:"level"`
	Constellation uint32      `json:"constellation"`
	Ascension     uint32      `json:"ascension"`
	Talent        TalentLevel `json:"talent"`
}

// Payload is the complete GOOD export document.
type Payload struct {
	Format     string            `json:"format"`
	Version    uint32            `json:"version"`
	Source     string            `json:"source"`
	Characters []Character       `json:"characters"`
	Artifacts  []Artifact        `json:"artifacts"`
	Weapons    []Weapon          `json:"weapons"`
	Materials  map[string]uint32 `json:"materials"`
}

// NewPayload creates an empty GOOD payload with the standard header.
func NewPayload() *Payload {
	return &Payload{
		Format:     GoodFormat,
		Version:    GoodVersion,
		Source:     types.ExportSource,
		Characters: []Character{},
		Artifacts:  []Artifact{},
		Weapons:    []Weapon{},
		Materials:  map[string]uint32{},
	}
}

// ToGoodKey converts a display name to a GOOD key: ASCII alphanumerics only,
// each space-separated word capitalized ("Gladiator's Finale" →
// "GladiatorsFinale").
func ToGoodKey(value string) string {
	out := make([]rune, 0, len(value))
	capitalizeNext := true

	for _, c := range value {
		switch {
		case c >= 'a' && c <= 'z':
			if capitalizeNext {
				c = c - 'a' + 'A'
				capitalizeNext = false
			}
			out = append(out, c)
		case (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'):
			out = append(out, c)
			capitalizeNext = false
		case c == ' ':
			capitalizeNext = true
		}
	}

	return string(out)
}
