package types

// Kind discriminates decoded protocol messages.
type Kind string

// Message kind constants. These match the decoding collaborator's wire values.
const (
	// KindUpsert carries a full entity payload (insert or update).
	KindUpsert Kind = "entity_upsert"
	// KindRemoval signals that an entity was consumed, sold, or destroyed.
	KindRemoval Kind = "entity_removal"
	// KindPage carries pagination metadata for a category enumeration.
	KindPage Kind = "enum_page"
	// KindHandshake signals a new game session; the capture session resets.
	KindHandshake Kind = "handshake"
)

// Envelope is the decoded protocol message envelope.
// All fields use msgpack tags to match the decoding collaborator's wire format.
type Envelope struct {
	// Kind is the message discriminator.
	Kind Kind `msgpack:"kind"`
	// Category is the inventory category, empty for handshakes.
	Category Category `msgpack:"category,omitempty"`
	// EntityID is the opaque internal identifier, unique within the live
	// account and stable across packets describing the same entity.
	EntityID uint64 `msgpack:"entity_id,omitempty"`
	// Revision orders conflicting updates to the same entity. Zero means the
	// source provides no ordering signal and the store assigns its own.
	Revision uint64 `msgpack:"revision,omitempty"`
	// ConnID identifies the underlying connection; ordering is only
	// guaranteed within a connection.
	ConnID uint32 `msgpack:"conn_id,omitempty"`
	// Ts is the decode timestamp in ISO 8601 UTC format.
	Ts string `msgpack:"ts,omitempty"`
	// Payload is the kind-specific payload, msgpack-encoded.
	Payload []byte `msgpack:"payload,omitempty"`
}

// PageMeta is the pagination metadata carried by enum_page messages.
type PageMeta struct {
	// Cursor is the zero-based page cursor.
	Cursor int64 `msgpack:"cursor"`
	// TotalHint is the client's declared total entity count, if present.
	// Advisory only; completion is decided by cursors, not by this hint.
	TotalHint *int64 `msgpack:"total_hint,omitempty"`
	// IsLast is true if the client declares this the final page. The
	// declared final cursor is Cursor.
	IsLast bool `msgpack:"is_last"`
}

// Handshake is the payload of a handshake message.
type Handshake struct {
	// UID is the account identifier.
	UID uint32 `msgpack:"uid"`
	// ServerTs is the server timestamp in ISO 8601 UTC format.
	ServerTs string `msgpack:"server_ts,omitempty"`
}

// EntityPayload is the closed set of decoded per-category payloads.
// Payloads are decoded once at the wire boundary and never re-interpreted.
type EntityPayload interface {
	entityPayload()
}

// ArtifactPayload is the decoded payload for artifact entities.
// Substat values are not on the wire; append prop ids resolve to
// (property, roll value) pairs through the reference dataset.
type ArtifactPayload struct {
	// ItemID identifies the artifact piece (set, slot, rarity) in the
	// reference dataset.
	ItemID uint32 `msgpack:"item_id"`
	// Level is the wire level; the export level is Level-1.
	Level uint32 `msgpack:"level"`
	// MainPropID identifies the main stat.
	MainPropID uint32 `msgpack:"main_prop_id"`
	// AppendPropIDs lists substat rolls in acquisition order. Duplicate ids
	// accumulate on the same substat.
	AppendPropIDs []uint32 `msgpack:"append_prop_ids"`
	// Locked is the in-game lock flag.
	Locked bool `msgpack:"locked"`
}

func (*ArtifactPayload) entityPayload() {}

// WeaponPayload is the decoded payload for weapon entities.
type WeaponPayload struct {
	// ItemID identifies the weapon in the reference dataset.
	ItemID uint32 `msgpack:"item_id"`
	// Level is the weapon level.
	Level uint32 `msgpack:"level"`
	// PromoteLevel is the ascension level.
	PromoteLevel uint32 `msgpack:"promote_level"`
	// AffixMap holds refinement affixes; refinement rank is the first
	// value plus one.
	AffixMap map[uint32]uint32 `msgpack:"affix_map,omitempty"`
	// Locked is the in-game lock flag.
	Locked bool `msgpack:"locked"`
}

func (*WeaponPayload) entityPayload() {}

// MaterialPayload is the decoded payload for material stacks.
type MaterialPayload struct {
	// ItemID identifies the material in the reference dataset.
	ItemID uint32 `msgpack:"item_id"`
	// Count is the stack count.
	Count uint32 `msgpack:"count"`
}

func (*MaterialPayload) entityPayload() {}

// CharacterPayload is the decoded payload for character entities.
type CharacterPayload struct {
	// AvatarID identifies the character in the reference dataset.
	AvatarID uint32 `msgpack:"avatar_id"`
	// AvatarType distinguishes playable characters (1) from NPCs.
	AvatarType uint32 `msgpack:"avatar_type"`
	// Level is the character level.
	Level uint32 `msgpack:"level"`
	// Ascension is the promote level.
	Ascension uint32 `msgpack:"ascension"`
	// TalentIDs lists unlocked constellation talents.
	TalentIDs []uint32 `msgpack:"talent_ids,omitempty"`
	// SkillLevels maps skill id to level.
	SkillLevels map[uint32]uint32 `msgpack:"skill_levels,omitempty"`
	// EquipGUIDs lists the entity ids of equipped artifacts and weapons.
	EquipGUIDs []uint64 `msgpack:"equip_guids,omitempty"`
}

func (*CharacterPayload) entityPayload() {}
