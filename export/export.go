package export

import (
	"encoding/json"
	"fmt"

	"github.com/irminsul-dev/irminsul/refdata"
	"github.com/irminsul-dev/irminsul/types"
)

// UnresolvedEntity describes one record whose identity the reference
// dataset could not resolve. The record is still exported under a
// fallback key; this entry lets the operator know a dataset update is due.
type UnresolvedEntity struct {
	Category types.Category `json:"category"`
	EntityID uint64         `json:"entity_id"`
	ItemID   uint32         `json:"item_id"`
	Reason   string         `json:"reason"`
}

// Report summarizes one export: what was written, what was filtered,
// and what could not be resolved.
type Report struct {
	// DatasetVersion is the reference dataset version used to resolve.
	DatasetVersion string `json:"dataset_version"`
	// Counts maps category to the number of exported records.
	Counts map[types.Category]int `json:"counts"`
	// Filtered maps category to the number of records excluded by thresholds.
	Filtered map[types.Category]int `json:"filtered"`
	// Unresolved lists exported records with fallback identities.
	Unresolved []UnresolvedEntity `json:"unresolved,omitempty"`
}

// Build maps a snapshot to a GOOD payload. Records that fail identity
// resolution are never dropped: they are exported under fallback keys and
// listed in the report. Threshold filters only apply to resolved records,
// because the fields they test are unknown otherwise.
//
// Output is deterministic for a given snapshot and dataset: snapshot
// records arrive sorted by EntityID and substats accumulate in
// first-occurrence order of the append prop ids.
func Build(snap *types.Snapshot, res refdata.Resolver, cfg FilterConfig) (*Payload, *Report) {
	payload := NewPayload()
	report := &Report{
		DatasetVersion: res.Version(),
		Counts:         map[types.Category]int{},
		Filtered:       map[types.Category]int{},
	}

	locations := buildLocations(snap, res)

	if cfg.IncludeCharacters {
		buildCharacters(snap, res, cfg, payload, report)
	}
	if cfg.IncludeArtifacts {
		buildArtifacts(snap, res, cfg, payload, report, locations)
	}
	if cfg.IncludeWeapons {
		buildWeapons(snap, res, cfg, payload, report, locations)
	}
	if cfg.IncludeMaterials {
		buildMaterials(snap, res, payload, report)
	}

	return payload, report
}

// Encode serializes a payload. json.Marshal emits map keys in sorted
// order, so repeated exports of the same snapshot are byte-identical.
func Encode(p *Payload) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export payload: %w", err)
	}
	return data, nil
}

// buildLocations maps equipped entity ids to their owner's GOOD key.
func buildLocations(snap *types.Snapshot, res refdata.Resolver) map[uint64]string {
	locations := map[uint64]string{}
	for _, rec := range snap.Records[types.CategoryCharacter] {
		ch, ok := rec.Payload.(*types.CharacterPayload)
		if !ok {
			continue
		}
		key := characterKey(res, ch.AvatarID)
		for _, guid := range ch.EquipGUIDs {
			locations[guid] = key
		}
	}
	return locations
}

func characterKey(res refdata.Resolver, avatarID uint32) string {
	if name, ok := res.Character(avatarID); ok {
		return ToGoodKey(name)
	}
	return fallbackKey(avatarID)
}

func fallbackKey(id uint32) string {
	return fmt.Sprintf("Unknown%d", id)
}

// playableAvatarType marks playable characters; other avatar types are
// NPC stand-ins that must not be exported.
const playableAvatarType = 1

func buildCharacters(snap *types.Snapshot, res refdata.Resolver, cfg FilterConfig, payload *Payload, report *Report) {
	for _, rec := range snap.Records[types.CategoryCharacter] {
		ch, ok := rec.Payload.(*types.CharacterPayload)
		if !ok {
			continue
		}
		if ch.AvatarType != playableAvatarType {
			continue
		}

		constellation := uint32(len(ch.TalentIDs))

		name, resolved := res.Character(ch.AvatarID)
		if resolved && (ch.Level < cfg.MinCharacterLevel ||
			ch.Ascension < cfg.MinCharacterAscension ||
			constellation < cfg.MinCharacterConstellation) {
			report.Filtered[types.CategoryCharacter]++
			continue
		}

		key := fallbackKey(ch.AvatarID)
		if resolved {
			key = ToGoodKey(name)
		} else {
			report.Unresolved = append(report.Unresolved, UnresolvedEntity{
				Category: types.CategoryCharacter,
				EntityID: rec.EntityID,
				ItemID:   ch.AvatarID,
				Reason:   "avatar id not in dataset",
			})
		}

		payload.Characters = append(payload.Characters, Character{
			Key:           key,
			Level:         ch.Level,
			Constellation: constellation,
			Ascension:     ch.Ascension,
			Talent:        talentLevels(res, ch.SkillLevels),
		})
		report.Counts[types.CategoryCharacter]++
	}
}

// talentLevels maps a skill-level map to the three GOOD talent slots,
// dropping skill ids the dataset does not classify. Talent levels are
// one-based, so unclassified slots stay at 1.
func talentLevels(res refdata.Resolver, skills map[uint32]uint32) TalentLevel {
	t := TalentLevel{Auto: 1, Skill: 1, Burst: 1}
	for id, level := range skills {
		kind, ok := res.Skill(id)
		if !ok {
			continue
		}
		switch kind {
		case refdata.SkillAuto:
			t.Auto = level
		case refdata.SkillSkill:
			t.Skill = level
		case refdata.SkillBurst:
			t.Burst = level
		}
	}
	return t
}

func buildArtifacts(snap *types.Snapshot, res refdata.Resolver, cfg FilterConfig, payload *Payload, report *Report, locations map[uint64]string) {
	for _, rec := range snap.Records[types.CategoryArtifact] {
		art, ok := rec.Payload.(*types.ArtifactPayload)
		if !ok {
			continue
		}

		// Wire level is one-based; GOOD enhancement level is zero-based.
		level := art.Level
		if level > 0 {
			level--
		}

		info, resolved := res.Artifact(art.ItemID)
		if resolved && (level < cfg.MinArtifactLevel || info.Rarity < cfg.MinArtifactRarity) {
			report.Filtered[types.CategoryArtifact]++
			continue
		}

		setKey := fallbackKey(art.ItemID)
		slotKey := ""
		rarity := uint32(0)
		if resolved {
			setKey = ToGoodKey(info.SetName)
			slotKey = info.SlotKey
			rarity = info.Rarity
		} else {
			report.Unresolved = append(report.Unresolved, UnresolvedEntity{
				Category: types.CategoryArtifact,
				EntityID: rec.EntityID,
				ItemID:   art.ItemID,
				Reason:   "artifact id not in dataset",
			})
		}

		mainStat, ok := res.Property(art.MainPropID)
		if !ok {
			mainStat = fmt.Sprintf("unknown_%d", art.MainPropID)
		}

		payload.Artifacts = append(payload.Artifacts, Artifact{
			SetKey:      setKey,
			SlotKey:     slotKey,
			Level:       level,
			Rarity:      rarity,
			MainStatKey: mainStat,
			Location:    locations[rec.EntityID],
			Lock:        art.Locked,
			Substats:    accumulateSubstats(res, art.AppendPropIDs),
		})
		report.Counts[types.CategoryArtifact]++
	}
}

// accumulateSubstats folds append prop ids into per-property totals,
// keeping the order each property was first rolled. Values keep full
// precision; unactivated initial rolls are fractional.
func accumulateSubstats(res refdata.Resolver, appendIDs []uint32) []Substat {
	substats := []Substat{}
	index := map[string]int{}
	for _, id := range appendIDs {
		affix, ok := res.Affix(id)
		if !ok {
			continue
		}
		if i, seen := index[affix.PropertyKey]; seen {
			substats[i].Value += affix.Value
			continue
		}
		index[affix.PropertyKey] = len(substats)
		substats = append(substats, Substat{Key: affix.PropertyKey, Value: affix.Value})
	}
	return substats
}

func buildWeapons(snap *types.Snapshot, res refdata.Resolver, cfg FilterConfig, payload *Payload, report *Report, locations map[uint64]string) {
	for _, rec := range snap.Records[types.CategoryWeapon] {
		wep, ok := rec.Payload.(*types.WeaponPayload)
		if !ok {
			continue
		}

		rank := refinement(wep.AffixMap)

		info, resolved := res.Weapon(wep.ItemID)
		if resolved && (wep.Level < cfg.MinWeaponLevel ||
			rank < cfg.MinWeaponRefinement ||
			wep.PromoteLevel < cfg.MinWeaponAscension ||
			info.Rarity < cfg.MinWeaponRarity) {
			report.Filtered[types.CategoryWeapon]++
			continue
		}

		key := fallbackKey(wep.ItemID)
		if resolved {
			key = ToGoodKey(info.Name)
		} else {
			report.Unresolved = append(report.Unresolved, UnresolvedEntity{
				Category: types.CategoryWeapon,
				EntityID: rec.EntityID,
				ItemID:   wep.ItemID,
				Reason:   "weapon id not in dataset",
			})
		}

		payload.Weapons = append(payload.Weapons, Weapon{
			Key:        key,
			Level:      wep.Level,
			Ascension:  wep.PromoteLevel,
			Refinement: rank,
			Location:   locations[rec.EntityID],
			Lock:       wep.Locked,
		})
		report.Counts[types.CategoryWeapon]++
	}
}

// refinement derives the GOOD refinement rank from the affix map: the
// lowest affix id's value plus one, one when the weapon has no affixes.
// Picking the lowest id keeps the result independent of map iteration
// order.
func refinement(affixes map[uint32]uint32) uint32 {
	if len(affixes) == 0 {
		return 1
	}
	first := true
	var minID uint32
	for id := range affixes {
		if first || id < minID {
			minID = id
			first = false
		}
	}
	return affixes[minID] + 1
}

func buildMaterials(snap *types.Snapshot, res refdata.Resolver, payload *Payload, report *Report) {
	for _, rec := range snap.Records[types.CategoryMaterial] {
		mat, ok := rec.Payload.(*types.MaterialPayload)
		if !ok {
			continue
		}
		if mat.Count == 0 {
			continue
		}

		key := fallbackKey(mat.ItemID)
		if name, resolved := res.Material(mat.ItemID); resolved {
			key = ToGoodKey(name)
		} else {
			report.Unresolved = append(report.Unresolved, UnresolvedEntity{
				Category: types.CategoryMaterial,
				EntityID: rec.EntityID,
				ItemID:   mat.ItemID,
				Reason:   "material id not in dataset",
			})
		}

		payload.Materials[key] += mat.Count
		report.Counts[types.CategoryMaterial]++
	}
}

// SortedCategories returns report count keys in the canonical export
// order, for stable presentation.
func (r *Report) SortedCategories() []types.Category {
	cats := make([]types.Category, 0, len(r.Counts))
	for _, c := range types.Categories() {
		if _, ok := r.Counts[c]; ok {
			cats = append(cats, c)
		}
	}
	return cats
}
