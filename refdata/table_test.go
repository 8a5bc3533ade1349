package refdata

import (
	"os"
	"path/filepath"
	"testing"
)

func testDataset() *Dataset {
	return &Dataset{
		Version:    "5.8.1",
		Characters: map[uint32]string{10000002: "Kamisato Ayaka"},
		Weapons:    map[uint32]WeaponInfo{11401: {Name: "Favonius Sword", Rarity: 4}},
		Artifacts:  map[uint32]ArtifactInfo{81534: {SetName: "Gladiator's Finale", SlotKey: "flower", Rarity: 5}},
		Materials:  map[uint32]string{104001: "Hero's Wit"},
		Affixes:    map[uint32]Affix{501204: {PropertyKey: "critDMG_", Value: 0.0777}},
		Properties: map[uint32]string{13007: "critRate_"},
		Skills:     map[uint32]SkillKind{10024: SkillBurst},
	}
}

func TestTable_Lookups(t *testing.T) {
	table := NewTable(testDataset())

	if v := table.Version(); v != "5.8.1" {
		t.Errorf("Version() = %q, want 5.8.1", v)
	}
	if name, ok := table.Character(10000002); !ok || name != "Kamisato Ayaka" {
		t.Errorf("Character(10000002) = %q, %v", name, ok)
	}
	if info, ok := table.Artifact(81534); !ok || info.SlotKey != "flower" || info.Rarity != 5 {
		t.Errorf("Artifact(81534) = %+v, %v", info, ok)
	}
	if affix, ok := table.Affix(501204); !ok || affix.Value != 0.0777 {
		t.Errorf("Affix(501204) = %+v, %v", affix, ok)
	}
	if _, ok := table.Character(99999999); ok {
		t.Error("Character(99999999) resolved, want unknown")
	}
}

func TestTable_SwapChangesResultsGoingForward(t *testing.T) {
	table := NewTable(testDataset())

	table.Swap(&Dataset{
		Version:    "5.9.0",
		Characters: map[uint32]string{10000002: "Ayaka", 10000089: "Furina"},
	})

	if v := table.Version(); v != "5.9.0" {
		t.Errorf("Version() after swap = %q, want 5.9.0", v)
	}
	if name, _ := table.Character(10000002); name != "Ayaka" {
		t.Errorf("Character(10000002) after swap = %q, want Ayaka", name)
	}
	if _, ok := table.Character(10000089); !ok {
		t.Error("Character(10000089) unknown after swap")
	}
	// Entries absent from the new version stop resolving.
	if _, ok := table.Weapon(11401); ok {
		t.Error("Weapon(11401) still resolves after swap to dataset without weapons")
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	content := `{
		"version": "5.8.1",
		"characters": {"10000002": "Kamisato Ayaka"},
		"properties": {"13007": "critRate_"}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if name, ok := table.Character(10000002); !ok || name != "Kamisato Ayaka" {
		t.Errorf("Character(10000002) = %q, %v", name, ok)
	}
	if key, ok := table.Property(13007); !ok || key != "critRate_" {
		t.Errorf("Property(13007) = %q, %v", key, ok)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load of missing file succeeded")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load of invalid JSON succeeded")
	}
}
