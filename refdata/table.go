package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Dataset is the on-disk JSON shape of one reference dataset version.
type Dataset struct {
	Version    string                  `json:"version"`
	Characters map[uint32]string       `json:"characters"`
	Weapons    map[uint32]WeaponInfo   `json:"weapons"`
	Artifacts  map[uint32]ArtifactInfo `json:"artifacts"`
	Materials  map[uint32]string       `json:"materials"`
	Affixes    map[uint32]Affix        `json:"affixes"`
	Properties map[uint32]string       `json:"properties"`
	Skills     map[uint32]SkillKind    `json:"skills"`
}

// Table is a Resolver backed by an in-memory dataset. Swap replaces the
// dataset atomically; in-flight lookups finish against the old version and
// subsequent lookups see the new one. No session reset is involved.
type Table struct {
	mu   sync.RWMutex
	data *Dataset
}

// NewTable creates a table over a dataset. Useful directly in tests.
func NewTable(data *Dataset) *Table {
	if data == nil {
		data = &Dataset{}
	}
	return &Table{data: data}
}

// Load reads a dataset from a JSON file.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read reference dataset %q: %w", path, err)
	}
	var data Dataset
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("invalid reference dataset %q: %w", path, err)
	}
	return NewTable(&data), nil
}

// Swap replaces the dataset. Lookups after Swap resolve against the new
// version.
func (t *Table) Swap(data *Dataset) {
	if data == nil {
		data = &Dataset{}
	}
	t.mu.Lock()
	t.data = data
	t.mu.Unlock()
}

// Reload reads a dataset file and swaps it in.
func (t *Table) Reload(path string) error {
	next, err := Load(path)
	if err != nil {
		return err
	}
	t.Swap(next.snapshot())
	return nil
}

func (t *Table) snapshot() *Dataset {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.data
}

// Version implements Resolver.
func (t *Table) Version() string {
	return t.snapshot().Version
}

// Character implements Resolver.
func (t *Table) Character(id uint32) (string, bool) {
	name, ok := t.snapshot().Characters[id]
	return name, ok
}

// Weapon implements Resolver.
func (t *Table) Weapon(id uint32) (WeaponInfo, bool) {
	info, ok := t.snapshot().Weapons[id]
	return info, ok
}

// Artifact implements Resolver.
func (t *Table) Artifact(id uint32) (ArtifactInfo, bool) {
	info, ok := t.snapshot().Artifacts[id]
	return info, ok
}

// Material implements Resolver.
func (t *Table) Material(id uint32) (string, bool) {
	name, ok := t.snapshot().Materials[id]
	return name, ok
}

// Affix implements Resolver.
func (t *Table) Affix(id uint32) (Affix, bool) {
	affix, ok := t.snapshot().Affixes[id]
	return affix, ok
}

// Property implements Resolver.
func (t *Table) Property(id uint32) (string, bool) {
	key, ok := t.snapshot().Properties[id]
	return key, ok
}

// Skill implements Resolver.
func (t *Table) Skill(id uint32) (SkillKind, bool) {
	kind, ok := t.snapshot().Skills[id]
	return kind, ok
}

// Verify Table implements Resolver.
var _ Resolver = (*Table)(nil)
