// Package gamedata writes a small, fully consistent install directory for
// tests that need resolved names, slot classes and effect labels.
package gamedata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kasuganosora/gearkeeper/resource"
	"github.com/kasuganosora/gearkeeper/testutil"
	"github.com/stretchr/testify/require"
)

// Item ids.
const (
	Potion     uint32 = 0x5E7
	Ring       uint32 = 100 // Accessory
	Longsword  uint32 = 101 // 1-Hand Weapon
	PlateMail  uint32 = 102 // Body, 1-Slot Armour
	GreatArmor uint32 = 103 // Body covering Leg, 2-Slot Armour
	Helm       uint32 = 104 // Head
	Buckler    uint32 = 105 // Shield
	Staff      uint32 = 106 // 2-Hand Weapon
	Ore        uint32 = 107 // Crafting Ingredient, no slot class
	Greaves    uint32 = 108 // Leg
)

// Effect ids.
const (
	Strength uint32 = 1
	Magic    uint32 = 2
)

// Job ids.
const (
	Warrior uint32 = 1
	Mage    uint32 = 2
)

// Skill ids.
const (
	Slash uint32 = 10
	Fire  uint32 = 11
	Guard uint32 = 12
)

var texts = []testutil.StringEntry{
	{ID: 1000, Text: "Potion"},
	{ID: 1001, Text: "Ring"},
	{ID: 1002, Text: "Longsword"},
	{ID: 1003, Text: "Plate Mail"},
	{ID: 1004, Text: "Great Armor"},
	{ID: 1005, Text: "Helm"},
	{ID: 1006, Text: "Buckler"},
	{ID: 1007, Text: "Staff"},
	{ID: 1008, Text: "Ore"},
	{ID: 1009, Text: "Greaves"},
	{ID: 2000, Text: "Strength"},
	{ID: 2001, Text: "Magic"},
	{ID: 2099, Text: " +"},
	{ID: 3000, Text: "Warrior"},
	{ID: 3001, Text: "Mage"},
	{ID: 3010, Text: "Evoker"},
	{ID: 3011, Text: "Ultimate"},
	{ID: 4000, Text: "Slash"},
	{ID: 4001, Text: "Fire"},
	{ID: 4002, Text: "Guard"},
	{ID: 4100, Text: "Deals damage."},
}

// WriteInstall writes the fixture install directory and returns its path.
func WriteInstall(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, resource.StringDir), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "database"), 0o755))
	write := func(rel string, data []byte) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, rel), data, 0o644))
	}
	write(filepath.Join(resource.StringDir, "system_eng.bin"), testutil.StringFile(texts...))
	write(resource.ItemDBPath, testutil.CatalogFile(
		testutil.ItemDefRecord(Potion, 1, 1000, 0),
		testutil.ItemDefRecord(Ring, 32, 1001, 0),
		testutil.ItemDefRecord(Longsword, 38, 1002, 0),
		testutil.ItemDefRecord(PlateMail, 28, 1003, 0),
		testutil.ItemDefRecord(GreatArmor, 28, 1004, 2),
		testutil.ItemDefRecord(Helm, 27, 1005, 0),
		testutil.ItemDefRecord(Buckler, 47, 1006, 0),
		testutil.ItemDefRecord(Staff, 37, 1007, 0),
		testutil.ItemDefRecord(Ore, 36, 1008, 0),
		testutil.ItemDefRecord(Greaves, 30, 1009, 0),
	))
	write(resource.EffectDBPath, testutil.CatalogFile(
		testutil.EffectDefRecord(Strength, 2000, 2099),
		testutil.EffectDefRecord(Magic, 2001, 2099),
	))
	write(resource.SkillDBPath, testutil.CatalogFile(
		testutil.SkillDefRecord(Slash, 4000, 4100, 0),
		testutil.SkillDefRecord(Fire, 4001, 4100, 0),
		testutil.SkillDefRecord(Guard, 4002, 0, 0),
	))
	write(resource.JobDBPath, testutil.CatalogFile(
		testutil.JobDefRecord(uint8(Warrior), 3000, 3010, 3011),
		testutil.JobDefRecord(uint8(Mage), 3001, 3010, 3011),
	))
	return dir
}

// Loader returns a loaded repository over WriteInstall's directory.
func Loader(t *testing.T) *resource.Loader {
	t.Helper()
	l := resource.NewLoader(WriteInstall(t), "eng", nil)
	require.NoError(t, l.Load())
	return l
}
