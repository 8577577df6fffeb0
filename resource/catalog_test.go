package resource

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kasuganosora/gearkeeper/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalog_LastWriterWins(t *testing.T) {
	buf := testutil.CatalogFile(
		testutil.ItemDefRecord(1, 28, 101, 0),
		testutil.ItemDefRecord(2, 32, 102, 0),
		testutil.ItemDefRecord(1, 38, 103, 0),
		testutil.ItemDefRecord(4, 1, 104, 0),
	)
	c, err := ParseCatalog(buf, ItemDefSize, DecodeItemDef)
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	d, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, uint32(103), d.StringID)
	assert.Equal(t, "Sword", d.Category())
	assert.Equal(t, []uint32{1}, c.Duplicates())
	assert.Equal(t, []uint32{1, 2, 4}, c.IDs())
}

func TestParseCatalog_Truncated(t *testing.T) {
	buf := testutil.CatalogFile(
		testutil.SkillDefRecord(1, 1, 2, 3),
		testutil.SkillDefRecord(2, 1, 2, 3),
	)
	_, err := ParseCatalog(buf[:len(buf)-1], SkillDefSize, DecodeSkillDef)
	assert.ErrorIs(t, err, ErrTruncatedCatalog)

	_, err = ParseCatalog(buf[:6], SkillDefSize, DecodeSkillDef)
	assert.ErrorIs(t, err, ErrTruncatedCatalog)
}

func TestParseCatalog_EmptyCount(t *testing.T) {
	c, err := ParseCatalog(testutil.CatalogFile(), JobDefSize, DecodeJobDef)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestLoadCatalog_Unreadable(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.bin"), EffectDefSize, DecodeEffectDef)
	assert.ErrorIs(t, err, ErrUnreadableCatalog)
}

func TestCatalog_Lookup(t *testing.T) {
	c := NewCatalog(&SkillDef{ID: 7})
	_, err := c.Lookup(7)
	assert.NoError(t, err)
	_, err = c.Lookup(8)
	assert.ErrorIs(t, err, ErrUnknownEntry)

	var seen []uint32
	c.Each(func(d *SkillDef) { seen = append(seen, d.ID) })
	assert.Equal(t, []uint32{7}, seen)
}

func TestDecodeEntries(t *testing.T) {
	eff, err := DecodeEffectDef(testutil.EffectDefRecord(5, 50, 53))
	require.NoError(t, err)
	assert.Equal(t, uint32(5), eff.ID)
	assert.Equal(t, [4]uint32{50, 0, 0, 53}, eff.StringIDs)

	sk, err := DecodeSkillDef(testutil.SkillDefRecord(9, 90, 91, 92))
	require.NoError(t, err)
	assert.Equal(t, uint32(90), sk.NameID)
	assert.Equal(t, uint32(91), sk.DescriptionID)
	assert.Equal(t, uint32(92), sk.SourceID)

	job, err := DecodeJobDef(testutil.JobDefRecord(3, 30, 31, 32))
	require.NoError(t, err)
	assert.Equal(t, uint32(3), job.ID)
	assert.Equal(t, [2]uint32{31, 32}, job.ClassIDs)

	_, err = DecodeItemDef(make([]byte, 10))
	assert.Error(t, err)
}

func TestItemDef_SlotClass(t *testing.T) {
	cases := []struct {
		code     uint16
		slotType uint8
		category string
		slot     string
	}{
		{28, 0, "Body", SlotOneSlotArmour},
		{28, 2, "Body", SlotTwoSlotArmour},
		{28, 16, "Body", SlotTwoSlotArmour},
		{27, 0, "Head", SlotOneSlotArmour},
		{31, 0, "Foot", SlotOneSlotArmour},
		{40, 0, "Katana", SlotTwoHandWeapon},
		{45, 0, "Lance", SlotTwoHandWeapon},
		{38, 0, "Sword", SlotOneHandWeapon},
		{41, 0, "Mace", SlotOneHandWeapon},
		{47, 0, "Shield", SlotShield},
		{32, 0, "Accessory", SlotAccessory},
		{1, 0, "Consumable", ""},
		{999, 0, UnknownCategory, ""},
	}
	for _, tc := range cases {
		d := &ItemDef{TypeCode: tc.code, SlotType: tc.slotType}
		assert.Equal(t, tc.category, d.Category(), "code %d", tc.code)
		assert.Equal(t, tc.slot, d.SlotClass(), "code %d slot %d", tc.code, tc.slotType)
	}
}

func TestItemDef_EquipSlots(t *testing.T) {
	assert.Equal(t, []string{"Body"}, (&ItemDef{TypeCode: 28}).EquipSlots())
	assert.Equal(t, []string{"Body", "Leg"}, (&ItemDef{TypeCode: 28, SlotType: 2}).EquipSlots())
	assert.Equal(t, []string{"Body", "Head"}, (&ItemDef{TypeCode: 28, SlotType: 16}).EquipSlots())
	assert.Equal(t, []string{"Arm"}, (&ItemDef{TypeCode: 29}).EquipSlots())
	assert.Equal(t, []string{SlotTwoHandWeapon}, (&ItemDef{TypeCode: 37}).EquipSlots())
	assert.Nil(t, (&ItemDef{TypeCode: 1}).EquipSlots())
}

func TestIsWeaponSlot(t *testing.T) {
	assert.True(t, IsWeaponSlot(SlotOneHandWeapon))
	assert.True(t, IsWeaponSlot(SlotTwoHandWeapon))
	assert.False(t, IsWeaponSlot(SlotAccessory))
	assert.False(t, IsWeaponSlot(SlotShield))
}

func TestHex(t *testing.T) {
	raw := make([]byte, 20)
	raw[0] = 0xAB
	d := &SkillDef{Raw: raw}
	lines := strings.Split(d.Hex(), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ab 00"))
	assert.Equal(t, "00 00 00 00", lines[1])
}

func writeInstall(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, StringDir), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "database"), 0o755))
	write := func(rel string, data []byte) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, rel), data, 0o644))
	}
	write(filepath.Join(StringDir, "names_eng.bin"), testutil.StringFile(
		testutil.StringEntry{ID: 1, Text: "Potion"},
		testutil.StringEntry{ID: 2, Text: "Strength"},
		testutil.StringEntry{ID: 3, Text: " +"},
		testutil.StringEntry{ID: 4, Text: "Fira"},
		testutil.StringEntry{ID: 5, Text: "Warrior"},
	))
	write(ItemDBPath, testutil.CatalogFile(testutil.ItemDefRecord(0x5E7, 1, 1, 0)))
	write(EffectDBPath, testutil.CatalogFile(testutil.EffectDefRecord(20, 2, 3)))
	write(SkillDBPath, testutil.CatalogFile(testutil.SkillDefRecord(30, 4, 0, 0xFFFFFFFF)))
	write(JobDBPath, testutil.CatalogFile(testutil.JobDefRecord(6, 5, 0, 0)))
	return dir
}

func TestLoader_Load(t *testing.T) {
	l := NewLoader(writeInstall(t), "eng", nil)
	require.NoError(t, l.Load())

	name, err := l.ItemName(0x5E7)
	require.NoError(t, err)
	assert.Equal(t, "Potion", name)

	label, err := l.EffectLabel(20)
	require.NoError(t, err)
	assert.Equal(t, "Strength +", label)

	skill, err := l.SkillName(30)
	require.NoError(t, err)
	assert.Equal(t, "Fira", skill)

	job, err := l.JobName(6)
	require.NoError(t, err)
	assert.Equal(t, "Warrior", job)

	none, err := l.ItemName(0)
	require.NoError(t, err)
	assert.Equal(t, "(none)", none)

	_, err = l.ItemName(1234)
	assert.ErrorIs(t, err, ErrUnknownEntry)
}

func TestLoader_MissingCatalogIsFatal(t *testing.T) {
	dir := writeInstall(t)
	require.NoError(t, os.Remove(filepath.Join(dir, JobDBPath)))
	err := NewLoader(dir, "eng", nil).Load()
	assert.ErrorIs(t, err, ErrUnreadableCatalog)
}
