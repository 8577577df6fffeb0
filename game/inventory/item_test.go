package inventory

import (
	"testing"

	"github.com/kasuganosora/gearkeeper/memory"
	"github.com/kasuganosora/gearkeeper/resource"
	"github.com/kasuganosora/gearkeeper/testutil"
	"github.com/kasuganosora/gearkeeper/testutil/gamedata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeItem_Fields(t *testing.T) {
	raw := testutil.ItemSpec{
		ID:            gamedata.Longsword,
		Amount:        1,
		Level:         99,
		OriginalLevel: 80,
		Rarity:        4,
		Status:        0x06,
		SlotPos:       [2]uint32{3, 7},
		Effects: []testutil.EffectSpec{
			{ID: gamedata.Strength, Amount: 12, Level: 3, Type: AffinityUltima},
			{ID: 0, Amount: 99},
			{ID: gamedata.Magic, Amount: 5},
		},
		Attack:  410,
		Defense: 20,
		Magic:   30,
		Resist:  40,
		Jobs:    [2]testutil.JobSpec{{ID: gamedata.Warrior, Level: 2, Type: AffinityEvocation}},
		Skills:  [4]uint32{gamedata.Slash, 0, gamedata.Fire, 0},
		Summon:  [2]uint32{9, 3},
	}.Bytes()

	it, err := DecodeItem(raw)
	require.NoError(t, err)
	assert.Equal(t, gamedata.Longsword, it.ItemID)
	assert.Equal(t, uint16(1), it.Amount)
	assert.Equal(t, uint16(99), it.Level)
	assert.Equal(t, uint16(80), it.OriginalLevel)
	assert.Equal(t, uint8(4), it.Rarity)
	assert.True(t, it.Status.Locked())
	assert.False(t, it.Status.New())
	assert.True(t, it.Status.Marker(2))
	assert.Equal(t, [2]uint32{3, 7}, it.SlotPos)
	assert.Equal(t, uint32(410), it.Attack)
	assert.Equal(t, uint32(40), it.Resist)
	assert.Equal(t, JobAffinity{JobID: gamedata.Warrior, Level: 2, Type: AffinityEvocation}, it.Jobs[0])
	assert.True(t, it.Jobs[1].Empty())
	assert.Equal(t, []uint32{gamedata.Slash, gamedata.Fire}, it.SkillIDs())
	assert.Equal(t, Summon{ID: 9, Level: 3}, it.Summon)

	require.Len(t, it.Effects, 2)
	for _, e := range it.Effects {
		assert.NotZero(t, e.EffectID)
	}
	assert.Equal(t, uint32(12), it.Effects[0].RawAmount)
	assert.Equal(t, gamedata.Magic, it.Effects[1].EffectID)
	assert.Equal(t, raw, it.Bytes())
	assert.False(t, it.Live())
}

func TestDecodeItem_IDMismatch(t *testing.T) {
	_, err := DecodeItem(testutil.Mismatched(0x5E7, 0x5E8))
	assert.ErrorIs(t, err, ErrInvalidItemRecord)
}

func TestDecodeItem_Truncated(t *testing.T) {
	_, err := DecodeItem(make([]byte, RecordSize-1))
	assert.Error(t, err)
}

func TestDecodeItem_EmptySlot(t *testing.T) {
	it, err := DecodeItem(make([]byte, RecordSize))
	require.NoError(t, err)
	assert.Zero(t, it.ItemID)
	assert.Empty(t, it.Effects)
}

func TestItem_DerivedProperties(t *testing.T) {
	res := gamedata.Loader(t)
	cases := []struct {
		id       uint32
		name     string
		category string
		slot     string
	}{
		{0, "(none)", "(none)", ""},
		{gamedata.Potion, "Potion", "Consumable", ""},
		{gamedata.Ring, "Ring", "Accessory", resource.SlotAccessory},
		{gamedata.PlateMail, "Plate Mail", "Body", resource.SlotOneSlotArmour},
		{gamedata.GreatArmor, "Great Armor", "Body", resource.SlotTwoSlotArmour},
		{gamedata.Staff, "Staff", "Staff", resource.SlotTwoHandWeapon},
		{gamedata.Ore, "Ore", "Crafting Ingredient", ""},
	}
	for _, tc := range cases {
		it, err := DecodeItem(testutil.ItemSpec{ID: tc.id}.Bytes())
		require.NoError(t, err)
		name, err := it.DisplayName(res)
		require.NoError(t, err)
		assert.Equal(t, tc.name, name)
		assert.Equal(t, tc.category, it.Category(res), "id %d", tc.id)
		assert.Equal(t, tc.slot, it.SlotClass(res), "id %d", tc.id)
	}

	unknown, err := DecodeItem(testutil.ItemSpec{ID: 4242}.Bytes())
	require.NoError(t, err)
	assert.Equal(t, resource.UnknownCategory, unknown.Category(res))
	assert.Equal(t, "", unknown.SlotClass(res))
	assert.Nil(t, unknown.EquipSlots(res))
}

func TestEffect_Describe(t *testing.T) {
	res := gamedata.Loader(t)

	plain := Effect{EffectID: gamedata.Strength, RawAmount: 15}
	s, err := plain.Describe(res)
	require.NoError(t, err)
	assert.Equal(t, "Strength +: 15", s)

	tiered := Effect{EffectID: gamedata.Magic, RawAmount: 7, AffinityLevel: 3, AffinityType: AffinityUltima}
	s, err = tiered.Describe(res)
	require.NoError(t, err)
	assert.Equal(t, "(Ultima: 2) Magic +: 7", s)

	assert.Equal(t, "Chaos", Effect{AffinityType: 9}.Color())
	assert.Equal(t, "Evocation", AffinityColor(AffinityEvocation))
}

func TestJobAffinity_Describe(t *testing.T) {
	res := gamedata.Loader(t)
	s, err := JobAffinity{JobID: gamedata.Mage, Level: 4, Type: AffinityEvocation}.Describe(res)
	require.NoError(t, err)
	assert.Equal(t, "Mage (Evocation) 4", s)

	s, err = JobAffinity{}.Describe(res)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestItem_SetMarker_SingleByteWrite(t *testing.T) {
	rec := testutil.ItemSpec{ID: gamedata.Ring, Status: uint32(StatusNew)}.Bytes()
	img := memory.NewImage(append([]byte(nil), rec...), 0x1000)
	snap, err := ReadSnapshot(img, 0x1000, 1)
	require.NoError(t, err)
	it := snap.Items[0]
	require.True(t, it.Live())

	require.NoError(t, it.SetMarker(10, true))
	assert.True(t, it.HasMarker(10))
	assert.Equal(t, 1, img.Writes())
	assert.Equal(t, byte(0x04), img.Bytes()[0x10+1])
	assert.Equal(t, byte(0x04), it.Bytes()[0x10+1])
	assert.Equal(t, byte(0x01), img.Bytes()[0x10])

	// no-op writes are skipped
	require.NoError(t, it.SetMarker(10, true))
	assert.Equal(t, 1, img.Writes())

	require.NoError(t, it.SetLocked(true))
	require.NoError(t, it.SetNew(false))
	assert.True(t, it.Status.Locked())
	assert.False(t, it.Status.New())
	assert.Equal(t, byte(0x02), img.Bytes()[0x10])
	assert.Equal(t, 3, img.Writes())
}

func TestItem_SetMarker_Invalid(t *testing.T) {
	it, err := DecodeItem(testutil.ItemSpec{ID: gamedata.Ring}.Bytes())
	require.NoError(t, err)
	assert.ErrorIs(t, it.SetMarker(1, true), ErrInvalidMarker)
	assert.ErrorIs(t, it.SetMarker(32, true), ErrInvalidMarker)
	assert.False(t, it.HasMarker(1))
}

type failingPatcher struct{}

func (failingPatcher) WriteByteAt(uint64, byte) error { return memory.ErrOutOfRange }

func TestItem_FailedWriteKeepsState(t *testing.T) {
	it, err := DecodeItem(testutil.ItemSpec{ID: gamedata.Ring}.Bytes())
	require.NoError(t, err)
	it.backing = failingPatcher{}

	err = it.SetLocked(true)
	assert.ErrorIs(t, err, memory.ErrOutOfRange)
	assert.False(t, it.Status.Locked())
	assert.Equal(t, byte(0), it.Bytes()[0x10])
}

func TestStatus_Markers(t *testing.T) {
	s := Status(0).With(2, true).With(31, true).With(1, true)
	assert.Equal(t, []int{2, 31}, s.Markers())
	assert.True(t, s.Locked())
	assert.False(t, s.Marker(1))
	assert.Equal(t, Status(0), s.With(2, false).With(31, false).With(1, false))
	assert.NoError(t, ValidateMarker(FirstMarker))
	assert.ErrorIs(t, ValidateMarker(0), ErrInvalidMarker)
}
