package retention

import (
	"testing"

	"github.com/kasuganosora/gearkeeper/config"
	"github.com/kasuganosora/gearkeeper/game/inventory"
	"github.com/kasuganosora/gearkeeper/policy"
	"github.com/kasuganosora/gearkeeper/testutil"
	"github.com/kasuganosora/gearkeeper/testutil/gamedata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(t *testing.T, index int, spec testutil.ItemSpec) *inventory.Item {
	t.Helper()
	it, err := inventory.DecodeItem(spec.Bytes())
	require.NoError(t, err)
	it.Index = index
	return it
}

func newPolicy(t *testing.T, cfg config.PolicyConfig) *policy.Policy {
	t.Helper()
	p, err := policy.New(cfg)
	require.NoError(t, err)
	return p
}

func TestShouldKeep_Rules(t *testing.T) {
	res := gamedata.Loader(t)
	pol := newPolicy(t, config.PolicyConfig{
		Effects: []config.EffectThreshold{{Name: "Strength +", MinLevel: 3}},
		Artifacts: []config.ArtifactRule{
			{Slot: "1-Hand Weapon", Rule: "keep"},
			{Slot: "Shield", Rule: "blessed"},
			{Slot: "Accessory", Rule: "keep"},
		},
		MinimumAffinity: []config.SlotAffinity{
			{Slot: "1-Slot Armour", Level: 5},
			{Slot: "Accessory", Level: 1},
		},
	})

	twoJobs := [2]testutil.JobSpec{{ID: gamedata.Warrior, Level: 1}, {ID: gamedata.Mage, Level: 1}}
	cases := []struct {
		name string
		spec testutil.ItemSpec
		want bool
	}{
		{"effect at threshold", testutil.ItemSpec{ID: gamedata.Ring,
			Effects: []testutil.EffectSpec{{ID: gamedata.Strength, Level: 3}}}, true},
		{"effect below threshold", testutil.ItemSpec{ID: gamedata.Ring,
			Effects: []testutil.EffectSpec{{ID: gamedata.Strength, Level: 2}}}, false},
		{"effect without threshold", testutil.ItemSpec{ID: gamedata.Ring,
			Effects: []testutil.EffectSpec{{ID: gamedata.Magic, Level: 9}}}, true},
		{"effect without threshold or affinity", testutil.ItemSpec{ID: gamedata.Helm,
			Effects: []testutil.EffectSpec{{ID: gamedata.Magic, Amount: 3}}}, true},
		{"artifact with both jobs", testutil.ItemSpec{ID: gamedata.Longsword, Jobs: twoJobs}, true},
		{"artifact with one job", testutil.ItemSpec{ID: gamedata.Longsword,
			Jobs: [2]testutil.JobSpec{{ID: gamedata.Warrior, Level: 1}}}, false},
		{"accessory ignores artifact rule", testutil.ItemSpec{ID: gamedata.Ring, Jobs: twoJobs}, false},
		{"accessory ignores minimum affinity", testutil.ItemSpec{ID: gamedata.Ring,
			Jobs: [2]testutil.JobSpec{{ID: gamedata.Warrior, Level: 9}}}, false},
		{"blessed with summon", testutil.ItemSpec{ID: gamedata.Buckler, Summon: [2]uint32{4, 1}}, true},
		{"blessed without summon", testutil.ItemSpec{ID: gamedata.Buckler, Jobs: twoJobs}, false},
		{"minimum affinity met", testutil.ItemSpec{ID: gamedata.Helm,
			Jobs: [2]testutil.JobSpec{{ID: gamedata.Warrior, Level: 5}}}, true},
		{"minimum affinity missed", testutil.ItemSpec{ID: gamedata.Helm,
			Jobs: [2]testutil.JobSpec{{ID: gamedata.Warrior, Level: 4}}}, false},
		{"no slot class", testutil.ItemSpec{ID: gamedata.Ore,
			Effects: []testutil.EffectSpec{{ID: gamedata.Strength, Level: 9}}}, false},
		{"unknown item", testutil.ItemSpec{ID: 4242,
			Effects: []testutil.EffectSpec{{ID: gamedata.Strength, Level: 9}}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ShouldKeep(item(t, 0, tc.spec), res, pol)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestShouldKeep_Pure(t *testing.T) {
	res := gamedata.Loader(t)
	pol := newPolicy(t, config.PolicyConfig{
		Effects: []config.EffectThreshold{{Name: "Strength +", MinLevel: 2}},
	})
	it := item(t, 0, testutil.ItemSpec{ID: gamedata.Ring, Status: 1,
		Effects: []testutil.EffectSpec{{ID: gamedata.Strength, Level: 2}}})
	before := append([]byte(nil), it.Bytes()...)

	first, err := ShouldKeep(it, res, pol)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := ShouldKeep(it, res, pol)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, before, it.Bytes())
}

func TestFilter_SkillDedup(t *testing.T) {
	res := gamedata.Loader(t)
	pol := newPolicy(t, config.PolicyConfig{
		Artifacts: []config.ArtifactRule{{Slot: "2-Hand Weapon", Rule: "blessed"}},
		Skills: config.SkillsConfig{
			KeepOneWeaponSkill:    true,
			KeepOneAccessorySkill: true,
		},
	})
	items := []*inventory.Item{
		item(t, 0, testutil.ItemSpec{ID: gamedata.Longsword, Skills: [4]uint32{gamedata.Slash}}),
		item(t, 1, testutil.ItemSpec{ID: gamedata.Longsword, Skills: [4]uint32{gamedata.Slash}}),
		// kept staff already represents Fire in the weapon pool
		item(t, 2, testutil.ItemSpec{ID: gamedata.Staff, Summon: [2]uint32{1, 1},
			Skills: [4]uint32{gamedata.Fire}}),
		item(t, 3, testutil.ItemSpec{ID: gamedata.Longsword, Skills: [4]uint32{gamedata.Fire}}),
		// accessory pool is separate from the weapon pool
		item(t, 4, testutil.ItemSpec{ID: gamedata.Ring, Skills: [4]uint32{gamedata.Slash, gamedata.Guard}}),
		item(t, 5, testutil.ItemSpec{ID: gamedata.Ring, Skills: [4]uint32{gamedata.Guard}}),
		item(t, 6, testutil.ItemSpec{ID: gamedata.Potion}),
		item(t, 7, testutil.ItemSpec{ID: 4242, Skills: [4]uint32{gamedata.Slash}}),
	}

	kept, err := Filter(items, res, pol)
	require.NoError(t, err)

	var idx []int
	for _, it := range kept {
		idx = append(idx, it.Index)
	}
	assert.Equal(t, []int{2, 0, 4}, idx)
}

func TestFilter_DedupDisabled(t *testing.T) {
	res := gamedata.Loader(t)
	pol := newPolicy(t, config.PolicyConfig{
		Skills: config.SkillsConfig{KeepOneAccessorySkill: true},
	})
	items := []*inventory.Item{
		item(t, 0, testutil.ItemSpec{ID: gamedata.Longsword, Skills: [4]uint32{gamedata.Slash}}),
		item(t, 1, testutil.ItemSpec{ID: gamedata.Ring, Skills: [4]uint32{gamedata.Guard}}),
	}
	kept, err := Filter(items, res, pol)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, 1, kept[0].Index)
}

func TestFilter_UnclassifiedSkillSource(t *testing.T) {
	res := gamedata.Loader(t)
	pol := newPolicy(t, config.PolicyConfig{})
	items := []*inventory.Item{
		item(t, 0, testutil.ItemSpec{ID: gamedata.PlateMail, Skills: [4]uint32{gamedata.Guard}}),
	}
	_, err := Filter(items, res, pol)
	assert.ErrorIs(t, err, ErrUnclassifiedSkillSource)
}

func TestFilter_KeepsInventoryOrder(t *testing.T) {
	res := gamedata.Loader(t)
	pol := newPolicy(t, config.PolicyConfig{
		MinimumAffinity: []config.SlotAffinity{{Slot: "1-Slot Armour", Level: 1}},
	})
	var items []*inventory.Item
	for i := 0; i < 4; i++ {
		items = append(items, item(t, i, testutil.ItemSpec{ID: gamedata.Greaves,
			Jobs: [2]testutil.JobSpec{{ID: gamedata.Warrior, Level: uint32(i % 2)}}}))
	}
	kept, err := Filter(items, res, pol)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, 1, kept[0].Index)
	assert.Equal(t, 3, kept[1].Index)
}
