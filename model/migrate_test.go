package model_test

import (
	"testing"

	"github.com/kasuganosora/gearkeeper/model"
	"github.com/kasuganosora/gearkeeper/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestAutoMigrate_InsertAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)

	// Strings: the same id may live in two groups
	require.NoError(t, db.Create(&[]model.StringEntry{
		{Language: "eng", Group: "system", StringID: 7, Text: "Potion"},
		{Language: "eng", Group: "menu", StringID: 7, Text: "Potion"},
	}).Error)
	var strCount int64
	db.Model(&model.StringEntry{}).Where("string_id = ?", 7).Count(&strCount)
	assert.Equal(t, int64(2), strCount)

	// Definitions keep their game ids as primary keys
	def := &model.ItemDefinition{ID: 0x5E7, TypeCode: 1, Category: "Consumable", Name: "Potion"}
	require.NoError(t, db.Create(def).Error)
	var foundDef model.ItemDefinition
	require.NoError(t, db.First(&foundDef, 0x5E7).Error)
	assert.Equal(t, "Potion", foundDef.Name)

	// Item with children
	inst := &model.ItemInstance{
		RunID:     "run-1",
		SlotIndex: 3,
		ItemID:    100,
		Effects:   []model.EffectInstance{{Position: 0, EffectID: 1, RawAmount: 10}},
		Skills:    []model.ItemSkill{{Position: 0, SkillID: 12}},
		Jobs:      []model.ItemJob{{Position: 0, JobID: 1, Level: 2, Type: 1}},
	}
	require.NoError(t, db.Create(inst).Error)
	assert.Greater(t, inst.ID, int64(0))

	var loaded model.ItemInstance
	require.NoError(t, db.Preload("Effects").Preload("Skills").Preload("Jobs").First(&loaded, inst.ID).Error)
	require.Len(t, loaded.Effects, 1)
	assert.Equal(t, uint32(10), loaded.Effects[0].RawAmount)
	require.Len(t, loaded.Skills, 1)
	require.Len(t, loaded.Jobs, 1)

	// MarkerChange
	mc := &model.MarkerChange{RunID: "run-1", Action: "lock", Detail: datatypes.JSON(`{"bit":1}`)}
	require.NoError(t, db.Create(mc).Error)
	assert.Greater(t, mc.ID, int64(0))
}
