// Package export writes the loaded catalogs and inventory snapshots to the
// relational database.
package export

import (
	"context"
	"fmt"

	"github.com/kasuganosora/gearkeeper/game/inventory"
	"github.com/kasuganosora/gearkeeper/model"
	"github.com/kasuganosora/gearkeeper/resource"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const batchSize = 500

// Exporter writes rows through one *gorm.DB.
type Exporter struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New creates an Exporter.
func New(db *gorm.DB, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{db: db, logger: logger}
}

// Catalogs replaces the language's strings and upserts every definition.
func (e *Exporter) Catalogs(ctx context.Context, res *resource.Loader) error {
	strs := stringRows(res)
	items := itemRows(res)
	effects := effectRows(res)
	skills := skillRows(res)
	jobs := jobRows(res)

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("language = ?", res.Language).Delete(&model.StringEntry{}).Error; err != nil {
			return err
		}
		if err := tx.CreateInBatches(strs, batchSize).Error; err != nil {
			return fmt.Errorf("strings: %w", err)
		}
		upsert := tx.Clauses(clause.OnConflict{UpdateAll: true})
		if err := upsert.CreateInBatches(items, batchSize).Error; err != nil {
			return fmt.Errorf("items: %w", err)
		}
		if err := upsert.CreateInBatches(effects, batchSize).Error; err != nil {
			return fmt.Errorf("effects: %w", err)
		}
		if err := upsert.CreateInBatches(skills, batchSize).Error; err != nil {
			return fmt.Errorf("skills: %w", err)
		}
		if err := upsert.CreateInBatches(jobs, batchSize).Error; err != nil {
			return fmt.Errorf("jobs: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("export: catalogs: %w", err)
	}
	e.logger.Info("catalogs exported",
		zap.Int("strings", len(strs)),
		zap.Int("items", len(items)),
		zap.Int("effects", len(effects)),
		zap.Int("skills", len(skills)),
		zap.Int("jobs", len(jobs)))
	return nil
}

// Inventory writes every occupied slot of snap under runID.
func (e *Exporter) Inventory(ctx context.Context, runID string, snap *inventory.Snapshot, res *resource.Loader) error {
	rows := make([]*model.ItemInstance, 0, snap.Len())
	for _, it := range snap.Items {
		if it.ItemID == 0 {
			continue
		}
		rows = append(rows, instanceRow(runID, it, res))
	}
	if len(rows) == 0 {
		e.logger.Info("inventory empty, nothing exported", zap.String("run_id", runID))
		return nil
	}
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(rows, batchSize).Error
	})
	if err != nil {
		return fmt.Errorf("export: inventory: %w", err)
	}
	e.logger.Info("inventory exported", zap.String("run_id", runID), zap.Int("items", len(rows)))
	return nil
}

// ---- row builders ----

func stringRows(res *resource.Loader) []*model.StringEntry {
	var rows []*model.StringEntry
	for _, g := range res.Strings.Groups() {
		for _, id := range g.IDs() {
			rows = append(rows, &model.StringEntry{
				Language: res.Language,
				Group:    g.Name,
				StringID: id,
				Text:     g.Entries[id],
			})
		}
	}
	return rows
}

func itemRows(res *resource.Loader) []*model.ItemDefinition {
	rows := make([]*model.ItemDefinition, 0, res.Items.Len())
	res.Items.Each(func(d *resource.ItemDef) {
		rows = append(rows, &model.ItemDefinition{
			ID:        d.ID,
			TypeCode:  d.TypeCode,
			Category:  d.Category(),
			SlotClass: d.SlotClass(),
			SlotType:  d.SlotType,
			StringID:  d.StringID,
			Name:      res.Strings.Text(d.StringID),
			Raw:       d.Raw,
		})
	})
	return rows
}

func effectRows(res *resource.Loader) []*model.EffectDefinition {
	rows := make([]*model.EffectDefinition, 0, res.Effects.Len())
	res.Effects.Each(func(d *resource.EffectDef) {
		name := res.Strings.Text(d.StringIDs[0])
		rows = append(rows, &model.EffectDefinition{
			ID:       d.ID,
			NameID:   d.StringIDs[0],
			SuffixID: d.StringIDs[3],
			Name:     name,
			Label:    name + res.Strings.Text(d.StringIDs[3]),
			Raw:      d.Raw,
		})
	})
	return rows
}

func skillRows(res *resource.Loader) []*model.SkillDefinition {
	rows := make([]*model.SkillDefinition, 0, res.Skills.Len())
	res.Skills.Each(func(d *resource.SkillDef) {
		rows = append(rows, &model.SkillDefinition{
			ID:          d.ID,
			Name:        res.Strings.Text(d.NameID),
			Description: res.Strings.Text(d.DescriptionID),
			Source:      res.Strings.Text(d.SourceID),
			Raw:         d.Raw,
		})
	})
	return rows
}

func jobRows(res *resource.Loader) []*model.JobDefinition {
	rows := make([]*model.JobDefinition, 0, res.Jobs.Len())
	res.Jobs.Each(func(d *resource.JobDef) {
		rows = append(rows, &model.JobDefinition{
			ID:        d.ID,
			Name:      res.Strings.Text(d.NameID),
			Evocation: res.Strings.Text(d.ClassIDs[0]),
			Ultima:    res.Strings.Text(d.ClassIDs[1]),
			Raw:       d.Raw,
		})
	})
	return rows
}

func instanceRow(runID string, it *inventory.Item, res *resource.Loader) *model.ItemInstance {
	name, err := it.DisplayName(res)
	if err != nil {
		name = ""
	}
	row := &model.ItemInstance{
		RunID:         runID,
		SlotIndex:     it.Index,
		Address:       it.Address,
		ItemID:        it.ItemID,
		Name:          name,
		SlotClass:     it.SlotClass(res),
		Amount:        it.Amount,
		Level:         it.Level,
		OriginalLevel: it.OriginalLevel,
		Rarity:        it.Rarity,
		Status:        uint32(it.Status),
		Locked:        it.Status.Locked(),
		Attack:        it.Attack,
		Defense:       it.Defense,
		Magic:         it.Magic,
		Resist:        it.Resist,
		SummonID:      it.Summon.ID,
		SummonLevel:   it.Summon.Level,
	}
	for i, eff := range it.Effects {
		label, err := eff.Label(res)
		if err != nil {
			label = ""
		}
		row.Effects = append(row.Effects, model.EffectInstance{
			Position:      i,
			EffectID:      eff.EffectID,
			Label:         label,
			RawAmount:     eff.RawAmount,
			AffinityLevel: eff.AffinityLevel,
			AffinityType:  eff.AffinityType,
		})
	}
	for i, s := range it.Skills {
		if s != 0 {
			row.Skills = append(row.Skills, model.ItemSkill{Position: i, SkillID: s})
		}
	}
	for i, j := range it.Jobs {
		if !j.Empty() {
			row.Jobs = append(row.Jobs, model.ItemJob{Position: i, JobID: j.JobID, Level: j.Level, Type: j.Type})
		}
	}
	return row
}
