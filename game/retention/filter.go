// Package retention decides which inventory items are worth keeping.
package retention

import (
	"errors"
	"fmt"

	"github.com/kasuganosora/gearkeeper/game/inventory"
	"github.com/kasuganosora/gearkeeper/policy"
	"github.com/kasuganosora/gearkeeper/resource"
)

// ErrUnclassifiedSkillSource is returned when a skill sits on an item that is
// neither a weapon nor an accessory.
var ErrUnclassifiedSkillSource = errors.New("retention: skill on item that is neither weapon nor accessory")

// ShouldKeep evaluates the keep rules for one item. It reads nothing but its
// arguments.
func ShouldKeep(it *inventory.Item, res *resource.Loader, pol *policy.Policy) (bool, error) {
	def, ok := it.Definition(res)
	if !ok {
		return false, nil
	}
	slot := def.SlotClass()
	if slot == "" {
		return false, nil
	}

	// An effect without a configured threshold always forces a keep.
	for _, e := range it.Effects {
		label, err := e.Label(res)
		if err != nil {
			return false, fmt.Errorf("retention: slot %d: %w", it.Index, err)
		}
		floor, _ := pol.EffectMinimum(label)
		if int(e.AffinityLevel) >= floor {
			return true, nil
		}
	}

	// Accessories are judged by their effects alone.
	if slot == resource.SlotAccessory {
		return false, nil
	}

	switch pol.ArtifactRule(slot) {
	case policy.RuleKeep:
		if !it.Jobs[0].Empty() && !it.Jobs[1].Empty() {
			return true, nil
		}
	case policy.RuleBlessed:
		if !it.Summon.Empty() {
			return true, nil
		}
	}

	if floor, ok := pol.MinimumAffinity(slot); ok && int64(it.Jobs[0].Level) >= int64(floor) {
		return true, nil
	}
	return false, nil
}

// skillPools tracks, per skill id, whether a kept item already carries it.
// A skill that appears in a pool with false is carried only by discarded
// items.
type skillPools struct {
	weapon    map[uint32]bool
	accessory map[uint32]bool
}

func (p skillPools) pool(slot string) map[uint32]bool {
	switch {
	case resource.IsWeaponSlot(slot):
		return p.weapon
	case slot == resource.SlotAccessory:
		return p.accessory
	}
	return nil
}

// Filter returns the items to keep in inventory order, followed by the
// discarded items that are the first carrier of an otherwise unkept skill.
// Items without a definition are skipped.
func Filter(items []*inventory.Item, res *resource.Loader, pol *policy.Policy) ([]*inventory.Item, error) {
	pools := skillPools{weapon: map[uint32]bool{}, accessory: map[uint32]bool{}}
	var kept, rest []*inventory.Item

	for _, it := range items {
		def, ok := it.Definition(res)
		if !ok {
			continue
		}
		keep, err := ShouldKeep(it, res, pol)
		if err != nil {
			return nil, err
		}
		if keep {
			kept = append(kept, it)
		} else {
			rest = append(rest, it)
		}

		skills := it.SkillIDs()
		if len(skills) == 0 {
			continue
		}
		pool := pools.pool(def.SlotClass())
		if pool == nil {
			return nil, fmt.Errorf("%w: skill %d on slot %d (item %d, %q)",
				ErrUnclassifiedSkillSource, skills[0], it.Index, it.ItemID, def.Category())
		}
		for _, s := range skills {
			pool[s] = pool[s] || keep
		}
	}

	if !pol.KeepWeaponSkills() && !pol.KeepAccessorySkills() {
		return kept, nil
	}
	for _, it := range rest {
		slot := it.SlotClass(res)
		enabled := (resource.IsWeaponSlot(slot) && pol.KeepWeaponSkills()) ||
			(slot == resource.SlotAccessory && pol.KeepAccessorySkills())
		if !enabled {
			continue
		}
		pool := pools.pool(slot)
		added := false
		for _, s := range it.SkillIDs() {
			if covered, seen := pool[s]; seen && !covered {
				pool[s] = true
				added = true
			}
		}
		if added {
			kept = append(kept, it)
		}
	}
	return kept, nil
}
