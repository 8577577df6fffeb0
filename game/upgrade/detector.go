// Package upgrade finds inventory items that beat a marked candidate on a
// shared effect.
package upgrade

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kasuganosora/gearkeeper/game/inventory"
	"github.com/kasuganosora/gearkeeper/resource"
)

// ErrSameMarker is returned when the input and output markers coincide.
var ErrSameMarker = errors.New("upgrade: input and output markers must differ")

// Beater is one item effect that beats a candidate effect.
type Beater struct {
	Item        *inventory.Item
	Effect      inventory.Effect
	Name        string // "<name> Lv<level>"
	Description string
}

// Finding groups the beaters of one candidate effect.
type Finding struct {
	Description string
	Beaters     []Beater
}

// Candidate groups the findings of every candidate sharing a name and level.
type Candidate struct {
	Key      string
	Items    []*inventory.Item
	Findings []*Finding

	byDesc map[string]*Finding
}

// Report is the detector output in candidate inventory order.
type Report struct {
	Candidates []*Candidate
	// Marked lists the items that received the output marker, in inventory
	// order.
	Marked []*inventory.Item
}

type pairKey struct {
	candEffect int
	beater     *inventory.Item
	beatEffect int
}

// Detect compares every item carrying the input marker with the items of
// the same equipment slot that lack it. Accessories compare raw amounts,
// everything else affinity levels. Every beating item receives the output
// marker.
func Detect(items []*inventory.Item, res *resource.Loader, input, output int) (*Report, error) {
	if err := inventory.ValidateMarker(input); err != nil {
		return nil, err
	}
	if err := inventory.ValidateMarker(output); err != nil {
		return nil, err
	}
	if input == output {
		return nil, fmt.Errorf("%w: %d", ErrSameMarker, input)
	}

	groups := make(map[string][]*inventory.Item)
	for _, it := range items {
		for _, slot := range it.EquipSlots(res) {
			groups[slot] = append(groups[slot], it)
		}
	}

	rep := &Report{}
	byKey := make(map[string]*Candidate)
	beaters := make(map[*inventory.Item]bool)

	for _, cand := range items {
		if !cand.HasMarker(input) {
			continue
		}
		slots := cand.EquipSlots(res)
		if len(slots) == 0 {
			continue
		}
		byAmount := cand.SlotClass(res) == resource.SlotAccessory
		seen := make(map[pairKey]bool)
		var group *Candidate

		for ci, ce := range cand.Effects {
			for _, slot := range slots {
				for _, other := range groups[slot] {
					if other == cand || other.HasMarker(input) {
						continue
					}
					for oi, oe := range other.Effects {
						if oe.EffectID != ce.EffectID || !beats(ce, oe, byAmount) {
							continue
						}
						k := pairKey{ci, other, oi}
						if seen[k] {
							continue
						}
						seen[k] = true

						if group == nil {
							var err error
							if group, err = candidateGroup(rep, byKey, cand, res); err != nil {
								return nil, err
							}
						}
						b, err := newBeater(other, oe, res)
						if err != nil {
							return nil, err
						}
						f, err := group.finding(ce, res)
						if err != nil {
							return nil, err
						}
						f.Beaters = append(f.Beaters, b)
						beaters[other] = true
					}
				}
			}
		}
	}

	for _, c := range rep.Candidates {
		for _, f := range c.Findings {
			sort.SliceStable(f.Beaters, func(i, j int) bool {
				return f.Beaters[i].Description > f.Beaters[j].Description
			})
		}
	}

	for _, it := range items {
		if !beaters[it] {
			continue
		}
		if err := it.SetMarker(output, true); err != nil {
			return rep, err
		}
		rep.Marked = append(rep.Marked, it)
	}
	return rep, nil
}

func beats(cand, other inventory.Effect, byAmount bool) bool {
	if byAmount {
		return other.RawAmount > cand.RawAmount
	}
	return other.AffinityLevel > cand.AffinityLevel
}

func itemKey(it *inventory.Item, res *resource.Loader) (string, error) {
	name, err := it.DisplayName(res)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s Lv%d", name, it.Level), nil
}

func candidateGroup(rep *Report, byKey map[string]*Candidate, it *inventory.Item, res *resource.Loader) (*Candidate, error) {
	key, err := itemKey(it, res)
	if err != nil {
		return nil, err
	}
	c, ok := byKey[key]
	if !ok {
		c = &Candidate{Key: key, byDesc: make(map[string]*Finding)}
		byKey[key] = c
		rep.Candidates = append(rep.Candidates, c)
	}
	if len(c.Items) == 0 || c.Items[len(c.Items)-1] != it {
		c.Items = append(c.Items, it)
	}
	return c, nil
}

func (c *Candidate) finding(e inventory.Effect, res *resource.Loader) (*Finding, error) {
	desc, err := e.Describe(res)
	if err != nil {
		return nil, err
	}
	f, ok := c.byDesc[desc]
	if !ok {
		f = &Finding{Description: desc}
		c.byDesc[desc] = f
		c.Findings = append(c.Findings, f)
	}
	return f, nil
}

func newBeater(it *inventory.Item, e inventory.Effect, res *resource.Loader) (Beater, error) {
	name, err := itemKey(it, res)
	if err != nil {
		return Beater{}, err
	}
	desc, err := e.Describe(res)
	if err != nil {
		return Beater{}, err
	}
	return Beater{Item: it, Effect: e, Name: name, Description: desc}, nil
}

// Lines renders the report as indented text, one beater per line.
func (r *Report) Lines() []string {
	var out []string
	for _, c := range r.Candidates {
		out = append(out, c.Key)
		for _, f := range c.Findings {
			out = append(out, "  "+f.Description)
			for _, b := range f.Beaters {
				out = append(out, fmt.Sprintf("    %s [slot %d]: %s", b.Name, b.Item.Index, b.Description))
			}
		}
	}
	return out
}

// Empty reports whether no upgrade was found.
func (r *Report) Empty() bool { return len(r.Candidates) == 0 }
