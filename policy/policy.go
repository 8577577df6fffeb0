// Package policy exposes the retention thresholds as typed lookups.
package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kasuganosora/gearkeeper/config"
)

// ErrInvalidRule is returned for artifact rules other than keep, blessed or off.
var ErrInvalidRule = errors.New("policy: invalid artifact rule")

// Rule is the artifact handling for one slot class.
type Rule int

const (
	RuleOff Rule = iota
	// RuleKeep keeps items whose two job slots are both filled.
	RuleKeep
	// RuleBlessed keeps items carrying a summon.
	RuleBlessed
)

func (r Rule) String() string {
	switch r {
	case RuleKeep:
		return "keep"
	case RuleBlessed:
		return "blessed"
	}
	return "off"
}

// ParseRule accepts keep, blessed and off (or empty), case-insensitively.
// Boolean spellings map to keep and off.
func ParseRule(s string) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "false", "0":
		return RuleOff, nil
	case "keep", "true", "1":
		return RuleKeep, nil
	case "blessed":
		return RuleBlessed, nil
	}
	return RuleOff, fmt.Errorf("%w: %q", ErrInvalidRule, s)
}

// Policy is immutable after New.
type Policy struct {
	effects         map[string]int
	artifacts       map[string]Rule
	minimumAffinity map[string]int
	keepWeapon      bool
	keepAccessory   bool
}

// New validates cfg and builds the lookup tables. Effect labels and slot
// classes match case-insensitively; a repeated key keeps the last value.
func New(cfg config.PolicyConfig) (*Policy, error) {
	p := &Policy{
		effects:         make(map[string]int, len(cfg.Effects)),
		artifacts:       make(map[string]Rule, len(cfg.Artifacts)),
		minimumAffinity: make(map[string]int, len(cfg.MinimumAffinity)),
		keepWeapon:      cfg.Skills.KeepOneWeaponSkill,
		keepAccessory:   cfg.Skills.KeepOneAccessorySkill,
	}
	for _, e := range cfg.Effects {
		if e.Name == "" {
			return nil, errors.New("policy: effect threshold without name")
		}
		p.effects[fold(e.Name)] = e.MinLevel
	}
	for _, a := range cfg.Artifacts {
		r, err := ParseRule(a.Rule)
		if err != nil {
			return nil, fmt.Errorf("policy: slot %q: %w", a.Slot, err)
		}
		p.artifacts[fold(a.Slot)] = r
	}
	for _, m := range cfg.MinimumAffinity {
		p.minimumAffinity[fold(m.Slot)] = m.Level
	}
	return p, nil
}

func fold(key string) string { return strings.ToLower(strings.TrimSpace(key)) }

// EffectMinimum is the affinity level at which an effect forces a keep. An
// unconfigured label reports 0, which every effect meets.
func (p *Policy) EffectMinimum(label string) (int, bool) {
	v, ok := p.effects[fold(label)]
	return v, ok
}

// ArtifactRule returns RuleOff for unconfigured slot classes.
func (p *Policy) ArtifactRule(slot string) Rule { return p.artifacts[fold(slot)] }

// MinimumAffinity is the primary job affinity level that forces a keep.
func (p *Policy) MinimumAffinity(slot string) (int, bool) {
	v, ok := p.minimumAffinity[fold(slot)]
	return v, ok
}

func (p *Policy) KeepWeaponSkills() bool    { return p.keepWeapon }
func (p *Policy) KeepAccessorySkills() bool { return p.keepAccessory }
