package resource

import (
	"encoding/hex"
	"strings"

	"github.com/kasuganosora/gearkeeper/binrec"
)

// Record sizes of the definition files.
const (
	ItemDefSize   = 388
	EffectDefSize = 96
	SkillDefSize  = 104
	JobDefSize    = 100
)

// Item type codes → category labels.
var itemCategories = map[uint16]string{
	0:    "Currency",
	1:    "Consumable",
	3:    "Mission Item",
	27:   "Head",
	28:   "Body",
	29:   "Arm",
	30:   "Leg",
	31:   "Foot",
	32:   "Accessory",
	33:   "DLC2 Consumable",
	35:   "Memory",
	36:   "Crafting Ingredient",
	37:   "Staff",
	38:   "Sword",
	39:   "Greatsword",
	40:   "Katana",
	41:   "Mace",
	42:   "Axe",
	43:   "Knuckles",
	44:   "Dagger",
	45:   "Lance",
	47:   "Shield",
	48:   "Limit Release",
	49:   "Unlock",
	6948: "Crest",
}

// UnknownCategory is the label for unmapped type codes.
const UnknownCategory = "(unknown)"

// Slot classes.
const (
	SlotOneSlotArmour = "1-Slot Armour"
	SlotTwoSlotArmour = "2-Slot Armour"
	SlotTwoHandWeapon = "2-Hand Weapon"
	SlotOneHandWeapon = "1-Hand Weapon"
	SlotShield        = "Shield"
	SlotAccessory     = "Accessory"
)

// Body armour slot byte values naming the extra slot the piece covers.
const (
	bodySlotLeg  = 2
	bodySlotHead = 16
)

// CategoryLabel maps an item type code to its category label.
func CategoryLabel(code uint16) string {
	if s, ok := itemCategories[code]; ok {
		return s
	}
	return UnknownCategory
}

// IsWeaponSlot reports whether a slot class belongs to the weapon skill pool.
func IsWeaponSlot(slot string) bool {
	return strings.Contains(slot, "Weapon")
}

// HexDump renders raw as space-separated hex bytes, 16 per line.
func HexDump(raw []byte) string {
	var sb strings.Builder
	for off := 0; off < len(raw); off += 16 {
		end := min(off+16, len(raw))
		if off > 0 {
			sb.WriteByte('\n')
		}
		for i, b := range raw[off:end] {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(hex.EncodeToString([]byte{b}))
		}
	}
	return sb.String()
}

// ---- ItemDef ----

// ItemDef is one record of item_database.bin.
type ItemDef struct {
	Raw      []byte
	ID       uint32
	TypeCode uint16
	StringID uint32
	SlotType uint8 // body armour only; 0 everywhere else
}

func DecodeItemDef(raw []byte) (*ItemDef, error) {
	r := binrec.NewReader(raw)
	r.Require(ItemDefSize)
	d := &ItemDef{
		Raw:      raw,
		ID:       r.U32(0),
		TypeCode: r.U16(4),
		StringID: r.U32(8),
		SlotType: r.U8(336),
	}
	return d, r.Err()
}

func (d *ItemDef) EntryID() uint32 { return d.ID }
func (d *ItemDef) Hex() string     { return HexDump(d.Raw) }

func (d *ItemDef) Name(st *StringTable) (string, error) { return st.Get(d.StringID) }

func (d *ItemDef) Category() string { return CategoryLabel(d.TypeCode) }

// SlotClass derives which equipment slot(s) the item occupies; "" for
// anything that is not equipment.
func (d *ItemDef) SlotClass() string {
	switch cat := d.Category(); cat {
	case "Body":
		if d.SlotType == 0 {
			return SlotOneSlotArmour
		}
		return SlotTwoSlotArmour
	case "Head", "Arm", "Leg", "Foot":
		return SlotOneSlotArmour
	case "Staff", "Greatsword", "Katana", "Axe", "Knuckles", "Dagger", "Lance":
		return SlotTwoHandWeapon
	case "Sword", "Mace":
		return SlotOneHandWeapon
	case "Shield", "Accessory":
		return cat
	}
	return ""
}

// EquipSlots lists the concrete equipment slots the item competes for.
// Armour uses its category, with two-slot body armour also covering the
// leg or head slot; every other equipment kind uses its slot class.
func (d *ItemDef) EquipSlots() []string {
	slot := d.SlotClass()
	if slot == "" {
		return nil
	}
	switch cat := d.Category(); cat {
	case "Body":
		switch d.SlotType {
		case bodySlotLeg:
			return []string{"Body", "Leg"}
		case bodySlotHead:
			return []string{"Body", "Head"}
		}
		return []string{"Body"}
	case "Head", "Arm", "Leg", "Foot":
		return []string{cat}
	}
	return []string{slot}
}

// ---- EffectDef ----

// EffectDef is one record of special_bonus_database.bin.
type EffectDef struct {
	Raw       []byte
	ID        uint32
	StringIDs [4]uint32
}

func DecodeEffectDef(raw []byte) (*EffectDef, error) {
	r := binrec.NewReader(raw)
	r.Require(EffectDefSize)
	d := &EffectDef{Raw: raw, ID: r.U32(0)}
	for i := range d.StringIDs {
		d.StringIDs[i] = r.U32(40 + 4*i)
	}
	return d, r.Err()
}

func (d *EffectDef) EntryID() uint32 { return d.ID }
func (d *EffectDef) Hex() string     { return HexDump(d.Raw) }

func (d *EffectDef) Name(st *StringTable) (string, error) { return st.Get(d.StringIDs[0]) }

// Label joins the name with its suffix string ("Strength" + " +"). Policy
// thresholds are keyed by this text.
func (d *EffectDef) Label(st *StringTable) (string, error) {
	name, err := st.Get(d.StringIDs[0])
	if err != nil {
		return "", err
	}
	suffix, err := st.Get(d.StringIDs[3])
	if err != nil {
		return "", err
	}
	return name + suffix, nil
}

// ---- SkillDef ----

// SkillDef is one record of P0030_ability_database.bin.
type SkillDef struct {
	Raw           []byte
	ID            uint32
	NameID        uint32
	DescriptionID uint32
	SourceID      uint32
}

func DecodeSkillDef(raw []byte) (*SkillDef, error) {
	r := binrec.NewReader(raw)
	r.Require(SkillDefSize)
	d := &SkillDef{
		Raw:           raw,
		ID:            r.U32(0),
		NameID:        r.U32(16),
		DescriptionID: r.U32(20),
		SourceID:      r.U32(24),
	}
	return d, r.Err()
}

func (d *SkillDef) EntryID() uint32 { return d.ID }
func (d *SkillDef) Hex() string     { return HexDump(d.Raw) }

func (d *SkillDef) Name(st *StringTable) (string, error)        { return st.Get(d.NameID) }
func (d *SkillDef) Description(st *StringTable) (string, error) { return st.Get(d.DescriptionID) }
func (d *SkillDef) Source(st *StringTable) (string, error)      { return st.Get(d.SourceID) }

// ---- JobDef ----

// JobDef is one record of P0031_job_database.bin. The id is a single byte.
type JobDef struct {
	Raw      []byte
	ID       uint32
	NameID   uint32
	ClassIDs [2]uint32 // evocation, ultima
}

func DecodeJobDef(raw []byte) (*JobDef, error) {
	r := binrec.NewReader(raw)
	r.Require(JobDefSize)
	d := &JobDef{
		Raw:      raw,
		ID:       uint32(r.U8(12)),
		NameID:   r.U32(16),
		ClassIDs: [2]uint32{r.U32(20), r.U32(24)},
	}
	return d, r.Err()
}

func (d *JobDef) EntryID() uint32 { return d.ID }
func (d *JobDef) Hex() string     { return HexDump(d.Raw) }

func (d *JobDef) Name(st *StringTable) (string, error) { return st.Get(d.NameID) }
