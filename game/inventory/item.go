package inventory

import (
	"errors"
	"fmt"

	"github.com/kasuganosora/gearkeeper/binrec"
	"github.com/kasuganosora/gearkeeper/resource"
)

// ErrInvalidItemRecord marks a slot whose two id copies disagree. Offset
// discovery uses it as the array boundary sentinel.
var ErrInvalidItemRecord = errors.New("inventory: invalid item record")

// RecordSize is the size of one inventory slot.
const RecordSize = 0x148

const statusOffset = 0x10

// Patcher receives single-byte write-backs for items read from live memory.
type Patcher interface {
	WriteByteAt(addr uint64, v byte) error
}

// JobAffinity is one job slot on an item. JobID 0 means no job assigned.
type JobAffinity struct {
	JobID uint32
	Level uint32
	Type  uint8
}

func (j JobAffinity) Empty() bool { return j.JobID == 0 }

// Describe renders "Job (Color) level"; empty for an unassigned slot.
func (j JobAffinity) Describe(res *resource.Loader) (string, error) {
	if j.Empty() {
		return "", nil
	}
	name, err := res.JobName(j.JobID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (%s) %d", name, AffinityColor(j.Type), j.Level), nil
}

// Summon is the summon reference carried by blessed items.
type Summon struct {
	ID    uint32
	Level uint32
}

func (s Summon) Empty() bool { return s.ID == 0 }

// Item is one decoded inventory slot.
type Item struct {
	Index   int    // position in the snapshot
	Address uint64 // memory address or file offset the record was read from
	raw     []byte
	backing Patcher

	ItemID        uint32
	Amount        uint16
	Level         uint16
	OriginalLevel uint16
	Rarity        uint8
	Status        Status
	SlotPos       [2]uint32
	Effects       []Effect

	Attack  uint32
	Defense uint32
	Magic   uint32
	Resist  uint32

	Jobs   [2]JobAffinity
	Skills [4]uint32
	Summon Summon
}

// DecodeItem decodes one slot record. raw is retained, not copied.
func DecodeItem(raw []byte) (*Item, error) {
	r := binrec.NewReader(raw)
	if err := r.Require(RecordSize); err != nil {
		return nil, err
	}
	raw = raw[:RecordSize:RecordSize]

	id, idCopy := r.U32(0x00), r.U32(0x04)
	if id != idCopy {
		return nil, fmt.Errorf("%w: ids %#x and %#x differ", ErrInvalidItemRecord, id, idCopy)
	}

	it := &Item{
		raw:           raw,
		ItemID:        id,
		Amount:        r.U16(0x08),
		Level:         r.U16(0x0A),
		Rarity:        r.U8(0x0C),
		Status:        Status(r.U32(statusOffset)),
		SlotPos:       [2]uint32{r.U32(0x14), r.U32(0x18)},
		Attack:        r.U32(0xE8),
		Defense:       r.U32(0xEC),
		Magic:         r.U32(0xF0),
		Resist:        r.U32(0xF4),
		OriginalLevel: r.U16(0x13A),
		Summon:        Summon{ID: r.U32(0x13C), Level: r.U32(0x140)},
	}
	for i := range it.Jobs {
		off := 0x110 + i*0x0C
		it.Jobs[i] = JobAffinity{JobID: r.U32(off), Level: r.U32(off + 4), Type: r.U8(off + 8)}
	}
	for i := range it.Skills {
		it.Skills[i] = r.U32(0x128 + i*4)
	}
	for i := 0; i < EffectCount; i++ {
		off := effectsStart + i*EffectSize
		e, err := DecodeEffect(r.Bytes(off, EffectSize))
		if err != nil {
			return nil, err
		}
		if e.EffectID != 0 {
			it.Effects = append(it.Effects, e)
		}
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return it, nil
}

// Bytes returns the current record bytes, including status changes.
func (it *Item) Bytes() []byte { return it.raw }

// Live reports whether status changes are written back to external memory.
func (it *Item) Live() bool { return it.backing != nil }

// Hex renders the record for diagnostics.
func (it *Item) Hex() string { return resource.HexDump(it.raw) }

// ---- status mutation ----

func (it *Item) SetLocked(on bool) error { return it.setBit(bitLocked, on) }
func (it *Item) SetNew(on bool) error    { return it.setBit(bitNew, on) }

// SetMarker sets or clears a numbered marker bit.
func (it *Item) SetMarker(bit int, on bool) error {
	if err := ValidateMarker(bit); err != nil {
		return err
	}
	return it.setBit(bit, on)
}

// HasMarker reports whether marker bit is set; invalid bits are never set.
func (it *Item) HasMarker(bit int) bool { return it.Status.Marker(bit) }

// setBit recomputes the status word and patches only the byte holding bit.
// Local state is left untouched when the write-back fails.
func (it *Item) setBit(bit int, on bool) error {
	next := it.Status.With(bit, on)
	if next == it.Status {
		return nil
	}
	idx := bit / 8
	v := byte(uint32(next) >> (8 * idx))
	if it.backing != nil {
		addr := it.Address + statusOffset + uint64(idx)
		if err := it.backing.WriteByteAt(addr, v); err != nil {
			return fmt.Errorf("inventory: write status of slot %d at %#x: %w", it.Index, addr, err)
		}
	}
	it.raw[statusOffset+idx] = v
	it.Status = next
	return nil
}

// ---- derived properties ----

// Definition returns the catalog entry for the item id.
func (it *Item) Definition(res *resource.Loader) (*resource.ItemDef, bool) {
	return res.Items.Get(it.ItemID)
}

// DisplayName resolves the item name; id 0 yields "(none)".
func (it *Item) DisplayName(res *resource.Loader) (string, error) {
	return res.ItemName(it.ItemID)
}

// Category is the item category label, "(none)" for an empty slot and
// "(unknown)" when the definition is missing.
func (it *Item) Category(res *resource.Loader) string {
	if it.ItemID == 0 {
		return "(none)"
	}
	d, ok := it.Definition(res)
	if !ok {
		return resource.UnknownCategory
	}
	return d.Category()
}

// SlotClass is "" for anything that is not equipment.
func (it *Item) SlotClass(res *resource.Loader) string {
	d, ok := it.Definition(res)
	if !ok {
		return ""
	}
	return d.SlotClass()
}

// EquipSlots lists the equipment slots the item competes for.
func (it *Item) EquipSlots(res *resource.Loader) []string {
	d, ok := it.Definition(res)
	if !ok {
		return nil
	}
	return d.EquipSlots()
}

// SkillIDs returns the non-zero skill ids in slot order.
func (it *Item) SkillIDs() []uint32 {
	var out []uint32
	for _, s := range it.Skills {
		if s != 0 {
			out = append(out, s)
		}
	}
	return out
}
