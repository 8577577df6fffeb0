package testutil

import (
	"github.com/kasuganosora/gearkeeper/binrec"
)

// Layout constants mirrored from the decoders so fixtures stay independent of
// the packages under test.
const (
	ItemRecordSize   = 0x148
	EffectRecordSize = 24
	ItemDefSize      = 388
	EffectDefSize    = 96
	SkillDefSize     = 104
	JobDefSize       = 100
)

// EffectSpec describes one 24-byte effect sub-record.
type EffectSpec struct {
	ID        uint32
	Amount    uint32
	Level     uint8
	Type      uint8
	Reserved1 [4]byte
	Reserved2 [10]byte
}

// JobSpec is one job affinity triple.
type JobSpec struct {
	ID    uint32
	Level uint32
	Type  uint8
}

// ItemSpec describes one inventory slot record.
type ItemSpec struct {
	ID            uint32
	IDCopy        *uint32 // nil = same as ID
	Amount        uint16
	Level         uint16
	OriginalLevel uint16
	Rarity        uint8
	Status        uint32
	SlotPos       [2]uint32
	Effects       []EffectSpec // at most 8; placed in order
	Attack        uint32
	Defense       uint32
	Magic         uint32
	Resist        uint32
	Jobs          [2]JobSpec
	Skills        [4]uint32
	Summon        [2]uint32
}

// Bytes encodes the item in the live memory layout.
func (s ItemSpec) Bytes() []byte {
	b := make([]byte, ItemRecordSize)
	binrec.PutU32(b, 0x00, s.ID)
	cp := s.ID
	if s.IDCopy != nil {
		cp = *s.IDCopy
	}
	binrec.PutU32(b, 0x04, cp)
	binrec.PutU16(b, 0x08, s.Amount)
	binrec.PutU16(b, 0x0A, s.Level)
	b[0x0C] = s.Rarity
	binrec.PutU32(b, 0x10, s.Status)
	binrec.PutU32(b, 0x14, s.SlotPos[0])
	binrec.PutU32(b, 0x18, s.SlotPos[1])
	for i, e := range s.Effects {
		copy(b[0x28+i*EffectRecordSize:], e.Bytes())
	}
	binrec.PutU32(b, 0xE8, s.Attack)
	binrec.PutU32(b, 0xEC, s.Defense)
	binrec.PutU32(b, 0xF0, s.Magic)
	binrec.PutU32(b, 0xF4, s.Resist)
	for i, j := range s.Jobs {
		off := 0x110 + i*0x0C
		binrec.PutU32(b, off, j.ID)
		binrec.PutU32(b, off+4, j.Level)
		b[off+8] = j.Type
	}
	for i, sk := range s.Skills {
		binrec.PutU32(b, 0x128+i*4, sk)
	}
	binrec.PutU16(b, 0x13A, s.OriginalLevel)
	binrec.PutU32(b, 0x13C, s.Summon[0])
	binrec.PutU32(b, 0x140, s.Summon[1])
	return b
}

// Bytes encodes the effect sub-record.
func (e EffectSpec) Bytes() []byte {
	b := make([]byte, EffectRecordSize)
	binrec.PutU32(b, 0x00, e.ID)
	binrec.PutU32(b, 0x04, e.Amount)
	copy(b[0x08:0x0C], e.Reserved1[:])
	b[0x0C] = e.Level
	b[0x0D] = e.Type
	copy(b[0x0E:0x18], e.Reserved2[:])
	return b
}

// Mismatched returns a slot whose two id copies disagree.
func Mismatched(id, copyID uint32) []byte {
	return ItemSpec{ID: id, IDCopy: &copyID}.Bytes()
}

// SnapshotFile builds "u32 0, u32 count" followed by the records.
func SnapshotFile(records ...[]byte) []byte {
	return CatalogFile(records...)
}

// CatalogFile builds a definition file: "u32 reserved, u32 count" + records.
func CatalogFile(records ...[]byte) []byte {
	b := make([]byte, 8)
	binrec.PutU32(b, 4, uint32(len(records)))
	for _, r := range records {
		b = append(b, r...)
	}
	return b
}

// ItemDefRecord builds one item_database record.
func ItemDefRecord(id uint32, typeCode uint16, stringID uint32, slotType uint8) []byte {
	b := make([]byte, ItemDefSize)
	binrec.PutU32(b, 0, id)
	binrec.PutU16(b, 4, typeCode)
	binrec.PutU32(b, 8, stringID)
	b[336] = slotType
	return b
}

// EffectDefRecord builds one special_bonus_database record.
func EffectDefRecord(id, nameID, suffixID uint32) []byte {
	b := make([]byte, EffectDefSize)
	binrec.PutU32(b, 0, id)
	binrec.PutU32(b, 40, nameID)
	binrec.PutU32(b, 52, suffixID)
	return b
}

// SkillDefRecord builds one ability_database record.
func SkillDefRecord(id, nameID, descID, sourceID uint32) []byte {
	b := make([]byte, SkillDefSize)
	binrec.PutU32(b, 0, id)
	binrec.PutU32(b, 16, nameID)
	binrec.PutU32(b, 20, descID)
	binrec.PutU32(b, 24, sourceID)
	return b
}

// JobDefRecord builds one job_database record.
func JobDefRecord(id uint8, nameID, evocationID, ultimaID uint32) []byte {
	b := make([]byte, JobDefSize)
	b[12] = id
	binrec.PutU32(b, 16, nameID)
	binrec.PutU32(b, 20, evocationID)
	binrec.PutU32(b, 24, ultimaID)
	return b
}

// StringEntry is one (id, text) pair of a language file.
type StringEntry struct {
	ID   uint32
	Text string
}

// StringFile packs entries in the language file format.
func StringFile(entries ...StringEntry) []byte {
	var b []byte
	for _, e := range entries {
		text := binrec.EncodeUTF16(e.Text)
		head := make([]byte, 8)
		binrec.PutU32(head, 0, e.ID)
		binrec.PutU32(head, 4, uint32(len(text)/2))
		b = append(b, head...)
		b = append(b, text...)
	}
	return b
}
