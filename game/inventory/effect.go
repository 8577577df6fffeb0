package inventory

import (
	"fmt"

	"github.com/kasuganosora/gearkeeper/binrec"
	"github.com/kasuganosora/gearkeeper/resource"
)

// Effect sub-record layout inside an item slot.
const (
	EffectSize   = 24
	EffectCount  = 8
	effectsStart = 0x28
)

// Affinity type codes.
const (
	AffinityEvocation = 1
	AffinityUltima    = 2
)

// AffinityColor names an affinity type code. Anything but 1 or 2 is Chaos.
func AffinityColor(code uint8) string {
	switch code {
	case AffinityEvocation:
		return "Evocation"
	case AffinityUltima:
		return "Ultima"
	}
	return "Chaos"
}

// Effect is one special bonus rolled on an item. The reserved byte ranges are
// carried for round trips and never interpreted.
type Effect struct {
	EffectID      uint32
	RawAmount     uint32
	Reserved1     [4]byte
	AffinityLevel uint8 // 0 = no affinity
	AffinityType  uint8
	Reserved2     [10]byte
}

// DecodeEffect reads one 24-byte effect sub-record.
func DecodeEffect(raw []byte) (Effect, error) {
	r := binrec.NewReader(raw)
	if err := r.Require(EffectSize); err != nil {
		return Effect{}, err
	}
	e := Effect{
		EffectID:      r.U32(0x00),
		RawAmount:     r.U32(0x04),
		AffinityLevel: r.U8(0x0C),
		AffinityType:  r.U8(0x0D),
	}
	copy(e.Reserved1[:], r.Bytes(0x08, 4))
	copy(e.Reserved2[:], r.Bytes(0x0E, 10))
	return e, r.Err()
}

func (e Effect) Color() string { return AffinityColor(e.AffinityType) }

// Label is the effect text policy thresholds are keyed by.
func (e Effect) Label(res *resource.Loader) (string, error) {
	return res.EffectLabel(e.EffectID)
}

// Describe renders "(Color: tier) Label: amount", the tier shown zero-based.
func (e Effect) Describe(res *resource.Loader) (string, error) {
	label, err := e.Label(res)
	if err != nil {
		return "", err
	}
	affinity := ""
	if e.AffinityLevel > 0 {
		affinity = fmt.Sprintf("(%s: %d) ", e.Color(), int(e.AffinityLevel)-1)
	}
	return fmt.Sprintf("%s%s: %d", affinity, label, e.RawAmount), nil
}
