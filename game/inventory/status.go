package inventory

import (
	"errors"
	"fmt"
)

// ErrInvalidMarker is returned for marker bits outside 2..31.
var ErrInvalidMarker = errors.New("inventory: invalid marker bit")

// Status is the 32-bit per-slot flag word. Bit 0 flags a new item, bit 1 a
// locked one; the remaining bits are free-form numbered markers.
type Status uint32

const (
	StatusNew    Status = 1 << 0
	StatusLocked Status = 1 << 1
)

const (
	bitNew    = 0
	bitLocked = 1

	FirstMarker = 2
	LastMarker  = 31
)

func (s Status) New() bool    { return s&StatusNew != 0 }
func (s Status) Locked() bool { return s&StatusLocked != 0 }

// Marker reports whether the given marker bit is set.
func (s Status) Marker(bit int) bool {
	return bit >= FirstMarker && bit <= LastMarker && s&(1<<bit) != 0
}

// With returns s with bit set or cleared.
func (s Status) With(bit int, on bool) Status {
	if on {
		return s | 1<<bit
	}
	return s &^ (1 << bit)
}

// Markers lists the set marker bits in ascending order.
func (s Status) Markers() []int {
	var out []int
	for bit := FirstMarker; bit <= LastMarker; bit++ {
		if s.Marker(bit) {
			out = append(out, bit)
		}
	}
	return out
}

// ValidateMarker checks that bit is usable as a workflow marker.
func ValidateMarker(bit int) error {
	if bit < FirstMarker || bit > LastMarker {
		return fmt.Errorf("%w: %d", ErrInvalidMarker, bit)
	}
	return nil
}
