package inventory

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kasuganosora/gearkeeper/binrec"
	"github.com/kasuganosora/gearkeeper/memory"
)

// DefaultCapacity is the number of inventory slots the game allocates.
const DefaultCapacity = 5500

const snapshotHeaderSize = 8

// ErrSnapshotTooLarge is returned when a file holds more records than the
// inventory can.
var ErrSnapshotTooLarge = errors.New("inventory: snapshot exceeds capacity")

// Snapshot is the ordered inventory of one run.
type Snapshot struct {
	Items []*Item
}

// decodeArray decodes count consecutive slots from buf. addr is the address
// of buf[0]; every item records its own address. Any invalid slot aborts.
func decodeArray(buf []byte, addr uint64, count int, backing Patcher) ([]*Item, error) {
	if len(buf) < count*RecordSize {
		return nil, fmt.Errorf("%w: %d slots need %d bytes, have %d",
			binrec.ErrTruncatedRecord, count, count*RecordSize, len(buf))
	}
	items := make([]*Item, 0, count)
	for i := 0; i < count; i++ {
		off := i * RecordSize
		it, err := DecodeItem(buf[off : off+RecordSize])
		if err != nil {
			return nil, fmt.Errorf("inventory: slot %d: %w", i, err)
		}
		it.Index = i
		it.Address = addr + uint64(off)
		it.backing = backing
		items = append(items, it)
	}
	return items, nil
}

// ParseSnapshot decodes the "u32 reserved, u32 count" file format. Item
// addresses are their byte offsets inside buf.
func ParseSnapshot(buf []byte, capacity int) (*Snapshot, error) {
	r := binrec.NewReader(buf)
	if err := r.Require(snapshotHeaderSize); err != nil {
		return nil, err
	}
	count := int(r.U32(4))
	if capacity > 0 && count > capacity {
		return nil, fmt.Errorf("%w: %d > %d", ErrSnapshotTooLarge, count, capacity)
	}
	items, err := decodeArray(buf[snapshotHeaderSize:], snapshotHeaderSize, count, nil)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Items: items}, nil
}

// LoadSnapshot reads a snapshot file.
func LoadSnapshot(path string, capacity int) (*Snapshot, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("inventory: read snapshot: %w", err)
	}
	return ParseSnapshot(buf, capacity)
}

// ReadSnapshot bulk-reads capacity slots starting at the absolute address
// base and decodes them. Items write status changes back through acc.
func ReadSnapshot(acc memory.Accessor, base uint64, capacity int) (*Snapshot, error) {
	buf, err := acc.ReadBytes(base, capacity*RecordSize)
	if err != nil {
		return nil, fmt.Errorf("inventory: read inventory at %#x: %w", base, err)
	}
	items, err := decodeArray(buf, base, capacity, acc)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Items: items}, nil
}

// WriteTo writes the snapshot file format: header then every record as it
// currently stands.
func (s *Snapshot) WriteTo(w io.Writer) (int64, error) {
	head := make([]byte, snapshotHeaderSize)
	binrec.PutU32(head, 4, uint32(len(s.Items)))
	n, err := w.Write(head)
	total := int64(n)
	if err != nil {
		return total, err
	}
	for _, it := range s.Items {
		n, err = w.Write(it.Bytes())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Save writes the snapshot to path.
func (s *Snapshot) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("inventory: create snapshot: %w", err)
	}
	bw := bufio.NewWriter(f)
	if _, err := s.WriteTo(bw); err != nil {
		f.Close()
		return fmt.Errorf("inventory: write snapshot: %w", err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("inventory: write snapshot: %w", err)
	}
	return f.Close()
}

// Len is the number of slots.
func (s *Snapshot) Len() int { return len(s.Items) }

// Size is the encoded file size in bytes.
func (s *Snapshot) Size() int { return snapshotHeaderSize + len(s.Items)*RecordSize }
