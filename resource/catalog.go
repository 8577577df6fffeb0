package resource

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/kasuganosora/gearkeeper/binrec"
)

var (
	ErrUnreadableCatalog = errors.New("resource: unreadable catalog")
	ErrTruncatedCatalog  = errors.New("resource: truncated catalog")
	ErrUnknownEntry      = errors.New("resource: unknown catalog entry")
)

const catalogHeaderSize = 8

// Entry is implemented by every catalog record type.
type Entry interface {
	EntryID() uint32
}

// DecodeFunc turns one fixed-size record into an entry.
type DecodeFunc[T Entry] func(raw []byte) (T, error)

// Catalog is the id-keyed table for one entity kind.
type Catalog[T Entry] struct {
	entries    map[uint32]T
	duplicates []uint32
}

// NewCatalog builds a catalog from decoded entries, last one winning per id.
func NewCatalog[T Entry](entries ...T) *Catalog[T] {
	c := &Catalog[T]{entries: make(map[uint32]T, len(entries))}
	for _, e := range entries {
		c.put(e)
	}
	return c
}

func (c *Catalog[T]) put(e T) {
	id := e.EntryID()
	if _, dup := c.entries[id]; dup {
		c.duplicates = append(c.duplicates, id)
	}
	c.entries[id] = e
}

// ParseCatalog decodes a "u32 reserved, u32 count" header followed by count
// records of recordSize bytes. A repeated id replaces the earlier record.
func ParseCatalog[T Entry](buf []byte, recordSize int, decode DecodeFunc[T]) (*Catalog[T], error) {
	r := binrec.NewReader(buf)
	if err := r.Require(catalogHeaderSize); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedCatalog, err)
	}
	count := int(r.U32(4))
	if need := catalogHeaderSize + count*recordSize; len(buf) < need {
		return nil, fmt.Errorf("%w: %d records of %d bytes need %d bytes, have %d",
			ErrTruncatedCatalog, count, recordSize, need, len(buf))
	}

	c := &Catalog[T]{entries: make(map[uint32]T, count)}
	for i := 0; i < count; i++ {
		off := catalogHeaderSize + i*recordSize
		// full slice expression so entries cannot grow into their neighbour
		e, err := decode(buf[off : off+recordSize : off+recordSize])
		if err != nil {
			return nil, fmt.Errorf("resource: record %d: %w", i, err)
		}
		c.put(e)
	}
	return c, nil
}

// LoadCatalog reads path and parses it with ParseCatalog.
func LoadCatalog[T Entry](path string, recordSize int, decode DecodeFunc[T]) (*Catalog[T], error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableCatalog, err)
	}
	c, err := ParseCatalog(buf, recordSize, decode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Get returns the entry with the given id.
func (c *Catalog[T]) Get(id uint32) (T, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// Lookup is Get with an ErrUnknownEntry error instead of a flag.
func (c *Catalog[T]) Lookup(id uint32) (T, error) {
	e, ok := c.entries[id]
	if !ok {
		return e, fmt.Errorf("%w: %d", ErrUnknownEntry, id)
	}
	return e, nil
}

func (c *Catalog[T]) Len() int { return len(c.entries) }

// Duplicates lists ids that appeared more than once while loading.
func (c *Catalog[T]) Duplicates() []uint32 { return c.duplicates }

// IDs returns all ids in ascending order.
func (c *Catalog[T]) IDs() []uint32 {
	ids := make([]uint32, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Each calls fn for every entry in ascending id order.
func (c *Catalog[T]) Each(fn func(T)) {
	for _, id := range c.IDs() {
		fn(c.entries[id])
	}
}
