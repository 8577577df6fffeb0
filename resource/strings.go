package resource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kasuganosora/gearkeeper/binrec"
)

var (
	// ErrStringNotFound is returned by StringTable.Get for an id no group holds.
	ErrStringNotFound = errors.New("resource: string not found")
	// ErrTruncatedStrings is returned when a language file ends mid-record.
	ErrTruncatedStrings = errors.New("resource: truncated string file")
)

// Reserved string ids meaning "no string".
const (
	NoString      uint32 = 0
	NoStringAlt   uint32 = 0xFFFFFFFF
	stringHeadLen        = 8
)

// StringGroup is the decoded content of one language file.
type StringGroup struct {
	Name    string
	Entries map[uint32]string
	order   []uint32
}

// IDs returns the string ids in file order.
func (g *StringGroup) IDs() []uint32 { return g.order }

// StringTable merges every language file into one id → text lookup.
// It is immutable once loaded.
type StringTable struct {
	groups []*StringGroup
}

// NewStringTable builds a table from already decoded groups; lookups scan
// groups in the given order.
func NewStringTable(groups ...*StringGroup) *StringTable {
	return &StringTable{groups: groups}
}

// LoadStrings decodes every "*_<language>.bin" file in dir. Files are visited
// in lexical order, which is also the lookup order.
func LoadStrings(dir, language string) (*StringTable, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*_"+language+".bin"))
	if err != nil {
		return nil, fmt.Errorf("resource: glob strings: %w", err)
	}
	st := &StringTable{}
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("resource: read %s: %w", p, err)
		}
		g, err := ParseStringGroup(groupName(p, language), raw)
		if err != nil {
			return nil, fmt.Errorf("resource: %s: %w", p, err)
		}
		st.groups = append(st.groups, g)
	}
	return st, nil
}

// groupName strips the directory, extension and "_<language>" suffix.
func groupName(path, language string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.TrimSuffix(stem, "_"+language)
}

// ParseStringGroup decodes packed (id, unit count, UTF-16LE text) records
// until the end of raw.
func ParseStringGroup(name string, raw []byte) (*StringGroup, error) {
	g := &StringGroup{Name: name, Entries: make(map[uint32]string)}
	r := binrec.NewReader(raw)
	off := 0
	for off < len(raw) {
		if len(raw)-off < stringHeadLen {
			return nil, fmt.Errorf("%w: header at %#x", ErrTruncatedStrings, off)
		}
		id := r.U32(off)
		units := int(r.U32(off + 4))
		size := units * 2
		if len(raw)-off-stringHeadLen < size {
			return nil, fmt.Errorf("%w: string %d at %#x wants %d bytes", ErrTruncatedStrings, id, off, size)
		}
		text := r.UTF16(binrec.Field{Offset: off + stringHeadLen, Width: size})
		if err := r.Err(); err != nil {
			return nil, err
		}
		if _, seen := g.Entries[id]; !seen {
			g.order = append(g.order, id)
		}
		g.Entries[id] = text
		off += stringHeadLen + size
	}
	return g, nil
}

// Get returns the text for id. The reserved ids resolve to "".
func (st *StringTable) Get(id uint32) (string, error) {
	if id == NoString || id == NoStringAlt {
		return "", nil
	}
	for _, g := range st.groups {
		if s, ok := g.Entries[id]; ok {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %d", ErrStringNotFound, id)
}

// Text is Get for display-only call sites: a missing id becomes "".
func (st *StringTable) Text(id uint32) string {
	s, err := st.Get(id)
	if err != nil {
		return ""
	}
	return s
}

// Groups returns the loaded groups in lookup order.
func (st *StringTable) Groups() []*StringGroup { return st.groups }

// Len is the total number of entries over all groups.
func (st *StringTable) Len() int {
	n := 0
	for _, g := range st.groups {
		n += len(g.Entries)
	}
	return n
}
