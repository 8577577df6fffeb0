package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kasuganosora/gearkeeper/cache"
	"github.com/kasuganosora/gearkeeper/memory"
	"go.uber.org/zap"
)

// ErrOffsetNotFound is returned when no pattern match leads to a decodable
// inventory array.
var ErrOffsetNotFound = errors.New("inventory: inventory offset not found")

// PotionPattern is the redundant-id encoding of the basic potion (id 0x5E7),
// which nearly every save carries.
var PotionPattern = []byte{0xE7, 0x05, 0x00, 0x00, 0xE7, 0x05, 0x00, 0x00}

// Locator finds the inventory array inside external memory. The offset is
// found once and reused for the lifetime of the Locator.
type Locator struct {
	acc      memory.Accessor
	capacity int
	logger   *zap.Logger

	cache cache.Cache
	key   string
	ttl   time.Duration

	offset uint64
	found  bool
}

// NewLocator creates a Locator for an inventory of capacity slots.
func NewLocator(acc memory.Accessor, capacity int, logger *zap.Logger) *Locator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Locator{acc: acc, capacity: capacity, logger: logger}
}

// WithCache persists the discovered offset under key so later runs can skip
// the scan. A cached value is re-validated before it is trusted.
func (l *Locator) WithCache(c cache.Cache, key string, ttl time.Duration) *Locator {
	l.cache = c
	l.key = key
	l.ttl = ttl
	return l
}

// Locate returns the array offset relative to the accessor base address.
func (l *Locator) Locate(ctx context.Context) (uint64, error) {
	off, _, err := l.locate(ctx)
	return off, err
}

// Snapshot locates the array and decodes every slot.
func (l *Locator) Snapshot(ctx context.Context) (*Snapshot, error) {
	off, snap, err := l.locate(ctx)
	if err != nil {
		return nil, err
	}
	if snap != nil {
		return snap, nil
	}
	return ReadSnapshot(l.acc, l.acc.BaseAddress()+off, l.capacity)
}

// locate returns the offset and, when validation had to decode the array,
// the decoded snapshot.
func (l *Locator) locate(ctx context.Context) (uint64, *Snapshot, error) {
	if l.found {
		return l.offset, nil, nil
	}
	base := l.acc.BaseAddress()

	if off, ok := l.cached(ctx); ok {
		snap, err := ReadSnapshot(l.acc, base+off, l.capacity)
		if err == nil {
			l.logger.Info("inventory offset from cache", zap.Uint64("offset", off))
			l.offset, l.found = off, true
			return off, snap, nil
		}
		l.logger.Warn("cached inventory offset is stale", zap.Uint64("offset", off), zap.Error(err))
		if err := l.cache.Del(ctx, l.key); err != nil {
			l.logger.Warn("drop cached offset", zap.Error(err))
		}
	}

	matches, err := l.acc.FindOccurrences(PotionPattern)
	if err != nil {
		return 0, nil, fmt.Errorf("inventory: pattern search: %w", err)
	}
	l.logger.Debug("pattern matches", zap.Int("count", len(matches)))

	for _, m := range matches {
		start := l.scanBack(m)
		snap, err := ReadSnapshot(l.acc, start, l.capacity)
		if err != nil {
			l.logger.Debug("candidate rejected", zap.Uint64("address", start), zap.Error(err))
			continue
		}
		off := start - base
		l.offset, l.found = off, true
		l.logger.Info("inventory located", zap.Uint64("address", start), zap.Uint64("offset", off))
		l.remember(ctx, off)
		return off, snap, nil
	}
	return 0, nil, fmt.Errorf("%w: %d pattern matches", ErrOffsetNotFound, len(matches))
}

// scanBack walks backward from a known-valid slot while the preceding slot
// still decodes. The first unreadable or invalid position ends the walk.
func (l *Locator) scanBack(addr uint64) uint64 {
	floor := l.acc.BaseAddress()
	for addr >= floor+RecordSize {
		prev := addr - RecordSize
		raw, err := l.acc.ReadBytes(prev, RecordSize)
		if err != nil {
			break
		}
		if _, err := DecodeItem(raw); err != nil {
			break
		}
		addr = prev
	}
	return addr
}

func (l *Locator) cached(ctx context.Context) (uint64, bool) {
	if l.cache == nil {
		return 0, false
	}
	v, err := l.cache.Get(ctx, l.key)
	if err != nil {
		if !cache.IsNotFound(err) {
			l.logger.Warn("read cached offset", zap.Error(err))
		}
		return 0, false
	}
	off, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		l.logger.Warn("malformed cached offset", zap.String("value", v))
		return 0, false
	}
	return off, true
}

func (l *Locator) remember(ctx context.Context, off uint64) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Set(ctx, l.key, strconv.FormatUint(off, 10), l.ttl); err != nil {
		l.logger.Warn("store offset", zap.Error(err))
	}
}
