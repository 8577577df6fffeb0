// Package keeper runs the inventory workflows: unlock, clear markers, lock
// the items worth keeping and mark upgrades.
package keeper

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/kasuganosora/gearkeeper/audit"
	"github.com/kasuganosora/gearkeeper/game/inventory"
	"github.com/kasuganosora/gearkeeper/game/retention"
	"github.com/kasuganosora/gearkeeper/game/upgrade"
	"github.com/kasuganosora/gearkeeper/policy"
	"github.com/kasuganosora/gearkeeper/resource"
	"go.uber.org/zap"
)

// Journal receives every status change. *audit.Service implements it.
type Journal interface {
	Record(e audit.Entry)
}

// Action names stored in the journal.
const (
	ActionLock   = "lock"
	ActionUnlock = "unlock"
	ActionMark   = "mark"
	ActionUnmark = "unmark"
)

// Service applies workflows to a snapshot. One Service is one run.
type Service struct {
	res     *resource.Loader
	pol     *policy.Policy
	journal Journal
	runID   string
	logger  *zap.Logger
}

// NewService creates a Service with a fresh run id. journal may be nil.
func NewService(res *resource.Loader, pol *policy.Policy, journal Journal, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Service{
		res:     res,
		pol:     pol,
		journal: journal,
		runID:   id,
		logger:  logger.With(zap.String("run_id", id)),
	}
}

// RunID identifies this run in the journal and the export tables.
func (s *Service) RunID() string { return s.runID }

// UnlockAll clears the locked bit on every slot and returns how many changed.
func (s *Service) UnlockAll(snap *inventory.Snapshot) (int, error) {
	n := 0
	for _, it := range snap.Items {
		if !it.Status.Locked() {
			continue
		}
		if err := s.apply(it, ActionUnlock, nil, func() error { return it.SetLocked(false) }); err != nil {
			return n, err
		}
		n++
	}
	s.logger.Info("unlocked items", zap.Int("count", n))
	return n, nil
}

// ClearMarkers clears the given marker bits on every slot.
func (s *Service) ClearMarkers(snap *inventory.Snapshot, bits ...int) (int, error) {
	for _, bit := range bits {
		if err := inventory.ValidateMarker(bit); err != nil {
			return 0, err
		}
	}
	n := 0
	for _, it := range snap.Items {
		for _, bit := range bits {
			if !it.HasMarker(bit) {
				continue
			}
			detail := map[string]int{"bit": bit}
			if err := s.apply(it, ActionUnmark, detail, func() error { return it.SetMarker(bit, false) }); err != nil {
				return n, err
			}
			n++
		}
	}
	s.logger.Info("cleared markers", zap.Ints("bits", bits), zap.Int("count", n))
	return n, nil
}

// LockKept unlocks everything, then locks the retention filter's result.
func (s *Service) LockKept(snap *inventory.Snapshot) ([]*inventory.Item, error) {
	if _, err := s.UnlockAll(snap); err != nil {
		return nil, err
	}
	kept, err := retention.Filter(snap.Items, s.res, s.pol)
	if err != nil {
		return nil, err
	}
	for _, it := range kept {
		if it.Status.Locked() {
			continue
		}
		if err := s.apply(it, ActionLock, nil, func() error { return it.SetLocked(true) }); err != nil {
			return kept, err
		}
	}
	s.logger.Info("locked kept items", zap.Int("kept", len(kept)), zap.Int("slots", snap.Len()))
	return kept, nil
}

// MarkUpgrades runs the upgrade detector and journals the marked items.
func (s *Service) MarkUpgrades(snap *inventory.Snapshot, input, output int) (*upgrade.Report, error) {
	before := make(map[*inventory.Item]inventory.Status, snap.Len())
	for _, it := range snap.Items {
		before[it] = it.Status
	}
	rep, err := upgrade.Detect(snap.Items, s.res, input, output)
	if rep != nil {
		for _, it := range rep.Marked {
			s.record(it, ActionMark, before[it], map[string]int{"bit": output, "candidate_bit": input}, nil)
		}
	}
	if err != nil {
		return rep, err
	}
	s.logger.Info("upgrades detected",
		zap.Int("candidates", len(rep.Candidates)), zap.Int("marked", len(rep.Marked)))
	return rep, nil
}

// Persist saves the snapshot in the inventory file format.
func (s *Service) Persist(snap *inventory.Snapshot, path string) error {
	if err := snap.Save(path); err != nil {
		return err
	}
	s.logger.Info("snapshot saved", zap.String("path", path), zap.Int("slots", snap.Len()))
	return nil
}

func (s *Service) apply(it *inventory.Item, action string, detail interface{}, fn func() error) error {
	before := it.Status
	err := fn()
	s.record(it, action, before, detail, err)
	if err != nil {
		return fmt.Errorf("keeper: %s slot %d: %w", action, it.Index, err)
	}
	return nil
}

func (s *Service) record(it *inventory.Item, action string, before inventory.Status, detail interface{}, err error) {
	if s.journal == nil {
		return
	}
	s.journal.Record(audit.Entry{
		RunID:     s.runID,
		SlotIndex: it.Index,
		Address:   it.Address,
		ItemID:    it.ItemID,
		Action:    action,
		Before:    uint32(before),
		After:     uint32(it.Status),
		Detail:    detail,
		Err:       err,
	})
}
