package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/kasuganosora/gearkeeper/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	queueSize     = 1024
	batchSize     = 100
	flushInterval = 2 * time.Second
)

// Entry describes one status-word change.
type Entry struct {
	RunID     string
	SlotIndex int
	Address   uint64
	ItemID    uint32
	Action    string // lock, unlock, mark or unmark
	Before    uint32
	After     uint32
	Detail    interface{}
	Err       error
}

// Service journals entries asynchronously in batches.
type Service struct {
	db      *gorm.DB
	ch      chan *model.MarkerChange
	stopCh  chan struct{}
	mu      sync.RWMutex // guards stopped against in-flight sends
	stopped bool
	once    sync.Once
	wg      sync.WaitGroup
	logger  *zap.Logger
}

// New creates a new audit Service and starts its background worker.
func New(db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &Service{
		db:     db,
		ch:     make(chan *model.MarkerChange, queueSize),
		stopCh: make(chan struct{}),
		logger: logger,
	}
	svc.wg.Add(1)
	go svc.worker()
	return svc
}

// Record enqueues an entry for the next batch write. It blocks while the
// queue is full, so no entry is dropped. After Stop the entry is written
// directly.
func (svc *Service) Record(e Entry) {
	detail, err := json.Marshal(e.Detail)
	if err != nil {
		svc.logger.Warn("audit detail not serializable", zap.String("action", e.Action), zap.Error(err))
		detail = []byte("null")
	}
	row := &model.MarkerChange{
		RunID:     e.RunID,
		SlotIndex: e.SlotIndex,
		Address:   e.Address,
		ItemID:    e.ItemID,
		Action:    e.Action,
		Before:    e.Before,
		After:     e.After,
		Detail:    datatypes.JSON(detail),
	}
	if e.Err != nil {
		row.Error = e.Err.Error()
	}

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	if svc.stopped {
		if err := svc.db.Create(row).Error; err != nil {
			svc.logger.Error("audit write failed", zap.String("action", e.Action), zap.Error(err))
		}
		return
	}
	svc.ch <- row
}

// Stop flushes remaining entries and shuts down the worker.
// It blocks until the worker goroutine has finished.
func (svc *Service) Stop(_ context.Context) {
	svc.once.Do(func() {
		svc.mu.Lock()
		svc.stopped = true
		close(svc.stopCh)
		svc.mu.Unlock()
	})
	svc.wg.Wait()
}

func (svc *Service) worker() {
	defer svc.wg.Done()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]*model.MarkerChange, 0, batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := svc.db.CreateInBatches(batch, batchSize).Error; err != nil {
			svc.logger.Error("audit batch write failed", zap.Int("rows", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case row := <-svc.ch:
			batch = append(batch, row)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-svc.stopCh:
			for {
				select {
				case row := <-svc.ch:
					batch = append(batch, row)
				default:
					flush()
					return
				}
			}
		}
	}
}
