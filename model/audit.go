package model

import (
	"time"

	"gorm.io/datatypes"
)

// MarkerChange records one status-word mutation applied during a run.
type MarkerChange struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID     string         `gorm:"index:idx_change_run;size:36;not null" json:"run_id"`
	SlotIndex int            `gorm:"not null" json:"slot_index"`
	Address   uint64         `json:"address"`
	ItemID    uint32         `json:"item_id"`
	Action    string         `gorm:"size:32;not null" json:"action"`
	Before    uint32         `json:"before"`
	After     uint32         `json:"after"`
	Detail    datatypes.JSON `json:"detail"`
	Error     string         `gorm:"type:text" json:"error"`
	CreatedAt time.Time      `gorm:"index:idx_change_created;autoCreateTime:milli" json:"created_at"`
}
