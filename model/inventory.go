package model

import "time"

// ItemInstance is one exported inventory slot. Rows of one run share RunID.
type ItemInstance struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID         string    `gorm:"size:36;not null;index:idx_item_run,priority:1" json:"run_id"`
	SlotIndex     int       `gorm:"not null;index:idx_item_run,priority:2" json:"slot_index"`
	Address       uint64    `json:"address"`
	ItemID        uint32    `gorm:"index" json:"item_id"`
	Name          string    `gorm:"size:128" json:"name"`
	SlotClass     string    `gorm:"size:32" json:"slot_class"`
	Amount        uint16    `json:"amount"`
	Level         uint16    `json:"level"`
	OriginalLevel uint16    `json:"original_level"`
	Rarity        uint8     `json:"rarity"`
	Status        uint32    `json:"status"`
	Locked        bool      `json:"locked"`
	Attack        uint32    `json:"attack"`
	Defense       uint32    `json:"defense"`
	Magic         uint32    `json:"magic"`
	Resist        uint32    `json:"resist"`
	SummonID      uint32    `json:"summon_id"`
	SummonLevel   uint32    `json:"summon_level"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`

	Effects []EffectInstance `gorm:"foreignKey:ItemInstanceID;constraint:OnDelete:CASCADE" json:"effects"`
	Skills  []ItemSkill      `gorm:"foreignKey:ItemInstanceID;constraint:OnDelete:CASCADE" json:"skills"`
	Jobs    []ItemJob        `gorm:"foreignKey:ItemInstanceID;constraint:OnDelete:CASCADE" json:"jobs"`
}

// EffectInstance is one rolled effect on an exported slot.
type EffectInstance struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemInstanceID int64  `gorm:"index;not null" json:"item_instance_id"`
	Position       int    `json:"position"`
	EffectID       uint32 `gorm:"index" json:"effect_id"`
	Label          string `gorm:"size:160" json:"label"`
	RawAmount      uint32 `json:"raw_amount"`
	AffinityLevel  uint8  `json:"affinity_level"`
	AffinityType   uint8  `json:"affinity_type"`
}

// ItemSkill is one skill slot of an exported item.
type ItemSkill struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemInstanceID int64  `gorm:"index;not null" json:"item_instance_id"`
	Position       int    `json:"position"`
	SkillID        uint32 `gorm:"index" json:"skill_id"`
}

// ItemJob is one job affinity slot of an exported item.
type ItemJob struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemInstanceID int64  `gorm:"index;not null" json:"item_instance_id"`
	Position       int    `json:"position"`
	JobID          uint32 `json:"job_id"`
	Level          uint32 `json:"level"`
	Type           uint8  `json:"type"`
}
