package model

import "time"

// Setting is one persisted key/value pair, such as a discovered inventory
// offset. A nil ExpiresAt never expires.
type Setting struct {
	Key       string     `gorm:"column:setting_key;primaryKey;size:191" json:"key"`
	Value     string     `gorm:"type:text;not null" json:"value"`
	ExpiresAt *time.Time `gorm:"index:idx_setting_expires" json:"expires_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime:milli" json:"updated_at"`
}
