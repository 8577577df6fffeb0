package model

// StringEntry is one localized string. The same id may appear in several
// groups, so rows carry their own surrogate key.
type StringEntry struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Language string `gorm:"size:8;not null;index:idx_string_lookup,priority:1" json:"language"`
	Group    string `gorm:"column:group_name;size:64;not null" json:"group"`
	StringID uint32 `gorm:"not null;index:idx_string_lookup,priority:2" json:"string_id"`
	Text     string `gorm:"type:text" json:"text"`
}

// ItemDefinition mirrors one item_database record plus its resolved labels.
type ItemDefinition struct {
	ID        uint32 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	TypeCode  uint16 `gorm:"not null" json:"type_code"`
	Category  string `gorm:"size:32" json:"category"`
	SlotClass string `gorm:"size:32;index" json:"slot_class"`
	SlotType  uint8  `json:"slot_type"`
	StringID  uint32 `json:"string_id"`
	Name      string `gorm:"size:128" json:"name"`
	Raw       []byte `json:"-"`
}

// EffectDefinition mirrors one special_bonus_database record.
type EffectDefinition struct {
	ID       uint32 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	NameID   uint32 `json:"name_id"`
	SuffixID uint32 `json:"suffix_id"`
	Name     string `gorm:"size:128" json:"name"`
	Label    string `gorm:"size:160;index" json:"label"`
	Raw      []byte `json:"-"`
}

// SkillDefinition mirrors one ability_database record.
type SkillDefinition struct {
	ID          uint32 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name        string `gorm:"size:128" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Source      string `gorm:"size:128" json:"source"`
	Raw         []byte `json:"-"`
}

// JobDefinition mirrors one job_database record.
type JobDefinition struct {
	ID        uint32 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name      string `gorm:"size:64" json:"name"`
	Evocation string `gorm:"size:64" json:"evocation"`
	Ultima    string `gorm:"size:64" json:"ultima"`
	Raw       []byte `json:"-"`
}
