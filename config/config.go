package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Game     GameConfig     `mapstructure:"game"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Policy   PolicyConfig   `mapstructure:"policy"`
	Upgrade  UpgradeConfig  `mapstructure:"upgrade"`
}

type AppConfig struct {
	Debug bool `mapstructure:"debug"`
}

type GameConfig struct {
	InstallDir        string `mapstructure:"install_dir"` // contains string/ and database/
	Language          string `mapstructure:"language"`
	ProcessName       string `mapstructure:"process_name"`
	InventoryCapacity int    `mapstructure:"inventory_capacity"`
	MemoryDump        string `mapstructure:"memory_dump"`  // raw process image; empty = use SnapshotPath
	BaseAddress       uint64 `mapstructure:"base_address"` // address of the first byte of MemoryDump
	SnapshotPath      string `mapstructure:"snapshot_path"`
}

type DatabaseConfig struct {
	Mode         string        `mapstructure:"mode"` // "" (export disabled) | sqlite | mysql
	SQLitePath   string        `mapstructure:"sqlite_path"`
	MySQLDSN     string        `mapstructure:"mysql_dsn"`
	MySQLMaxOpen int           `mapstructure:"mysql_max_open"`
	MySQLMaxIdle int           `mapstructure:"mysql_max_idle"`
	MySQLMaxLife time.Duration `mapstructure:"mysql_max_life"`
}

// CacheConfig selects where the inventory offset is remembered: Redis when
// redis_addr is set, otherwise the database settings table.
type CacheConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	OffsetTTL     time.Duration `mapstructure:"offset_ttl"`
}

// PolicyConfig holds the retention thresholds. Effect names and slot classes are
// free text, so they are lists rather than map keys (viper folds key case).
type PolicyConfig struct {
	Effects         []EffectThreshold `mapstructure:"effects"`
	Artifacts       []ArtifactRule    `mapstructure:"artifacts"`
	MinimumAffinity []SlotAffinity    `mapstructure:"minimum_affinity"`
	Skills          SkillsConfig      `mapstructure:"skills"`
}

type EffectThreshold struct {
	Name     string `mapstructure:"name"`
	MinLevel int    `mapstructure:"min_level"`
}

type ArtifactRule struct {
	Slot string `mapstructure:"slot"`
	Rule string `mapstructure:"rule"` // keep | blessed | off
}

type SlotAffinity struct {
	Slot  string `mapstructure:"slot"`
	Level int    `mapstructure:"level"`
}

type SkillsConfig struct {
	KeepOneWeaponSkill    bool `mapstructure:"keep_one_weapon_skill"`
	KeepOneAccessorySkill bool `mapstructure:"keep_one_accessory_skill"`
}

type UpgradeConfig struct {
	InputMarker  int `mapstructure:"input_marker"`
	OutputMarker int `mapstructure:"output_marker"`
}

// Load reads config from the given YAML file path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("app.debug", false)
	v.SetDefault("game.language", "eng")
	v.SetDefault("game.process_name", "SOPFFO.exe")
	v.SetDefault("game.inventory_capacity", 5500)
	v.SetDefault("game.base_address", 0)
	v.SetDefault("database.sqlite_path", "./data/inventory.db")
	v.SetDefault("database.mysql_max_open", 4)
	v.SetDefault("database.mysql_max_idle", 2)
	v.SetDefault("database.mysql_max_life", "1h")
	v.SetDefault("cache.key_prefix", "gearkeeper:")
	v.SetDefault("cache.offset_ttl", "12h")
	v.SetDefault("policy.skills.keep_one_weapon_skill", false)
	v.SetDefault("policy.skills.keep_one_accessory_skill", false)
	v.SetDefault("upgrade.input_marker", 2)
	v.SetDefault("upgrade.output_marker", 3)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
