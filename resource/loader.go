package resource

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Definition file locations relative to the install directory.
const (
	StringDir    = "string"
	ItemDBPath   = "database/item_database.bin"
	EffectDBPath = "database/special_bonus_database.bin"
	SkillDBPath  = "database/P0030_ability_database.bin"
	JobDBPath    = "database/P0031_job_database.bin"
)

// Loader holds all static game data. It is filled once by Load and read-only
// afterwards; consumers receive it by pointer.
type Loader struct {
	InstallDir string
	Language   string

	Strings *StringTable
	Items   *Catalog[*ItemDef]
	Effects *Catalog[*EffectDef]
	Skills  *Catalog[*SkillDef]
	Jobs    *Catalog[*JobDef]

	logger *zap.Logger
}

// NewLoader creates a Loader for the given install directory.
func NewLoader(installDir, language string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		InstallDir: installDir,
		Language:   language,
		Strings:    NewStringTable(),
		Items:      NewCatalog[*ItemDef](),
		Effects:    NewCatalog[*EffectDef](),
		Skills:     NewCatalog[*SkillDef](),
		Jobs:       NewCatalog[*JobDef](),
		logger:     logger,
	}
}

// Load reads the string tables and every definition catalog. Any failure is
// fatal for the run.
func (l *Loader) Load() error {
	st, err := LoadStrings(filepath.Join(l.InstallDir, StringDir), l.Language)
	if err != nil {
		return err
	}
	l.Strings = st
	l.logger.Info("string tables loaded",
		zap.String("language", l.Language),
		zap.Int("groups", len(st.Groups())),
		zap.Int("strings", st.Len()))

	if l.Items, err = loadLogged(l, ItemDBPath, ItemDefSize, DecodeItemDef); err != nil {
		return err
	}
	if l.Effects, err = loadLogged(l, EffectDBPath, EffectDefSize, DecodeEffectDef); err != nil {
		return err
	}
	if l.Skills, err = loadLogged(l, SkillDBPath, SkillDefSize, DecodeSkillDef); err != nil {
		return err
	}
	if l.Jobs, err = loadLogged(l, JobDBPath, JobDefSize, DecodeJobDef); err != nil {
		return err
	}
	return nil
}

func loadLogged[T Entry](l *Loader, rel string, size int, decode DecodeFunc[T]) (*Catalog[T], error) {
	path := filepath.Join(l.InstallDir, rel)
	c, err := LoadCatalog(path, size, decode)
	if err != nil {
		return nil, err
	}
	fields := []zap.Field{zap.String("file", rel), zap.Int("records", c.Len())}
	if fi, err := os.Stat(path); err == nil {
		fields = append(fields, zap.String("size", humanize.Bytes(uint64(fi.Size()))))
	}
	l.logger.Info("catalog loaded", fields...)
	if dups := c.Duplicates(); len(dups) > 0 {
		l.logger.Warn("catalog has duplicate ids; later records win",
			zap.String("file", rel), zap.Any("ids", dups))
	}
	return c, nil
}

// ---- lookups shared by the inventory packages ----

// ItemName resolves an item id to its display name. Id 0 is the empty slot.
func (l *Loader) ItemName(id uint32) (string, error) {
	if id == 0 {
		return "(none)", nil
	}
	d, err := l.Items.Lookup(id)
	if err != nil {
		return "", err
	}
	return d.Name(l.Strings)
}

// EffectLabel resolves an effect id to the text policy thresholds use.
func (l *Loader) EffectLabel(id uint32) (string, error) {
	if id == 0 {
		return "(none)", nil
	}
	d, err := l.Effects.Lookup(id)
	if err != nil {
		return "", err
	}
	return d.Label(l.Strings)
}

// JobName resolves a job id; id 0 means no job.
func (l *Loader) JobName(id uint32) (string, error) {
	if id == 0 {
		return "", nil
	}
	d, err := l.Jobs.Lookup(id)
	if err != nil {
		return "", err
	}
	return d.Name(l.Strings)
}

// SkillName resolves a skill id; id 0 means unset.
func (l *Loader) SkillName(id uint32) (string, error) {
	if id == 0 {
		return "", nil
	}
	d, err := l.Skills.Lookup(id)
	if err != nil {
		return "", err
	}
	return d.Name(l.Strings)
}

func (l *Loader) String() string {
	return fmt.Sprintf("resource.Loader{%s, items=%d effects=%d skills=%d jobs=%d strings=%d}",
		l.InstallDir, l.Items.Len(), l.Effects.Len(), l.Skills.Len(), l.Jobs.Len(), l.Strings.Len())
}
