package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/kasuganosora/gearkeeper/audit"
	"github.com/kasuganosora/gearkeeper/cache"
	"github.com/kasuganosora/gearkeeper/config"
	dbadapter "github.com/kasuganosora/gearkeeper/db"
	"github.com/kasuganosora/gearkeeper/export"
	"github.com/kasuganosora/gearkeeper/game/inventory"
	"github.com/kasuganosora/gearkeeper/game/keeper"
	"github.com/kasuganosora/gearkeeper/memory"
	"github.com/kasuganosora/gearkeeper/model"
	"github.com/kasuganosora/gearkeeper/policy"
	"github.com/kasuganosora/gearkeeper/resource"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const usage = `usage: gearkeeper [config.yaml] <command> [args]

commands:
  unlock-all             clear the locked flag on every slot
  clear-markers [bit...] clear marker bits (default: the upgrade markers)
  lock-kept              unlock everything, then lock the items worth keeping
  upgrades               mark items that beat a marked candidate and list them
  export                 write catalogs and the inventory to the database
  save [path]            write the inventory in the snapshot file format`

func main() {
	cfgPath := "config/config.yaml"
	args := os.Args[1:]
	if len(args) > 0 && (strings.HasSuffix(args[0], ".yaml") || strings.HasSuffix(args[0], ".yml")) {
		cfgPath, args = args[0], args[1:]
	}
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.App.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg, args[0], args[1:], os.Stdout, logger); err != nil {
		logger.Error("command failed", zap.String("command", args[0]), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// errUsage marks a bad command line.
var errUsage = errors.New("invalid usage")

func run(ctx context.Context, cfg *config.Config, cmd string, args []string, out io.Writer, logger *zap.Logger) error {
	switch cmd {
	case "unlock-all", "clear-markers", "lock-kept", "upgrades", "export", "save":
	default:
		fmt.Fprintln(out, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}

	// ---- Game data ----
	res := resource.NewLoader(cfg.Game.InstallDir, cfg.Game.Language, logger)
	if err := res.Load(); err != nil {
		return fmt.Errorf("game data: %w", err)
	}
	pol, err := policy.New(cfg.Policy)
	if err != nil {
		return err
	}

	// ---- Database / Audit ----
	var db *gorm.DB
	var journal keeper.Journal
	if cfg.Database.Mode != dbadapter.ModeDisabled {
		if db, err = dbadapter.Open(cfg.Database); err != nil {
			return fmt.Errorf("db: %w", err)
		}
		if err := model.AutoMigrate(db); err != nil {
			return fmt.Errorf("db migrate: %w", err)
		}
		logger.Info("DB initialized", zap.String("mode", cfg.Database.Mode))
		auditSvc := audit.New(db, logger)
		defer auditSvc.Stop(ctx)
		journal = auditSvc
	}

	// ---- Inventory source ----
	src, err := openSource(ctx, cfg, db, logger)
	if err != nil {
		return err
	}
	if src.close != nil {
		defer src.close()
	}
	snap := src.snap

	svc := keeper.NewService(res, pol, journal, logger)
	mutated, cmdErr := dispatch(ctx, cfg, cmd, args, out, svc, snap, res, db, logger)
	if mutated {
		// partial changes are written back too
		if err := src.commit(svc); err != nil {
			return errors.Join(cmdErr, err)
		}
	}
	return cmdErr
}

func dispatch(ctx context.Context, cfg *config.Config, cmd string, args []string, out io.Writer,
	svc *keeper.Service, snap *inventory.Snapshot, res *resource.Loader, db *gorm.DB, logger *zap.Logger) (bool, error) {
	switch cmd {
	case "unlock-all":
		n, err := svc.UnlockAll(snap)
		if err != nil {
			return n > 0, err
		}
		fmt.Fprintf(out, "unlocked %d items\n", n)
		return n > 0, nil

	case "clear-markers":
		bits := []int{cfg.Upgrade.InputMarker, cfg.Upgrade.OutputMarker}
		if len(args) > 0 {
			var err error
			if bits, err = parseBits(args); err != nil {
				return false, err
			}
		}
		n, err := svc.ClearMarkers(snap, bits...)
		if err != nil {
			return n > 0, err
		}
		fmt.Fprintf(out, "cleared %d markers\n", n)
		return n > 0, nil

	case "lock-kept":
		kept, err := svc.LockKept(snap)
		if err != nil {
			return true, err
		}
		fmt.Fprintf(out, "locked %d of %d slots; dismantle the unlocked items in game\n", len(kept), snap.Len())
		return true, nil

	case "upgrades":
		rep, err := svc.MarkUpgrades(snap, cfg.Upgrade.InputMarker, cfg.Upgrade.OutputMarker)
		if rep == nil {
			return false, err
		}
		for _, line := range rep.Lines() {
			fmt.Fprintln(out, line)
		}
		if err == nil && rep.Empty() {
			fmt.Fprintln(out, "no upgrades found")
		}
		return len(rep.Marked) > 0, err

	case "export":
		if db == nil {
			return false, fmt.Errorf("export: %w", dbadapter.ErrDisabled)
		}
		ex := export.New(db, logger)
		if err := ex.Catalogs(ctx, res); err != nil {
			return false, err
		}
		if err := ex.Inventory(ctx, svc.RunID(), snap, res); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "exported run %s\n", svc.RunID())
		return false, nil

	case "save":
		path := cfg.Game.SnapshotPath
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			return false, fmt.Errorf("%w: save needs a path", errUsage)
		}
		if err := svc.Persist(snap, path); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "saved %d slots to %s\n", snap.Len(), path)
		return false, nil
	}
	return false, fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

// source is where the inventory came from and how changes go back.
type source struct {
	snap   *inventory.Snapshot
	commit func(*keeper.Service) error
	close  func()
}

func openSource(ctx context.Context, cfg *config.Config, db *gorm.DB, logger *zap.Logger) (*source, error) {
	capacity := cfg.Game.InventoryCapacity

	if cfg.Game.MemoryDump == "" {
		if cfg.Game.SnapshotPath == "" {
			return nil, fmt.Errorf("%w: set game.memory_dump or game.snapshot_path", errUsage)
		}
		snap, err := inventory.LoadSnapshot(cfg.Game.SnapshotPath, capacity)
		if err != nil {
			return nil, err
		}
		logger.Info("snapshot loaded", zap.String("path", cfg.Game.SnapshotPath), zap.Int("slots", snap.Len()))
		return &source{
			snap:   snap,
			commit: func(svc *keeper.Service) error { return svc.Persist(snap, cfg.Game.SnapshotPath) },
		}, nil
	}

	img, err := memory.OpenImage(cfg.Game.MemoryDump, cfg.Game.BaseAddress)
	if err != nil {
		return nil, err
	}
	logger.Info("memory image opened", zap.Stringer("image", img))

	loc := inventory.NewLocator(img, capacity, logger)
	src := &source{}
	c, err := cache.NewCache(ctx, cache.CacheConfig{
		RedisAddr:     cfg.Cache.RedisAddr,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
		KeyPrefix:     cfg.Cache.KeyPrefix,
	}, db)
	switch {
	case errors.Is(err, cache.ErrNoBackend):
		logger.Debug("offset cache disabled")
	case err != nil:
		logger.Warn("offset cache unavailable", zap.Error(err))
	default:
		loc.WithCache(c, "inventory_offset:"+cfg.Game.ProcessName, cfg.Cache.OffsetTTL)
		src.close = func() { _ = c.Close() }
	}

	if src.snap, err = loc.Snapshot(ctx); err != nil {
		if src.close != nil {
			src.close()
		}
		return nil, err
	}
	src.commit = func(*keeper.Service) error {
		if err := img.Save(cfg.Game.MemoryDump); err != nil {
			return err
		}
		logger.Info("memory image saved", zap.Int("patched_bytes", img.Writes()))
		return nil
	}
	return src, nil
}

func parseBits(args []string) ([]int, error) {
	bits := make([]int, 0, len(args))
	for _, a := range args {
		b, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%w: marker %q is not a number", errUsage, a)
		}
		if err := inventory.ValidateMarker(b); err != nil {
			return nil, err
		}
		bits = append(bits, b)
	}
	return bits, nil
}
