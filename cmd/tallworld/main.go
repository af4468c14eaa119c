package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/getsentry/sentry-go"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tallworlds/cubic/debug"
	"github.com/tallworlds/cubic/entity"
	"github.com/tallworlds/cubic/settings"
	"github.com/tallworlds/cubic/simulation"
	"github.com/tallworlds/cubic/storage"
	"github.com/tallworlds/cubic/util"
	"github.com/tallworlds/cubic/worker"
	"github.com/tallworlds/cubic/world"
)

func main() {
	var (
		path    = flag.String("config", "settings.toml", "path to the settings file")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(*path, log); err != nil {
		log.Error("tallworld failed", "err", err)
		os.Exit(1)
	}
}

func run(path string, log *slog.Logger) error {
	s, err := readSettings(path, log)
	if err != nil {
		return err
	}
	if s.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: s.Sentry.DSN}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}
	dim, err := s.Dimension()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	provider, err := storage.Open(s.Storage.Path)
	if err != nil {
		return err
	}
	defer provider.Close()
	pool := worker.New(s.Storage.Workers)
	defer pool.Close()

	w := world.New(dim, log)
	loader := storage.NewLoader(provider, pool, log)
	spawn := cube.Pos{s.World.Spawn.X, s.World.Spawn.Y, s.World.Spawn.Z}
	area := world.VolumeAround(spawn, s.World.UpdateRadius)
	res, err := loader.Load(ctx, w, area)
	if err != nil {
		return err
	}
	log.Info("loaded spawn area", "dimension", dim, "volume", area, "loaded", res.Loaded, "blank", res.Blank)

	gate := world.NewLightGate(world.NewLighter(w, nil), s.Debug.LightUpdates)
	tools := debug.NewRegistry()
	if err := debug.RegisterDefaults(tools, w, gate, s.Debug.Tools); err != nil {
		return err
	}
	for _, t := range tools.Tools() {
		res := t.Use(spawn)
		log.Info("debug tool", "tool", t.Name, "model", t.Model, "checked", res.Checked, "lit", res.Lit)
	}

	ticker := simulation.NewTicker(w, s.World.UpdateRadius, log)
	for _, y := range s.Simulation.Entities {
		e := entity.New(mgl64.Vec3{float64(spawn.X()) + 0.5, float64(y), float64(spawn.Z()) + 0.5}, true)
		ticker.Add(e)
		log.Info("spawned entity", "id", e.ID(), "pos", e.FlooredPosition())
	}

	var total simulation.Stats
	for i := 0; i < s.Simulation.Ticks && ctx.Err() == nil; i++ {
		stats := ticker.Tick()
		total.Updated += stats.Updated
		total.Frozen += stats.Frozen
		total.Despawned += stats.Despawned
		total.Tick = stats.Tick
	}
	log.Info("simulation finished", "ticks", total.Tick, "updated", total.Updated, "frozen", total.Frozen, "despawned", total.Despawned)

	removed := w.CleanColumns(s.World.ViewDistance, util.ColumnPos(spawn))
	saved, err := loader.Save(w, area)
	if err != nil {
		return err
	}
	log.Info("saved spawn area", "cubes", saved, "evictedColumns", removed)
	return nil
}

// readSettings reads the settings file at path, creating it with the default settings if it does not yet
// exist.
func readSettings(path string, log *slog.Logger) (settings.Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := settings.SaveDefault(path); err != nil {
			return settings.Settings{}, err
		}
		log.Info("created default settings", "path", path)
	}
	return settings.Load(path)
}
