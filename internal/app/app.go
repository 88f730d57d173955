// Package app is the application context: it owns the ECS manager, the backends,
// the scenes and the optional database, and drives the frame loop. main builds
// exactly one.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/gopxl/beep"
	"github.com/kodebolds/engine/internal/audio"
	"github.com/kodebolds/engine/internal/config"
	"github.com/kodebolds/engine/internal/core/event"
	"github.com/kodebolds/engine/internal/data"
	"github.com/kodebolds/engine/internal/engine"
	"github.com/kodebolds/engine/internal/game"
	"github.com/kodebolds/engine/internal/persist"
	"github.com/kodebolds/engine/internal/platform"
	"github.com/kodebolds/engine/internal/platform/headless"
	"github.com/kodebolds/engine/internal/platform/terminal"
	"github.com/kodebolds/engine/internal/scene"
	"github.com/kodebolds/engine/internal/scripting"
	"github.com/kodebolds/engine/internal/spawner"
	"github.com/kodebolds/engine/internal/system"
	"go.uber.org/zap"
)

// Backends are the platform implementations. Nil fields are chosen from config.
type Backends struct {
	Renderer platform.Renderer
	Input    platform.Input
	Audio    platform.AudioDevice
}

type App struct {
	cfg *config.Config
	log *zap.Logger

	ecs        *engine.Manager
	bus        *event.Bus
	scenes     *scene.Manager
	spawn      *spawner.Spawner
	level      *data.LevelDef
	session    *game.Session
	collisions *event.Queue[system.Collision]
	render     *system.RenderSystem
	sound      *system.AudioSystem
	scripts    *scripting.Engine

	menu *game.MenuScene
	play *game.GameScene

	backends Backends
	cache    *audio.Cache
	db       *persist.DB
	scores   *persist.ScoreRepo

	fps       fpsCounter
	destroyed int
	best      int
	quit      bool
}

// New builds the application from cfg. Nothing is opened or started until Init.
func New(cfg *config.Config, log *zap.Logger, b Backends) (*App, error) {
	a := &App{cfg: cfg, log: log}

	assets, err := loadArchetypes(cfg.Data.Archetypes, log)
	if err != nil {
		return nil, err
	}
	a.level, err = loadLevel(cfg.Data.Level, log)
	if err != nil {
		return nil, err
	}

	if err := a.selectBackends(b); err != nil {
		return nil, err
	}

	a.ecs = engine.NewManager(engine.Options{FrameBudget: cfg.Render.FrameBudget}, log.Named("ecs"))
	a.bus = event.NewBus()
	a.spawn = spawner.New(a.ecs, assets)
	a.session = game.NewSession(cfg.Game.PlayerName)
	a.collisions = event.NewQueue[system.Collision](cfg.Collision.Capacity)
	if cfg.Scripting.Enabled {
		a.scripts = scripting.NewEngine(log.Named("lua"))
	}

	event.Subscribe(a.bus, func(e event.EntitiesDestroyed) {
		a.destroyed += e.Count
	})
	event.Subscribe(a.bus, func(e event.SceneLoaded) {
		a.log.Debug("scene event", zap.String("scene", e.Name), zap.String("previous", e.Previous))
	})

	a.registerSystems()
	a.buildScenes()
	return a, nil
}

// registerSystems fixes the frame order.
func (a *App) registerSystems() {
	m := a.ecs
	response := game.NewCollisionResponseSystem(m, a.collisions, a.session, a.log.Named("game"))
	response.SetPoints(a.level.ScorePerAsteroid)

	a.sound = system.NewAudioSystem(m, a.backends.Audio, a.log.Named("audio"))
	a.render = system.NewRenderSystem(m, a.backends.Renderer, a.log.Named("render"))
	if a.cfg.Render.Overlay {
		a.render.SetOverlay(a.overlay)
	}

	m.AddUpdateSystem(system.NewEventDispatchSystem(a.bus))
	m.AddUpdateSystem(system.NewTransformSystem(m))
	m.AddUpdateSystem(system.NewMovementSystem(m))
	m.AddUpdateSystem(system.NewCollisionCheckSystem(m, a.collisions, a.cfg.Collision.Capacity, a.cfg.Collision.CellSize))
	m.AddUpdateSystem(response)
	m.AddUpdateSystem(a.sound)
	m.AddUpdateSystem(system.NewCleanupSystem(m, a.bus))
	m.SetRenderSystem(a.render)
}

func (a *App) buildScenes() {
	a.scenes = scene.NewManager(a.ecs, a.bus, a.log.Named("scene"))
	a.scenes.SetWindowSize(a.cfg.Window.Width, a.cfg.Window.Height)

	a.menu = game.NewMenuScene(game.MenuOptions{
		Spawner:   a.spawn,
		Input:     a.backends.Input,
		Start:     func() { a.scenes.ChangeScene(a.play) },
		Quit:      func() { a.quit = true },
		AutoStart: a.cfg.Game.AutoStart,
		Log:       a.log.Named("menu"),
	})

	settings := game.DefaultSettings()
	if a.cfg.Game.FireRate > 0 {
		settings.FireRate = a.cfg.Game.FireRate
	}
	if a.cfg.Game.LaserSpeed > 0 {
		settings.LaserSpeed = a.cfg.Game.LaserSpeed
	}
	a.play = game.NewGameScene(game.GameOptions{
		ECS:      a.ecs,
		Spawner:  a.spawn,
		Input:    a.backends.Input,
		Level:    a.level,
		Session:  a.session,
		Settings: settings,
		Scripts:  a.scripts,
		Recorder: a,
		Exit:     a.backToMenu,
		Log:      a.log.Named("game"),
	})
}

func (a *App) backToMenu() {
	if s := a.session.Score(); s > a.best {
		a.best = s
	}
	a.menu.SetBest(a.best)
	a.sound.StopAll()
	a.scenes.ChangeScene(a.menu)
}

func (a *App) selectBackends(b Backends) error {
	if b.Renderer == nil || b.Input == nil {
		switch a.cfg.Render.Backend {
		case "terminal":
			screen, err := terminal.Open()
			if err != nil {
				return err
			}
			b.Renderer = or[platform.Renderer](b.Renderer, terminal.NewRenderer(screen, a.cfg.Render.Scale))
			b.Input = or[platform.Input](b.Input, terminal.NewInput(screen))
		default:
			b.Renderer = or[platform.Renderer](b.Renderer, headless.NewRenderer())
			b.Input = or[platform.Input](b.Input, headless.NewInput())
		}
	}
	if b.Audio == nil {
		switch a.cfg.Audio.Backend {
		case "beep":
			a.cache = audio.NewCache(a.cfg.Audio.SoundDir, beep.SampleRate(a.cfg.Audio.SampleRate), a.log.Named("sound"))
			b.Audio = audio.NewDevice(audio.Speaker{}, a.cache, a.cfg.Audio.Buffer, a.log.Named("sound"))
		default:
			b.Audio = headless.NewAudio()
		}
	}
	a.backends = b
	a.log.Info("backends selected",
		zap.String("render", fmt.Sprintf("%T", b.Renderer)),
		zap.String("input", fmt.Sprintf("%T", b.Input)),
		zap.String("audio", fmt.Sprintf("%T", b.Audio)))
	return nil
}

func or[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}

// Init opens the backends, preloads sounds, connects the database if enabled
// and loads the start scene.
func (a *App) Init(ctx context.Context) error {
	cfg := a.cfg
	if err := a.backends.Renderer.Init(cfg.Window.Width, cfg.Window.Height); err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}
	if err := a.backends.Audio.Init(); err != nil {
		// silence is not fatal
		a.log.Warn("audio device unavailable, running silent", zap.Error(err))
		a.backends.Audio = headless.NewAudio()
		_ = a.backends.Audio.Init()
		a.sound.SetDevice(a.backends.Audio)
		a.cache = nil
	}
	if a.cache != nil {
		start := time.Now()
		if err := a.cache.Preload(ctx, a.spawn.Assets().Sounds(), cfg.Audio.Workers); err != nil {
			a.log.Warn("sound preload incomplete", zap.Error(err))
		}
		a.log.Info("sounds preloaded", zap.Int("count", a.cache.Len()), zap.Duration("took", time.Since(start)))
	}

	if cfg.Database.Enabled {
		if err := a.openDatabase(ctx); err != nil {
			return err
		}
	}

	if a.scripts != nil && cfg.Scripting.Dir != "" {
		if err := a.scripts.LoadDir(cfg.Scripting.Dir); err != nil {
			return fmt.Errorf("load scripts: %w", err)
		}
	}

	start := scene.Scene(a.menu)
	if cfg.Game.StartScene == "game" {
		start = a.play
	}
	if err := a.scenes.LoadScene(start); err != nil {
		return err
	}
	return nil
}

func (a *App) openDatabase(ctx context.Context) error {
	db, err := persist.NewDB(ctx, a.cfg.Database, a.log.Named("db"))
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := persist.RunMigrations(ctx, db.Pool, a.log.Named("db")); err != nil {
		db.Close()
		return fmt.Errorf("database: %w", err)
	}
	a.db = db
	a.scores = persist.NewScoreRepo(db)

	best, err := a.scores.Best(ctx, a.cfg.Game.PlayerName)
	if err != nil {
		a.log.Warn("best score unavailable", zap.Error(err))
	}
	a.best = best
	a.menu.SetBest(best)
	return nil
}

// RecordScore stores a finished run when a database is connected.
func (a *App) RecordScore(ctx context.Context, r game.Result) error {
	if a.scores == nil {
		return nil
	}
	row := &persist.ScoreRow{
		SessionID: r.SessionID,
		Player:    r.Player,
		Level:     r.Level,
		Score:     r.Score,
		Asteroids: r.Asteroids,
		Frames:    r.Frames,
		Duration:  r.Duration,
	}
	if err := a.scores.Insert(ctx, row); err != nil {
		return err
	}
	a.log.Info("score recorded", zap.Int64("id", row.ID), zap.Int("score", r.Score))
	return nil
}

// Frame polls input and runs one scene and ECS frame.
func (a *App) Frame(dt time.Duration) error {
	in := a.backends.Input
	in.Poll()
	if in.Quit() {
		a.quit = true
		return nil
	}
	if err := a.scenes.Update(dt); err != nil {
		return err
	}
	a.fps.tick(time.Now())
	return nil
}

// Done reports whether the loop should stop.
func (a *App) Done() bool {
	if a.quit {
		return true
	}
	limit := a.cfg.Game.MaxFrames
	return limit > 0 && a.ecs.Frame() >= limit
}

// maxCatchUp bounds the frames run for one late tick.
const maxCatchUp = 4

// Run steps the game at the configured rate until quit, ctx is cancelled or
// the frame limit is reached. Each step advances exactly one frame interval.
func (a *App) Run(ctx context.Context) error {
	interval := a.cfg.FrameInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	var acc time.Duration
	for !a.Done() {
		select {
		case <-ctx.Done():
			a.log.Info("frame loop stopped", zap.Error(ctx.Err()))
			return nil
		case now := <-ticker.C:
			acc += now.Sub(last)
			last = now
			if acc > maxCatchUp*interval {
				acc = maxCatchUp * interval
			}
			for acc >= interval && !a.Done() {
				if err := a.Frame(interval); err != nil {
					return err
				}
				acc -= interval
			}
		}
	}
	a.log.Info("frame loop finished", zap.Uint64("frames", a.ecs.Frame()), zap.Bool("quit", a.quit))
	return nil
}

// Shutdown releases everything Init opened. Safe after a failed Init.
func (a *App) Shutdown() error {
	a.scenes.Close()
	a.sound.StopAll()
	var errs []error
	if err := a.backends.Audio.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close audio: %w", err))
	}
	if err := a.backends.Renderer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close renderer: %w", err))
	}
	if a.scripts != nil {
		a.scripts.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	for _, st := range a.ecs.Runner().Stats() {
		a.log.Debug("system timing", zap.String("system", st.Name), zap.Duration("last", st.Last), zap.Duration("max", st.Max))
	}
	a.log.Info("shutdown complete",
		zap.Uint64("frames", a.ecs.Frame()),
		zap.Int("destroyed", a.destroyed))
	return errors.Join(errs...)
}

func (a *App) ECS() *engine.Manager   { return a.ecs }
func (a *App) Scenes() *scene.Manager { return a.scenes }
func (a *App) Session() *game.Session { return a.session }

// Render exposes the render system, mostly for the last built frame.
func (a *App) Render() *system.RenderSystem { return a.render }

func (a *App) overlay(dst []string) []string {
	dst = append(dst, fmt.Sprintf("fps %.0f  entities %d  frame %d", a.fps.rate, a.ecs.EntityCount(), a.ecs.Frame()))
	if o, ok := a.scenes.Current().(interface{ Overlay([]string) []string }); ok {
		dst = o.Overlay(dst)
	}
	return dst
}

func loadArchetypes(path string, log *zap.Logger) (*data.ArchetypeTable, error) {
	if path == "" {
		return data.NewArchetypeTable(nil), nil
	}
	t, err := data.LoadArchetypeTable(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("archetype file missing, using built-in defaults", zap.String("path", path))
		return data.NewArchetypeTable(nil), nil
	}
	return t, err
}

func loadLevel(path string, log *zap.Logger) (*data.LevelDef, error) {
	if path == "" {
		return data.DefaultLevel(), nil
	}
	lvl, err := data.LoadLevel(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("level file missing, using default level", zap.String("path", path))
		return data.DefaultLevel(), nil
	}
	return lvl, err
}
