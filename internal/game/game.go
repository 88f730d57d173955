package game

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/kodebolds/engine/internal/core/ecs"
	"github.com/kodebolds/engine/internal/data"
	"github.com/kodebolds/engine/internal/engine"
	"github.com/kodebolds/engine/internal/platform"
	"github.com/kodebolds/engine/internal/scripting"
	"github.com/kodebolds/engine/internal/spawner"
	"github.com/kodebolds/engine/internal/vmath"
	"go.uber.org/zap"
)

// Settings tune player control.
type Settings struct {
	MoveSpeed  float32       // units per second
	TurnRate   float32       // radians per second
	FireRate   time.Duration // minimum time between shots
	LaserSpeed float32
	LaserLife  time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		MoveSpeed:  20,
		TurnRate:   1.5,
		FireRate:   250 * time.Millisecond,
		LaserSpeed: 200,
		LaserLife:  3 * time.Second,
	}
}

// GameOptions wires a GameScene to the rest of the game.
type GameOptions struct {
	ECS      *engine.Manager
	Spawner  *spawner.Spawner
	Input    platform.Input
	Level    *data.LevelDef
	Session  *Session
	Settings Settings
	// Scripts runs the level script; nil disables scripting.
	Scripts *scripting.Engine
	// Recorder stores the result at game over; nil skips it.
	Recorder ScoreRecorder
	// Exit leaves the game, normally back to the menu.
	Exit func()
	Log  *zap.Logger
}

type laser struct {
	id      ecs.EntityID
	expires time.Duration
}

// GameScene is the asteroid-belt level.
type GameScene struct {
	ecs      *engine.Manager
	spawn    *spawner.Spawner
	input    platform.Input
	level    *data.LevelDef
	session  *Session
	settings Settings
	scripts  *scripting.Engine
	recorder ScoreRecorder
	exit     func()
	log      *zap.Logger

	player   ecs.EntityID
	gun      ecs.EntityID
	ship     ecs.EntityID
	thruster ecs.EntityID

	yaw, pitch   float32
	clock        time.Duration
	nextShot     time.Duration
	lasers       []laser
	recorded     bool
	scriptFailed bool
}

func NewGameScene(o GameOptions) *GameScene {
	if o.Level == nil {
		o.Level = data.DefaultLevel()
	}
	if o.Settings == (Settings{}) {
		o.Settings = DefaultSettings()
	}
	return &GameScene{
		ecs:      o.ECS,
		spawn:    o.Spawner,
		input:    o.Input,
		level:    o.Level,
		session:  o.Session,
		settings: o.Settings,
		scripts:  o.Scripts,
		recorder: o.Recorder,
		exit:     o.Exit,
		log:      o.Log,
	}
}

func (g *GameScene) Name() string { return "game" }

func (g *GameScene) Player() ecs.EntityID { return g.player }
func (g *GameScene) Ship() ecs.EntityID   { return g.ship }
func (g *GameScene) Session() *Session    { return g.session }

// Lasers is the number of live lasers the scene is tracking.
func (g *GameScene) Lasers() int { return len(g.lasers) }

func (g *GameScene) OnLoad() error {
	g.reset()
	lvl := g.level
	s := g.spawn

	if _, err := s.SpawnSkyBox(); err != nil {
		return fmt.Errorf("skybox: %w", err)
	}
	if _, err := s.SpawnSun(spawner.SunParams{Placement: place(lvl.Sun, 20)}); err != nil {
		return fmt.Errorf("sun: %w", err)
	}
	if _, err := s.SpawnPlanetSurface(spawner.PlanetSurfaceParams{
		Placement: place(lvl.Surface, 1),
		FloorMask: MaskFloor,
	}); err != nil {
		return fmt.Errorf("planet surface: %w", err)
	}

	var err error
	g.player, err = s.SpawnPlayer(spawner.PlayerParams{
		Placement: place(lvl.Player, 1),
		FOV:       70, Near: 0.1, Far: 2000,
		CollisionMask:       MaskPlayer,
		IgnoreCollisionMask: ignorePlayer,
		Active:              true,
	})
	if err != nil {
		return fmt.Errorf("player: %w", err)
	}
	g.gun, err = s.SpawnLaserGun(spawner.LaserGunParams{Placement: place(lvl.Player, 1)})
	if err != nil {
		return fmt.Errorf("laser gun: %w", err)
	}
	g.ship, err = g.spawnShip(lvl.Ship.Point())
	if err != nil {
		return fmt.Errorf("ship: %w", err)
	}
	g.thruster, err = s.SpawnEngine(spawner.EngineParams{Placement: spawner.Placement{
		Position: g.enginePosition(),
		Scale:    vmath.V4(1, 1, 1, 1),
	}})
	if err != nil {
		return fmt.Errorf("ship engine: %w", err)
	}

	for i, a := range lvl.AllAsteroids() {
		if _, err := g.spawnAsteroid(a.Position.Point(), a.Velocity.Point(), a.Scale); err != nil {
			return fmt.Errorf("asteroid %d: %w", i, err)
		}
	}

	g.session.Start(lvl.Name)
	g.loadScript()
	g.log.Info("level loaded",
		zap.String("level", lvl.Name),
		zap.Stringer("session", g.session.ID()),
		zap.Int("entities", g.ecs.EntityCount()))
	return nil
}

func (g *GameScene) reset() {
	g.player, g.gun, g.ship, g.thruster = ecs.NilEntity, ecs.NilEntity, ecs.NilEntity, ecs.NilEntity
	g.yaw, g.pitch = 0, 0
	g.clock, g.nextShot = 0, 0
	g.lasers = g.lasers[:0]
	g.recorded = false
	g.scriptFailed = false
}

func (g *GameScene) loadScript() {
	if g.scripts == nil || g.level.Script == "" {
		return
	}
	g.scripts.Bind(g)
	if err := g.scripts.LoadFile(g.level.Script); err != nil {
		g.log.Warn("level script not loaded", zap.String("script", g.level.Script), zap.Error(err))
		g.scriptFailed = true
		return
	}
	if err := g.scripts.OnLoad(); err != nil {
		g.log.Warn("level script on_load failed", zap.Error(err))
	}
}

func (g *GameScene) OnUnload() {
	g.session.Stop()
	g.lasers = g.lasers[:0]
	if g.scripts != nil {
		g.scripts.Bind(nil)
	}
}

func (g *GameScene) Update(dt time.Duration) {
	g.clock += dt
	if g.input.Pressed(platform.KeyEscape) {
		g.leave()
		return
	}
	if g.session.Over() {
		g.finish()
		if g.input.Pressed(platform.KeyEnter) {
			g.leave()
		}
		return
	}

	g.session.tick(dt)
	g.control(dt)
	g.follow()
	g.expireLasers()
	g.runScript(dt)
}

func (g *GameScene) leave() {
	g.finish()
	if g.exit != nil {
		g.exit()
	}
}

// control turns keyboard state into player motion and shots.
func (g *GameScene) control(dt time.Duration) {
	step := float32(dt.Seconds())
	in := g.input
	turn := g.settings.TurnRate * step
	if in.KeyDown(platform.KeyLeft) {
		g.yaw -= turn
	}
	if in.KeyDown(platform.KeyRight) {
		g.yaw += turn
	}
	if in.KeyDown(platform.KeyUp) {
		g.pitch -= turn
	}
	if in.KeyDown(platform.KeyDown) {
		g.pitch += turn
	}
	g.pitch = max(-maxPitch, min(maxPitch, g.pitch))

	var move vmath.Vector3
	forward, right := flatBasis(g.yaw)
	if in.KeyDown(platform.KeyW) {
		move = move.Add(forward)
	}
	if in.KeyDown(platform.KeyS) {
		move = move.Sub(forward)
	}
	if in.KeyDown(platform.KeyD) {
		move = move.Add(right)
	}
	if in.KeyDown(platform.KeyA) {
		move = move.Sub(right)
	}
	move = move.Normalise().Scale(g.settings.MoveSpeed)

	if v, ok := g.ecs.Velocities.Lookup(g.player); ok {
		v.Velocity.X, v.Velocity.Z = move.X, move.Z
	}
	if t, ok := g.ecs.Transforms.Lookup(g.player); ok {
		t.Rotation = vmath.V4(g.pitch, g.yaw, 0, 0)
	}

	if in.KeyDown(platform.KeySpace) && g.clock >= g.nextShot {
		if err := g.fire(); err != nil {
			g.log.Warn("fire failed", zap.Error(err))
		}
		g.nextShot = g.clock + g.settings.FireRate
	}
}

const maxPitch = 80 * math.Pi / 180

// flatBasis returns the forward and right vectors on the ground plane for yaw.
func flatBasis(yaw float32) (forward, right vmath.Vector3) {
	s, c := math.Sincos(float64(yaw))
	return vmath.V3(float32(s), 0, float32(c)), vmath.V3(float32(c), 0, float32(-s))
}

// Aim is the direction the player is looking.
func (g *GameScene) Aim() vmath.Vector3 {
	return vmath.RotationEuler(g.pitch, g.yaw, 0).TransformDir(vmath.V3(0, 0, 1))
}

func (g *GameScene) fire() error {
	t, ok := g.ecs.Transforms.Lookup(g.player)
	if !ok {
		return fmt.Errorf("player %v has no transform", g.player)
	}
	aim := g.Aim()
	origin := t.Translation.XYZ().Add(aim.Scale(2))
	id, err := g.spawn.SpawnLaser(spawner.LaserParams{
		Placement: spawner.Placement{
			Position: origin.XYZW(1),
			Scale:    vmath.V4(1, 1, 1, 1),
			Rotation: vmath.V4(g.pitch, g.yaw, 0, 0),
		},
		Colour:              vmath.V4(1, 0.2, 0.2, 1),
		Velocity:            aim.Scale(g.settings.LaserSpeed).XYZW(0),
		MaxSpeed:            g.settings.LaserSpeed,
		CollisionMask:       MaskLaser,
		IgnoreCollisionMask: ignoreLaser,
	})
	if err != nil {
		return err
	}
	g.lasers = append(g.lasers, laser{id: id, expires: g.clock + g.settings.LaserLife})
	return nil
}

// follow keeps the gun on the player and the engine behind the ship.
func (g *GameScene) follow() {
	m := g.ecs
	if pt, ok := m.Transforms.Lookup(g.player); ok {
		if gt, ok := m.Transforms.Lookup(g.gun); ok {
			gt.Translation = pt.Translation.Add(g.gunOffset())
			gt.Rotation = pt.Rotation
		}
	}
	if pv, ok := m.Velocities.Lookup(g.player); ok {
		if gv, ok := m.Velocities.Lookup(g.gun); ok {
			gv.Velocity = pv.Velocity
		}
	}
	if et, ok := m.Transforms.Lookup(g.thruster); ok {
		et.Translation = g.enginePosition()
	}
}

func (g *GameScene) gunOffset() vmath.Vector4 {
	_, right := flatBasis(g.yaw)
	return right.Scale(0.6).Add(vmath.V3(0, -0.5, 0)).XYZW(0)
}

func (g *GameScene) enginePosition() vmath.Vector4 {
	pos := g.level.Ship.Point()
	if t, ok := g.ecs.Transforms.Lookup(g.ship); ok {
		pos = t.Translation
	}
	return pos.Add(vmath.V4(0, 0, -6, 0))
}

// expireLasers destroys lasers past their lifetime and forgets ones already gone.
func (g *GameScene) expireLasers() {
	live := g.lasers[:0]
	for _, l := range g.lasers {
		switch {
		case !g.ecs.Alive(l.id):
		case g.clock >= l.expires:
			g.ecs.MarkForDestruction(l.id)
		default:
			live = append(live, l)
		}
	}
	g.lasers = live
}

func (g *GameScene) runScript(dt time.Duration) {
	if g.scripts == nil || g.scriptFailed || g.level.Script == "" {
		return
	}
	if err := g.scripts.OnUpdate(dt.Seconds(), g.ecs.Frame()); err != nil {
		// one warning, then the script stays off for this run
		g.scriptFailed = true
		g.log.Warn("level script disabled", zap.Error(err))
	}
}

// finish records the result once.
func (g *GameScene) finish() {
	if g.recorded || g.session.Result().Frames == 0 {
		return
	}
	g.recorded = true
	res := g.session.Result()
	g.log.Info("run finished",
		zap.Stringer("session", res.SessionID),
		zap.Int("score", res.Score),
		zap.Int("asteroids", res.Asteroids),
		zap.Duration("duration", res.Duration),
		zap.String("reason", g.session.Reason()))
	if g.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := g.recorder.RecordScore(ctx, res); err != nil {
		g.log.Error("record score", zap.Error(err))
	}
}

func (g *GameScene) spawnAsteroid(pos, vel vmath.Vector4, scale float32) (ecs.EntityID, error) {
	p := spawner.Placement{Position: pos, Scale: vmath.V4(1, 1, 1, 1)}
	radius := float32(0)
	if scale > 0 {
		p.Scale = vmath.V4(scale, scale, scale, 1)
		radius = g.spawn.Assets().Get(data.Asteroid).Radius * scale
	}
	return g.spawn.SpawnAsteroid(spawner.AsteroidParams{
		Placement:           p,
		Velocity:            vmath.V4(vel.X, vel.Y, vel.Z, 0),
		Radius:              radius,
		CollisionMask:       MaskAsteroid,
		IgnoreCollisionMask: ignoreAsteroid,
	})
}

func (g *GameScene) spawnShip(pos vmath.Vector4) (ecs.EntityID, error) {
	return g.spawn.SpawnShip(spawner.ShipParams{
		Placement:           spawner.Placement{Position: pos, Scale: vmath.V4(1, 1, 1, 1)},
		CollisionMask:       MaskShip,
		IgnoreCollisionMask: ignoreShip,
	})
}

func place(v data.Vec3, scale float32) spawner.Placement {
	return spawner.Placement{Position: v.Point(), Scale: vmath.V4(scale, scale, scale, 1)}
}

// Overlay lists the run's status lines.
func (g *GameScene) Overlay(dst []string) []string {
	dst = append(dst,
		fmt.Sprintf("score %d", g.session.Score()),
		fmt.Sprintf("asteroids %d", g.session.Asteroids()),
	)
	if g.session.Over() {
		dst = append(dst, fmt.Sprintf("GAME OVER (%s), press enter", g.session.Reason()))
	}
	return dst
}

// scripting.Host

func (g *GameScene) SpawnAsteroid(x, y, z, vx, vy, vz float32) (ecs.EntityID, error) {
	return g.spawnAsteroid(vmath.Point(x, y, z), vmath.V4(vx, vy, vz, 0), 0)
}

func (g *GameScene) SpawnShip(x, y, z float32) (ecs.EntityID, error) {
	return g.spawnShip(vmath.Point(x, y, z))
}

func (g *GameScene) Destroy(id ecs.EntityID) {
	if id == g.player {
		return
	}
	g.ecs.MarkForDestruction(id)
}

func (g *GameScene) Alive(id ecs.EntityID) bool { return g.ecs.Alive(id) }
func (g *GameScene) EntityCount() int           { return g.ecs.EntityCount() }
func (g *GameScene) Score() int                 { return g.session.Score() }
func (g *GameScene) AddScore(n int)             { g.session.AddScore(n) }

var _ scripting.Host = (*GameScene)(nil)
