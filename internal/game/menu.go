package game

import (
	"fmt"
	"time"

	"github.com/kodebolds/engine/internal/platform"
	"github.com/kodebolds/engine/internal/spawner"
	"go.uber.org/zap"
)

// MenuScene shows the title over the skybox and waits for Enter.
type MenuScene struct {
	spawn   *spawner.Spawner
	input   platform.Input
	start   func()
	quit    func()
	auto    time.Duration
	elapsed time.Duration
	best    int
	log     *zap.Logger
}

// MenuOptions wires a MenuScene to the rest of the game.
type MenuOptions struct {
	Spawner *spawner.Spawner
	Input   platform.Input
	// Start switches to the game scene.
	Start func()
	// Quit ends the application; nil ignores Escape.
	Quit func()
	// AutoStart starts the game after this long without input. Zero waits.
	AutoStart time.Duration
	Log       *zap.Logger
}

func NewMenuScene(o MenuOptions) *MenuScene {
	return &MenuScene{
		spawn: o.Spawner,
		input: o.Input,
		start: o.Start,
		quit:  o.Quit,
		auto:  o.AutoStart,
		log:   o.Log,
	}
}

func (s *MenuScene) Name() string { return "menu" }

// SetBest shows a best score under the title.
func (s *MenuScene) SetBest(score int) { s.best = score }

func (s *MenuScene) OnLoad() error {
	s.elapsed = 0
	if _, err := s.spawn.SpawnSkyBox(); err != nil {
		return fmt.Errorf("menu skybox: %w", err)
	}
	if _, err := s.spawn.SpawnCamera(spawner.CameraParams{
		Placement: spawner.At(0, 0, 0),
		FOV:       60, Near: 0.1, Far: 1000,
		Active: true,
	}); err != nil {
		return fmt.Errorf("menu camera: %w", err)
	}
	return nil
}

func (s *MenuScene) OnUnload() {}

func (s *MenuScene) Update(dt time.Duration) {
	s.elapsed += dt
	switch {
	case s.input.Pressed(platform.KeyEscape) && s.quit != nil:
		s.quit()
	case s.input.Pressed(platform.KeyEnter), s.input.Pressed(platform.KeySpace):
		s.log.Debug("menu start pressed")
		s.start()
	case s.auto > 0 && s.elapsed >= s.auto:
		s.log.Debug("menu auto start", zap.Duration("after", s.elapsed))
		s.start()
	}
}

func (s *MenuScene) Overlay(dst []string) []string {
	dst = append(dst, "K O D E B O L D S", "press enter to start, escape to quit")
	if s.best > 0 {
		dst = append(dst, fmt.Sprintf("best %d", s.best))
	}
	return dst
}
