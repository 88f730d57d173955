package system

import (
	"time"

	"github.com/kodebolds/engine/internal/component"
	"github.com/kodebolds/engine/internal/core/ecs"
	"github.com/kodebolds/engine/internal/engine"
	"github.com/kodebolds/engine/internal/platform"
	"github.com/kodebolds/engine/internal/vmath"
	"go.uber.org/zap"
)

// OverlayFunc appends debug text lines to the frame.
type OverlayFunc func(dst []string) []string

// RenderSystem fills the render slot. It snapshots every renderable entity, the
// active camera and the lights into a Frame and hands it to the backend. It
// never mutates components.
type RenderSystem struct {
	ecs      *engine.Manager
	renderer platform.Renderer
	frame    platform.Frame
	overlay  OverlayFunc
	failures int
	log      *zap.Logger
}

func NewRenderSystem(m *engine.Manager, r platform.Renderer, log *zap.Logger) *RenderSystem {
	return &RenderSystem{
		ecs:      m,
		renderer: r,
		frame: platform.Frame{
			Drawables:   make([]platform.Drawable, 0, 256),
			PointLights: make([]platform.Light, 0, 8),
		},
		log: log,
	}
}

func (s *RenderSystem) Name() string { return "render" }

// SetOverlay installs the debug text source; nil removes it.
func (s *RenderSystem) SetOverlay(fn OverlayFunc) { s.overlay = fn }

// Frame returns the last frame built. Valid until the next Update.
func (s *RenderSystem) Frame() *platform.Frame { return &s.frame }

func (s *RenderSystem) Update(_ time.Duration) {
	s.build()
	if err := s.renderer.Draw(&s.frame); err != nil {
		s.failures++
		// first failure and then every 100th, a broken backend would flood the log
		if s.failures%100 == 1 {
			s.log.Warn("draw failed", zap.Int("failures", s.failures), zap.Error(err))
		}
	}
}

func (s *RenderSystem) build() {
	m := s.ecs
	f := &s.frame
	f.Reset()
	f.Number = m.Frame()

	if id, cam, ok := m.ActiveCamera(); ok {
		t, _ := m.Transforms.Lookup(id)
		f.View = platform.View{
			Entity:   id,
			Position: t.Translation.XYZ(),
			Forward:  t.Forward.XYZ(),
			Up:       t.Up.XYZ(),
			Camera:   *cam,
		}
		f.HasView = true
	}

	for id := range m.Query(component.KindGeometry, component.KindShader, component.KindTransform) {
		sh, _ := m.Shaders.Lookup(id)
		if !sh.Renderable {
			continue
		}
		g, _ := m.Geometries.Lookup(id)
		t, _ := m.Transforms.Lookup(id)
		d := platform.Drawable{
			Entity:   id,
			Geometry: g.Filename,
			Shader:   *sh,
			Colour:   vmath.V4(1, 1, 1, 1),
			World:    t.Matrix,
			Position: t.Translation.XYZ(),
		}
		if tex, ok := m.Textures.Lookup(id); ok {
			d.Texture = *tex
		}
		if c, ok := m.Colours.Lookup(id); ok {
			d.Colour = c.Colour
		}
		f.Drawables = append(f.Drawables, d)
	}

	ecs.Each2(m.PointLights, m.Transforms, func(_ ecs.EntityID, l *component.PointLight, t *component.Transform) {
		f.PointLights = append(f.PointLights, platform.Light{Position: t.Translation.XYZ(), Colour: l.Colour, Range: l.Range})
	})
	for _, l := range m.DirectionalLights.All() {
		f.DirectionalLights = append(f.DirectionalLights, *l)
	}

	if s.overlay != nil {
		f.Overlay = s.overlay(f.Overlay)
	}
}
