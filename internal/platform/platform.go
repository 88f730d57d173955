// Package platform defines the backend contracts the engine renders, plays audio
// and reads input through. Concrete backends live in subpackages and are picked
// from configuration at startup.
package platform

import (
	"github.com/kodebolds/engine/internal/component"
	"github.com/kodebolds/engine/internal/core/ecs"
	"github.com/kodebolds/engine/internal/vmath"
)

// Renderer draws one read-only Frame per tick.
type Renderer interface {
	Init(width, height int) error
	Draw(f *Frame) error
	Close() error
}

// Input is polled once per frame, before the update systems run.
type Input interface {
	Poll()
	KeyDown(k Key) bool
	// Pressed reports a key that went down since the previous Poll.
	Pressed(k Key) bool
	Pointer() (x, y int, buttons uint8)
	Quit() bool
}

// AudioDevice plays cues. Play before Init returns an error.
type AudioDevice interface {
	Init() error
	Play(c Cue) (Voice, error)
	Close() error
}

// Voice is a playing sound.
type Voice interface {
	Playing() bool
	Stop()
	// Set updates volume, pitch and pan of a playing voice.
	Set(volume, pitch, pan float32)
}

// Cue is what AudioSystem asks the device to play.
type Cue struct {
	Filename string
	Loop     bool
	Volume   float32
	Pitch    float32
	Pan      float32
}

// CueFromAudio copies the playback fields of an Audio component.
func CueFromAudio(a component.Audio) Cue {
	return Cue{Filename: a.Filename, Loop: a.Loop, Volume: a.Volume, Pitch: a.Pitch, Pan: a.Pan}
}

// Drawable is one mesh to draw this frame.
type Drawable struct {
	Entity   ecs.EntityID
	Geometry string
	Shader   component.Shader
	Texture  component.Texture
	Colour   vmath.Vector4
	World    vmath.Matrix4
	Position vmath.Vector3
}

type Light struct {
	Position vmath.Vector3
	Colour   vmath.Vector4
	Range    float32
}

type View struct {
	Entity   ecs.EntityID
	Position vmath.Vector3
	Forward  vmath.Vector3
	Up       vmath.Vector3
	Camera   component.Camera
}

// Frame is the render system's snapshot of the world. Backends must not keep it
// past Draw; the slices are reused next frame.
type Frame struct {
	Number            uint64
	View              View
	HasView           bool
	Drawables         []Drawable
	PointLights       []Light
	DirectionalLights []component.DirectionalLight
	Overlay           []string
}

// Reset empties the frame keeping capacity.
func (f *Frame) Reset() {
	f.Number = 0
	f.View = View{}
	f.HasView = false
	f.Drawables = f.Drawables[:0]
	f.PointLights = f.PointLights[:0]
	f.DirectionalLights = f.DirectionalLights[:0]
	f.Overlay = f.Overlay[:0]
}
