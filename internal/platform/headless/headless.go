// Package headless provides backends that draw nothing and play nothing. They
// record what they were asked to do, which makes them the backends of choice
// for tests and for running the game loop on a server.
package headless

import (
	"errors"
	"slices"

	"github.com/kodebolds/engine/internal/platform"
)

// Renderer keeps a copy of the last frame it was given.
type Renderer struct {
	Width, Height int
	Frames        int
	Last          platform.Frame
	closed        bool
}

func NewRenderer() *Renderer { return &Renderer{} }

func (r *Renderer) Init(width, height int) error {
	r.Width, r.Height = width, height
	return nil
}

func (r *Renderer) Draw(f *platform.Frame) error {
	if r.closed {
		return errors.New("headless renderer: draw after close")
	}
	r.Frames++
	r.Last = platform.Frame{
		Number:            f.Number,
		View:              f.View,
		HasView:           f.HasView,
		Drawables:         slices.Clone(f.Drawables),
		PointLights:       slices.Clone(f.PointLights),
		DirectionalLights: slices.Clone(f.DirectionalLights),
		Overlay:           slices.Clone(f.Overlay),
	}
	return nil
}

func (r *Renderer) Close() error {
	r.closed = true
	return nil
}

type inputEvent struct {
	key  platform.Key
	down bool
}

// Input is driven by code: Press and Release are applied at the next Poll.
type Input struct {
	platform.KeyState
	pending []inputEvent
	quit    bool
	x, y    int
	buttons uint8
}

func NewInput() *Input { return &Input{} }

func (in *Input) Press(k platform.Key) {
	in.pending = append(in.pending, inputEvent{key: k, down: true})
}

func (in *Input) Release(k platform.Key) {
	in.pending = append(in.pending, inputEvent{key: k})
}

// Tap presses k for the next frame and releases it on the one after.
func (in *Input) Tap(k platform.Key) {
	in.Press(k)
	in.Release(k)
}

func (in *Input) SetPointer(x, y int, buttons uint8) {
	in.x, in.y, in.buttons = x, y, buttons
}

func (in *Input) RequestQuit() { in.quit = true }

// Poll applies queued events. A press and release queued together leave the key
// pressed this frame and release it on the following poll.
func (in *Input) Poll() {
	in.EndFrame()
	var deferred []inputEvent
	for _, ev := range in.pending {
		if ev.down {
			in.KeyState.Press(ev.key)
			continue
		}
		if in.KeyState.Pressed(ev.key) {
			deferred = append(deferred, ev)
			continue
		}
		in.KeyState.Release(ev.key)
	}
	in.pending = append(in.pending[:0], deferred...)
}

func (in *Input) Pointer() (int, int, uint8) { return in.x, in.y, in.buttons }
func (in *Input) Quit() bool                 { return in.quit }

// Audio accepts every cue and remembers it.
type Audio struct {
	Played []platform.Cue
	ready  bool
}

func NewAudio() *Audio { return &Audio{} }

func (a *Audio) Init() error {
	a.ready = true
	return nil
}

func (a *Audio) Play(c platform.Cue) (platform.Voice, error) {
	if !a.ready {
		return nil, errors.New("headless audio: play before init")
	}
	a.Played = append(a.Played, c)
	return &Voice{cue: c, playing: c.Loop}, nil
}

func (a *Audio) Close() error {
	a.ready = false
	return nil
}

// Voice of a one-shot cue finishes immediately; a looping one plays until stopped.
type Voice struct {
	cue     platform.Cue
	playing bool
}

func (v *Voice) Playing() bool { return v.playing }
func (v *Voice) Stop()         { v.playing = false }

func (v *Voice) Set(volume, pitch, pan float32) {
	v.cue.Volume, v.cue.Pitch, v.cue.Pan = volume, pitch, pan
}

// Cue returns the voice's current settings.
func (v *Voice) Cue() platform.Cue { return v.cue }
