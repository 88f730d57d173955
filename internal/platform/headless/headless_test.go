package headless

import (
	"testing"

	"github.com/kodebolds/engine/internal/platform"
)

func TestInputTapLastsOneFrame(t *testing.T) {
	in := NewInput()
	in.Tap(platform.KeySpace)

	in.Poll()
	if !in.Pressed(platform.KeySpace) || !in.KeyDown(platform.KeySpace) {
		t.Fatal("tapped key not down on the first poll")
	}
	in.Poll()
	if in.Pressed(platform.KeySpace) || in.KeyDown(platform.KeySpace) {
		t.Error("tapped key still down on the second poll")
	}
}

func TestInputHoldAndRelease(t *testing.T) {
	in := NewInput()
	in.Press(platform.KeyW)
	in.Poll()
	in.Poll()
	if !in.KeyDown(platform.KeyW) || in.Pressed(platform.KeyW) {
		t.Fatal("held key should be down but not newly pressed")
	}
	in.Release(platform.KeyW)
	in.Poll()
	if in.KeyDown(platform.KeyW) {
		t.Error("released key still down")
	}
}

func TestRendererCopiesFrame(t *testing.T) {
	r := NewRenderer()
	f := &platform.Frame{Number: 3, Overlay: []string{"a"}}
	if err := r.Draw(f); err != nil {
		t.Fatal(err)
	}
	f.Overlay[0] = "changed"
	if r.Last.Overlay[0] != "a" {
		t.Error("renderer kept a reference to the caller's frame")
	}
	_ = r.Close()
	if err := r.Draw(f); err == nil {
		t.Error("draw after close should fail")
	}
}

func TestAudioRequiresInit(t *testing.T) {
	a := NewAudio()
	if _, err := a.Play(platform.Cue{Filename: "x.wav"}); err == nil {
		t.Fatal("play before init should fail")
	}
	_ = a.Init()
	v, err := a.Play(platform.Cue{Filename: "x.wav", Loop: true})
	if err != nil {
		t.Fatal(err)
	}
	if !v.Playing() {
		t.Error("looping voice should be playing")
	}
	v.Stop()
	if v.Playing() {
		t.Error("stopped voice still playing")
	}
}
