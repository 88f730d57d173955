package audio

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
	"github.com/kodebolds/engine/internal/platform"
	"go.uber.org/zap"
)

const testRate = beep.SampleRate(22050)

// manualSink lets the test pull samples instead of a sound card.
type manualSink struct {
	sync.Mutex
	stream beep.Streamer
	closed bool
}

func (s *manualSink) Init(beep.SampleRate, int) error { return nil }
func (s *manualSink) Play(st beep.Streamer)           { s.stream = st }
func (s *manualSink) Close()                          { s.closed = true }

func (s *manualSink) pull(n int) {
	buf := make([][2]float64, 512)
	for n > 0 {
		chunk := min(n, len(buf))
		s.Lock()
		s.stream.Stream(buf[:chunk])
		s.Unlock()
		n -= chunk
	}
}

func writeTone(t *testing.T, dir, name string, d time.Duration, rate beep.SampleRate) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sine, err := generators.SineTone(rate, 330)
	if err != nil {
		t.Fatal(err)
	}
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Take(rate.N(d), sine), format); err != nil {
		t.Fatal(err)
	}
}

func TestCacheDecodesAndResamples(t *testing.T) {
	dir := t.TempDir()
	writeTone(t, dir, "laser.wav", 100*time.Millisecond, 11025)
	c := NewCache(dir, testRate, zap.NewNop())

	buf, err := c.Get("laser.wav")
	if err != nil {
		t.Fatal(err)
	}
	want := testRate.N(100 * time.Millisecond)
	if diff := buf.Len() - want; diff < -64 || diff > 64 {
		t.Errorf("buffer len = %d, want about %d", buf.Len(), want)
	}
	again, _ := c.Get("laser.wav")
	if again != buf {
		t.Error("second Get decoded again")
	}
}

func TestCacheMissingFileFallsBackToTone(t *testing.T) {
	c := NewCache(t.TempDir(), testRate, zap.NewNop())
	buf, err := c.Get("nope.wav")
	if err != nil {
		t.Fatal(err)
	}
	if buf.Len() != testRate.N(150*time.Millisecond) {
		t.Errorf("tone len = %d", buf.Len())
	}
}

func TestCacheRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.wav"), []byte("not a wav"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := NewCache(dir, testRate, zap.NewNop())
	if err := c.Preload(context.Background(), []string{"bad.wav"}, 2); err == nil {
		t.Error("corrupt file should fail preload")
	}
}

func TestPreloadFillsCache(t *testing.T) {
	dir := t.TempDir()
	names := []string{"a.wav", "b.wav", "c.wav"}
	for _, n := range names {
		writeTone(t, dir, n, 20*time.Millisecond, testRate)
	}
	c := NewCache(dir, testRate, zap.NewNop())
	if err := c.Preload(context.Background(), names, 2); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 3 {
		t.Errorf("cached %d sounds", c.Len())
	}
}

func TestDevicePlayBeforeInit(t *testing.T) {
	d := NewDevice(&manualSink{}, NewCache(t.TempDir(), testRate, zap.NewNop()), 0, zap.NewNop())
	if _, err := d.Play(platform.Cue{Filename: "x.wav"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestDeviceOneShotFinishes(t *testing.T) {
	dir := t.TempDir()
	writeTone(t, dir, "shot.wav", 50*time.Millisecond, testRate)
	sink := &manualSink{}
	d := NewDevice(sink, NewCache(dir, testRate, zap.NewNop()), 0, zap.NewNop())
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	v, err := d.Play(platform.Cue{Filename: "shot.wav", Volume: 0.5, Pitch: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !v.Playing() {
		t.Fatal("voice should play until streamed")
	}
	sink.pull(testRate.N(200 * time.Millisecond))
	if v.Playing() {
		t.Error("one-shot still playing after its length")
	}
	if d.Voices() != 0 {
		t.Errorf("mixer holds %d voices", d.Voices())
	}
}

func TestDeviceLoopPlaysUntilStopped(t *testing.T) {
	dir := t.TempDir()
	writeTone(t, dir, "hum.wav", 20*time.Millisecond, testRate)
	sink := &manualSink{}
	d := NewDevice(sink, NewCache(dir, testRate, zap.NewNop()), 0, zap.NewNop())
	_ = d.Init()
	v, err := d.Play(platform.Cue{Filename: "hum.wav", Loop: true, Volume: 1, Pitch: 1.5})
	if err != nil {
		t.Fatal(err)
	}
	sink.pull(testRate.N(200 * time.Millisecond))
	if !v.Playing() {
		t.Fatal("loop ended by itself")
	}
	v.Set(0, 1, -1)
	v.Stop()
	sink.pull(512)
	if v.Playing() {
		t.Error("stopped loop still playing")
	}
	_ = d.Close()
	if !sink.closed {
		t.Error("sink not closed")
	}
}
