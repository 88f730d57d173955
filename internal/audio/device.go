package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/kodebolds/engine/internal/platform"
	"go.uber.org/zap"
)

// Sink is the output the mixer is played into.
type Sink interface {
	Init(rate beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Close()
}

// Speaker is the system audio output.
type Speaker struct{}

func (Speaker) Init(rate beep.SampleRate, n int) error { return speaker.Init(rate, n) }
func (Speaker) Play(s beep.Streamer)                   { speaker.Play(s) }
func (Speaker) Lock()                                  { speaker.Lock() }
func (Speaker) Unlock()                                { speaker.Unlock() }
func (Speaker) Close()                                 { speaker.Close() }

// Device mixes every voice into one stream played by the sink.
type Device struct {
	sink   Sink
	cache  *Cache
	mixer  *beep.Mixer
	buffer time.Duration
	log    *zap.Logger

	mu    sync.Mutex
	ready bool
}

func NewDevice(sink Sink, cache *Cache, buffer time.Duration, log *zap.Logger) *Device {
	if buffer <= 0 {
		buffer = 100 * time.Millisecond
	}
	return &Device{sink: sink, cache: cache, mixer: &beep.Mixer{}, buffer: buffer, log: log}
}

func (d *Device) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ready {
		return nil
	}
	rate := d.cache.Format().SampleRate
	if err := d.sink.Init(rate, rate.N(d.buffer)); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}
	d.sink.Play(keepAlive{d.mixer})
	d.ready = true
	d.log.Info("audio ready", zap.Int("sample_rate", int(rate)), zap.Duration("buffer", d.buffer))
	return nil
}

func (d *Device) Play(c platform.Cue) (platform.Voice, error) {
	d.mu.Lock()
	ready := d.ready
	d.mu.Unlock()
	if !ready {
		return nil, errors.New("audio: play before init")
	}
	buf, err := d.cache.Get(c.Filename)
	if err != nil {
		return nil, err
	}
	var src beep.Streamer = buf.Streamer(0, buf.Len())
	if c.Loop {
		src = beep.Loop(-1, buf.Streamer(0, buf.Len()))
	}
	v := &voice{sink: d.sink}
	v.pitch = beep.ResampleRatio(resampleQuality, pitchRatio(c.Pitch), src)
	v.pan = &effects.Pan{Streamer: v.pitch, Pan: float64(c.Pan)}
	v.volume = &effects.Volume{Streamer: v.pan, Base: 2}
	setVolume(v.volume, c.Volume)
	v.ctrl = &beep.Ctrl{Streamer: v.volume}

	d.sink.Lock()
	d.mixer.Add(beep.Seq(v.ctrl, beep.Callback(func() { v.done.Store(true) })))
	d.sink.Unlock()
	return v, nil
}

// Voices is the number of streams in the mixer.
func (d *Device) Voices() int {
	d.sink.Lock()
	defer d.sink.Unlock()
	return d.mixer.Len()
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ready {
		return nil
	}
	d.sink.Lock()
	d.mixer.Clear()
	d.sink.Unlock()
	d.sink.Close()
	d.ready = false
	return nil
}

type voice struct {
	sink   Sink
	ctrl   *beep.Ctrl
	volume *effects.Volume
	pan    *effects.Pan
	pitch  *beep.Resampler
	done   atomic.Bool
}

func (v *voice) Playing() bool { return !v.done.Load() }

// Stop detaches the source; the mixer drops the voice on its next read.
func (v *voice) Stop() {
	v.sink.Lock()
	v.ctrl.Streamer = nil
	v.sink.Unlock()
}

func (v *voice) Set(volume, pitch, pan float32) {
	v.sink.Lock()
	setVolume(v.volume, volume)
	v.pan.Pan = float64(pan)
	v.pitch.SetRatio(pitchRatio(pitch))
	v.sink.Unlock()
}

// setVolume maps a linear 0..1 gain onto beep's exponential volume.
func setVolume(e *effects.Volume, gain float32) {
	if gain <= 0 {
		e.Silent = true
		return
	}
	e.Silent = false
	e.Volume = math.Log2(float64(gain))
}

func pitchRatio(p float32) float64 {
	if p <= 0 {
		return 1
	}
	return float64(p)
}

// keepAlive keeps the sink fed with silence while no voice plays.
type keepAlive struct{ m *beep.Mixer }

func (k keepAlive) Stream(samples [][2]float64) (int, bool) {
	n, _ := k.m.Stream(samples)
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (k keepAlive) Err() error { return nil }
