package system

import (
	"time"

	"github.com/kodebolds/engine/internal/core/ecs"
	"github.com/kodebolds/engine/internal/engine"
	"github.com/kodebolds/engine/internal/platform"
	"go.uber.org/zap"
)

// AudioSystem starts, updates and stops sounds for Audio components.
// A one-shot sound clears Active as soon as it starts; a looping sound plays
// until Active is cleared or the entity loses its Audio component.
type AudioSystem struct {
	ecs    *engine.Manager
	device platform.AudioDevice
	voices map[ecs.EntityID]platform.Voice
	log    *zap.Logger
}

func NewAudioSystem(m *engine.Manager, device platform.AudioDevice, log *zap.Logger) *AudioSystem {
	return &AudioSystem{
		ecs:    m,
		device: device,
		voices: make(map[ecs.EntityID]platform.Voice),
		log:    log,
	}
}

func (s *AudioSystem) Name() string { return "audio" }

// SetDevice stops every voice on the old device and plays on d from now on.
func (s *AudioSystem) SetDevice(d platform.AudioDevice) {
	s.StopAll()
	s.device = d
}

// Voices is the number of sounds currently tracked.
func (s *AudioSystem) Voices() int { return len(s.voices) }

func (s *AudioSystem) Update(_ time.Duration) {
	for id, a := range s.ecs.Audios.All() {
		v, tracked := s.voices[id]
		if tracked && !v.Playing() {
			delete(s.voices, id)
			tracked = false
		}
		switch {
		case tracked && a.Loop && !a.Active:
			v.Stop()
			delete(s.voices, id)
		case tracked:
			v.Set(a.Volume, a.Pitch, a.Pan)
		case a.Active:
			voice, err := s.device.Play(platform.CueFromAudio(*a))
			if err != nil {
				s.log.Warn("play sound failed", zap.String("file", a.Filename), zap.Stringer("entity", id), zap.Error(err))
				a.Active = false
				continue
			}
			if !a.Loop {
				a.Active = false
			}
			s.voices[id] = voice
		}
	}
	// entities that were destroyed or lost their Audio
	for id, v := range s.voices {
		if !s.ecs.Audios.Has(id) {
			v.Stop()
			delete(s.voices, id)
		}
	}
}

// StopAll silences every tracked voice. Scenes call it on unload.
func (s *AudioSystem) StopAll() {
	for id, v := range s.voices {
		v.Stop()
		delete(s.voices, id)
	}
}
