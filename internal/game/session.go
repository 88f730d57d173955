package game

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Result is a finished run.
type Result struct {
	SessionID uuid.UUID
	Player    string
	Level     string
	Score     int
	Asteroids int
	Frames    uint64
	Duration  time.Duration
}

// ScoreRecorder stores finished runs.
type ScoreRecorder interface {
	RecordScore(ctx context.Context, r Result) error
}

// Session is the state of the current run. It outlives scenes so the
// collision rules registered at startup can score into it.
type Session struct {
	id        uuid.UUID
	player    string
	level     string
	running   bool
	over      bool
	score     int
	asteroids int
	frames    uint64
	elapsed   time.Duration
	reason    string
}

func NewSession(player string) *Session {
	return &Session{player: player}
}

// Start resets the session for a new run.
func (s *Session) Start(level string) {
	*s = Session{id: uuid.New(), player: s.player, level: level, running: true}
}

// Stop leaves the run without ending it, as when the scene unloads.
func (s *Session) Stop() { s.running = false }

func (s *Session) ID() uuid.UUID  { return s.id }
func (s *Session) Running() bool  { return s.running && !s.over }
func (s *Session) Over() bool     { return s.over }
func (s *Session) Reason() string { return s.reason }
func (s *Session) Score() int     { return s.score }
func (s *Session) Asteroids() int { return s.asteroids }

func (s *Session) AddScore(n int) {
	if s.Running() {
		s.score += n
	}
}

// AsteroidDestroyed counts a kill and adds its points.
func (s *Session) AsteroidDestroyed(points int) {
	if !s.Running() {
		return
	}
	s.asteroids++
	s.score += points
}

func (s *Session) tick(dt time.Duration) {
	if s.Running() {
		s.frames++
		s.elapsed += dt
	}
}

// End finishes the run. Only the first call has an effect; it reports whether
// this call ended it.
func (s *Session) End(reason string) bool {
	if !s.Running() {
		return false
	}
	s.over = true
	s.reason = reason
	return true
}

func (s *Session) Result() Result {
	return Result{
		SessionID: s.id,
		Player:    s.player,
		Level:     s.level,
		Score:     s.score,
		Asteroids: s.asteroids,
		Frames:    s.frames,
		Duration:  s.elapsed,
	}
}
