package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/kodebolds/engine/internal/platform"
)

// holdPolls is how long a key counts as held after its last key event. Terminals
// send repeats, not releases.
const holdPolls = 6

// Input pumps tcell events on a goroutine and applies them at Poll.
type Input struct {
	platform.KeyState
	events   chan tcell.Event
	lastSeen [platform.KeyCount]int
	polls    int
	quit     bool
	x, y     int
	buttons  uint8
}

// NewInput starts reading events from screen. The reader stops when the screen
// is finalised.
func NewInput(screen tcell.Screen) *Input {
	in := &Input{events: make(chan tcell.Event, 100)}
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(in.events)
				return
			}
			in.events <- ev
		}
	}()
	return in
}

func (in *Input) Poll() {
	in.EndFrame()
	in.polls++
	for {
		select {
		case ev, ok := <-in.events:
			if !ok {
				in.quit = true
				in.expire()
				return
			}
			in.handle(ev)
		default:
			in.expire()
			return
		}
	}
}

func (in *Input) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			in.quit = true
			return
		}
		in.key(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		in.x, in.y = ev.Position()
		in.buttons = uint8(ev.Buttons() & 0xff)
	}
}

func (in *Input) key(k tcell.Key, r rune) {
	key := mapKey(k, r)
	if key == platform.KeyUnknown {
		return
	}
	in.Press(key)
	in.lastSeen[key] = in.polls
}

func (in *Input) expire() {
	for k := 1; k < platform.KeyCount; k++ {
		key := platform.Key(k)
		if in.KeyDown(key) && in.polls-in.lastSeen[k] >= holdPolls {
			in.Release(key)
		}
	}
}

func mapKey(k tcell.Key, r rune) platform.Key {
	switch k {
	case tcell.KeyUp:
		return platform.KeyUp
	case tcell.KeyDown:
		return platform.KeyDown
	case tcell.KeyLeft:
		return platform.KeyLeft
	case tcell.KeyRight:
		return platform.KeyRight
	case tcell.KeyEnter:
		return platform.KeyEnter
	case tcell.KeyEscape:
		return platform.KeyEscape
	case tcell.KeyRune:
		return platform.KeyFromRune(r)
	}
	return platform.KeyUnknown
}

func (in *Input) Pointer() (int, int, uint8) { return in.x, in.y, in.buttons }
func (in *Input) Quit() bool                 { return in.quit }
