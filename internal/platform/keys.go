package platform

// Key is a backend-independent key code.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyW
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyEnter
	KeyEscape
	KeyQ
	KeyE
	keyCount
)

// KeyCount is the number of distinct keys, for sizing state arrays.
const KeyCount = int(keyCount)

var keyNames = [...]string{
	KeyUnknown: "unknown",
	KeyUp:      "up",
	KeyDown:    "down",
	KeyLeft:    "left",
	KeyRight:   "right",
	KeyW:       "w",
	KeyA:       "a",
	KeyS:       "s",
	KeyD:       "d",
	KeySpace:   "space",
	KeyEnter:   "enter",
	KeyEscape:  "escape",
	KeyQ:       "q",
	KeyE:       "e",
}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "unknown"
}

// KeyFromRune maps printable keys; other runes map to KeyUnknown.
func KeyFromRune(r rune) Key {
	switch r {
	case 'w', 'W':
		return KeyW
	case 'a', 'A':
		return KeyA
	case 's', 'S':
		return KeyS
	case 'd', 'D':
		return KeyD
	case 'q', 'Q':
		return KeyQ
	case 'e', 'E':
		return KeyE
	case ' ':
		return KeySpace
	}
	return KeyUnknown
}

// KeyState tracks held and newly pressed keys between polls. Backends embed it.
type KeyState struct {
	down    [KeyCount]bool
	pressed [KeyCount]bool
}

// Press marks k held and newly pressed.
func (s *KeyState) Press(k Key) {
	if !s.down[k] {
		s.pressed[k] = true
	}
	s.down[k] = true
}

func (s *KeyState) Release(k Key) { s.down[k] = false }

// EndFrame clears the newly-pressed flags.
func (s *KeyState) EndFrame() { s.pressed = [KeyCount]bool{} }

// ReleaseAll clears held keys.
func (s *KeyState) ReleaseAll() { s.down = [KeyCount]bool{} }

func (s *KeyState) KeyDown(k Key) bool { return int(k) < KeyCount && s.down[k] }
func (s *KeyState) Pressed(k Key) bool { return int(k) < KeyCount && s.pressed[k] }
