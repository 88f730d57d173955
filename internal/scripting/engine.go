package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kodebolds/engine/internal/core/ecs"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Host is what level scripts may do to the running game.
type Host interface {
	SpawnAsteroid(x, y, z, vx, vy, vz float32) (ecs.EntityID, error)
	SpawnShip(x, y, z float32) (ecs.EntityID, error)
	Destroy(id ecs.EntityID)
	Alive(id ecs.EntityID) bool
	EntityCount() int
	Score() int
	AddScore(n int)
}

// ErrNoHook is returned by Call when the script does not define the function.
var ErrNoHook = errors.New("lua hook not defined")

// Engine wraps a single gopher-lua VM running level scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm   *lua.LState
	log  *zap.Logger
	host Host
}

// NewEngine creates a VM with the standard libraries and the `engine` table.
func NewEngine(log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	e := &Engine{vm: vm, log: log}
	e.register()
	return e
}

// Bind sets the game the bindings act on. Calls made while unbound raise a Lua error.
func (e *Engine) Bind(h Host) { e.host = h }

func (e *Engine) Close() { e.vm.Close() }

// LoadFile runs a script file, defining its hooks.
func (e *Engine) LoadFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// LoadDir loads every .lua file in dir in name order. A missing dir is skipped.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if err := e.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// HasHook reports whether the global function name exists.
func (e *Engine) HasHook(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Call invokes the global function name with args, discarding results.
func (e *Engine) Call(name string, args ...lua.LValue) error {
	fn, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrNoHook)
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...); err != nil {
		return fmt.Errorf("lua %s: %w", name, err)
	}
	return nil
}

// OnLoad calls on_load() if the script defines it.
func (e *Engine) OnLoad() error {
	if !e.HasHook("on_load") {
		return nil
	}
	return e.Call("on_load")
}

// OnUpdate calls on_update(dt_seconds, frame) if defined.
func (e *Engine) OnUpdate(dtSeconds float64, frame uint64) error {
	if !e.HasHook("on_update") {
		return nil
	}
	return e.Call("on_update", lua.LNumber(dtSeconds), lua.LNumber(frame))
}

// GetNumber reads a numeric global; ok is false if unset or not a number.
func (e *Engine) GetNumber(name string) (float64, bool) {
	n, ok := e.vm.GetGlobal(name).(lua.LNumber)
	return float64(n), ok
}
