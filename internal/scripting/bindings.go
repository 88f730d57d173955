package scripting

import (
	"github.com/kodebolds/engine/internal/core/ecs"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

const entityTypeName = "entity"

func (e *Engine) register() {
	mt := e.vm.NewTypeMetatable(entityTypeName)
	e.vm.SetField(mt, "__tostring", e.vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(checkEntity(L, 1).String()))
		return 1
	}))
	e.vm.SetField(mt, "__eq", e.vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(checkEntity(L, 1) == checkEntity(L, 2)))
		return 1
	}))

	api := e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"spawn_asteroid": e.spawnAsteroid,
		"spawn_ship":     e.spawnShip,
		"destroy":        e.destroy,
		"alive":          e.alive,
		"entity_count":   e.entityCount,
		"score":          e.score,
		"add_score":      e.addScore,
		"log":            e.logMessage,
	})
	e.vm.SetGlobal("engine", api)
}

func (e *Engine) pushEntity(L *lua.LState, id ecs.EntityID) {
	ud := L.NewUserData()
	ud.Value = id
	L.SetMetatable(ud, L.GetTypeMetatable(entityTypeName))
	L.Push(ud)
}

func checkEntity(L *lua.LState, n int) ecs.EntityID {
	ud := L.CheckUserData(n)
	id, ok := ud.Value.(ecs.EntityID)
	if !ok {
		L.ArgError(n, "entity expected")
	}
	return id
}

func (e *Engine) mustHost(L *lua.LState) Host {
	if e.host == nil {
		L.RaiseError("engine api used outside a running level")
	}
	return e.host
}

func num(L *lua.LState, n int) float32 {
	return float32(L.OptNumber(n, 0))
}

// engine.spawn_asteroid(x, y, z [, vx, vy, vz]) -> entity
func (e *Engine) spawnAsteroid(L *lua.LState) int {
	h := e.mustHost(L)
	x, y, z := float32(L.CheckNumber(1)), float32(L.CheckNumber(2)), float32(L.CheckNumber(3))
	id, err := h.SpawnAsteroid(x, y, z, num(L, 4), num(L, 5), num(L, 6))
	if err != nil {
		L.RaiseError("spawn_asteroid: %s", err.Error())
	}
	e.pushEntity(L, id)
	return 1
}

// engine.spawn_ship(x, y, z) -> entity
func (e *Engine) spawnShip(L *lua.LState) int {
	h := e.mustHost(L)
	id, err := h.SpawnShip(float32(L.CheckNumber(1)), float32(L.CheckNumber(2)), float32(L.CheckNumber(3)))
	if err != nil {
		L.RaiseError("spawn_ship: %s", err.Error())
	}
	e.pushEntity(L, id)
	return 1
}

func (e *Engine) destroy(L *lua.LState) int {
	e.mustHost(L).Destroy(checkEntity(L, 1))
	return 0
}

func (e *Engine) alive(L *lua.LState) int {
	L.Push(lua.LBool(e.mustHost(L).Alive(checkEntity(L, 1))))
	return 1
}

func (e *Engine) entityCount(L *lua.LState) int {
	L.Push(lua.LNumber(e.mustHost(L).EntityCount()))
	return 1
}

func (e *Engine) score(L *lua.LState) int {
	L.Push(lua.LNumber(e.mustHost(L).Score()))
	return 1
}

func (e *Engine) addScore(L *lua.LState) int {
	e.mustHost(L).AddScore(L.CheckInt(1))
	return 0
}

func (e *Engine) logMessage(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}
