package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/l1jgo/genslot/internal/component"
	"github.com/l1jgo/genslot/internal/core/ecs"
	"github.com/l1jgo/genslot/internal/sim"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

const entityTypeName = "entity"

// Engine wraps a single gopher-lua VM whose scripts drive the simulation
// through a small entity API. Single-goroutine access only (tick loop).
type Engine struct {
	vm   *lua.LState
	env  *sim.Env
	log  *zap.Logger
	tick uint64
}

// NewEngine creates a Lua VM bound to env and loads every .lua file in
// scriptsDir in name order. An empty scriptsDir loads nothing.
func NewEngine(scriptsDir string, env *sim.Env, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{vm: lua.NewState(), env: env, log: log}
	e.vm.SetGlobal("API_VERSION", lua.LNumber(1))
	e.registerAPI()

	if scriptsDir != "" {
		if err := e.loadDir(scriptsDir); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// LoadString runs a chunk of Lua source in the engine's VM.
func (e *Engine) LoadString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load chunk: %w", err)
	}
	return nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// OnTick calls the global on_tick(tick) if the scripts define one.
func (e *Engine) OnTick(tick uint64) error {
	e.tick = tick
	fn := e.vm.GetGlobal("on_tick")
	if fn == lua.LNil {
		return nil
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(tick)); err != nil {
		return fmt.Errorf("on_tick: %w", err)
	}
	return nil
}

func (e *Engine) registerAPI() {
	mt := e.vm.NewTypeMetatable(entityTypeName)
	e.vm.SetField(mt, "__tostring", e.vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(checkEntity(L, 1).String()))
		return 1
	}))
	e.vm.SetField(mt, "__eq", e.vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(checkEntity(L, 1) == checkEntity(L, 2)))
		return 1
	}))
	e.vm.SetField(mt, "__index", e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"index": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkEntity(L, 1).Index()))
			return 1
		},
		"generation": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkEntity(L, 1).Generation()))
			return 1
		},
	}))

	api := map[string]lua.LGFunction{
		"spawn":        e.luaSpawn,
		"despawn":      e.luaDespawn,
		"alive":        e.luaAlive,
		"position":     e.luaPosition,
		"set_velocity": e.luaSetVelocity,
		"live_count":   e.luaLiveCount,
		"log":          e.luaLog,
	}
	for name, fn := range api {
		e.vm.SetGlobal(name, e.vm.NewFunction(fn))
	}
}

func pushEntity(L *lua.LState, id ecs.EntityID) {
	ud := L.NewUserData()
	ud.Value = id
	L.SetMetatable(ud, L.GetTypeMetatable(entityTypeName))
	L.Push(ud)
}

func checkEntity(L *lua.LState, n int) ecs.EntityID {
	ud := L.CheckUserData(n)
	if id, ok := ud.Value.(ecs.EntityID); ok {
		return id
	}
	L.ArgError(n, "entity expected")
	return 0
}

// spawn(name, x, y, vx, vy [, lifetime]) -> entity
func (e *Engine) luaSpawn(L *lua.LState) int {
	spec := sim.SpawnSpec{
		Name:     L.CheckString(1),
		Position: component.Position{X: float32(L.CheckNumber(2)), Y: float32(L.CheckNumber(3))},
		Velocity: component.Velocity{X: float32(L.OptNumber(4, 0)), Y: float32(L.OptNumber(5, 0))},
		Lifetime: L.OptInt(6, 0),
	}
	if spec.Lifetime < 0 {
		L.ArgError(6, "lifetime must be >= 0")
		return 0
	}
	pushEntity(L, e.env.Spawn(spec, e.tick, "script"))
	return 1
}

// despawn(entity) -> bool
func (e *Engine) luaDespawn(L *lua.LState) int {
	L.Push(lua.LBool(e.env.Despawn(checkEntity(L, 1))))
	return 1
}

// alive(entity) -> bool
func (e *Engine) luaAlive(L *lua.LState) int {
	L.Push(lua.LBool(e.env.World.Alive(checkEntity(L, 1))))
	return 1
}

// position(entity) -> x, y | nil
func (e *Engine) luaPosition(L *lua.LState) int {
	pos, ok := ecs.GetComponent[component.Position](e.env.World, checkEntity(L, 1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(pos.X))
	L.Push(lua.LNumber(pos.Y))
	return 2
}

// set_velocity(entity, vx, vy) -> bool
func (e *Engine) luaSetVelocity(L *lua.LState) int {
	id := checkEntity(L, 1)
	vel := component.Velocity{X: float32(L.CheckNumber(2)), Y: float32(L.CheckNumber(3))}
	L.Push(lua.LBool(ecs.SetComponent(e.env.World, id, vel)))
	return 1
}

// live_count() -> n
func (e *Engine) luaLiveCount(L *lua.LState) int {
	L.Push(lua.LNumber(e.env.World.Pool().LiveCount()))
	return 1
}

// log(msg)
func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)), zap.Uint64("tick", e.tick))
	return 0
}
