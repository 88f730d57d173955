package data

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/kodebolds/engine/internal/component"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadArchetypeTableMergesOverBuiltin(t *testing.T) {
	p := writeFile(t, "archetypes.yaml", `
asteroid:
  geometry: rock.obj
  max_speed: 75
drone:
  geometry: drone.obj
  shader: defaultShader.fx
  blend: alpha
`)
	tbl, err := LoadArchetypeTable(p)
	if err != nil {
		t.Fatal(err)
	}
	a := tbl.Get(Asteroid)
	if a.Geometry != "rock.obj" || a.MaxSpeed != 75 {
		t.Errorf("asteroid = %+v", a)
	}
	if a.Shader != "defaultShader.fx" || a.Radius != 4 {
		t.Errorf("asteroid lost built-in fields: %+v", a)
	}
	if tbl.Get(Sun).Geometry != "sun.obj" {
		t.Error("sun default missing")
	}
	sh, err := tbl.Get("drone").ShaderComponent()
	if err != nil || sh.Blend != component.AlphaBlend || !sh.Renderable {
		t.Errorf("drone shader = %+v, %v", sh, err)
	}
	if !slices.Contains(tbl.Names(), "drone") {
		t.Error("drone not listed")
	}
}

func TestLoadArchetypeTableRejectsBadState(t *testing.T) {
	p := writeFile(t, "archetypes.yaml", "ship:\n  cull: sideways\n")
	if _, err := LoadArchetypeTable(p); err == nil {
		t.Fatal("expected error for unknown cull state")
	}
}

func TestBuiltinSkyboxAndEngineStates(t *testing.T) {
	tbl := NewArchetypeTable(nil)
	sky, err := tbl.Get(SkyBox).ShaderComponent()
	if err != nil || sky.Cull != component.CullFront {
		t.Errorf("skybox shader = %+v, %v", sky, err)
	}
	eng, err := tbl.Get(Engine).ShaderComponent()
	if err != nil || eng.Blend != component.AlphaBlend || eng.Cull != component.CullNone {
		t.Errorf("engine shader = %+v, %v", eng, err)
	}
	if got := tbl.Sounds(); !slices.Equal(got, []string{"engine.wav", "laser.wav"}) {
		t.Errorf("Sounds = %v", got)
	}
}

func TestLoadLevel(t *testing.T) {
	p := writeFile(t, "level.yaml", `
name: test
player: [1, 2, 3]
asteroids:
  - position: [10, 0, 0]
    velocity: [0, 0, 1]
field:
  count: 5
  centre: [0, 0, 0]
  min_radius: 10
  max_radius: 20
  seed: 3
`)
	lvl, err := LoadLevel(p)
	if err != nil {
		t.Fatal(err)
	}
	if lvl.Player != (Vec3{1, 2, 3}) {
		t.Errorf("player = %v", lvl.Player)
	}
	if lvl.Ship != DefaultLevel().Ship {
		t.Errorf("ship default not kept: %v", lvl.Ship)
	}
	all := lvl.AllAsteroids()
	if len(all) != 6 {
		t.Fatalf("asteroids = %d, want 6", len(all))
	}
	for _, a := range all[1:] {
		flat := a.Position.V()
		flat.Y = 0
		d := flat.Length()
		if d < 9.9 || d > 20.1 {
			t.Errorf("field asteroid at distance %v outside ring", d)
		}
	}
	again := lvl.AllAsteroids()
	if !slices.Equal(all, again) {
		t.Error("field not deterministic for a fixed seed")
	}
}

func TestLoadLevelBadRing(t *testing.T) {
	p := writeFile(t, "level.yaml", "field:\n  count: 1\n  min_radius: 10\n  max_radius: 5\n")
	if _, err := LoadLevel(p); err == nil {
		t.Fatal("expected error")
	}
}
