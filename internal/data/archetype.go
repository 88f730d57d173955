// Package data loads game content from YAML: asset defaults per archetype and
// level layouts.
package data

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/kodebolds/engine/internal/component"
	"github.com/kodebolds/engine/internal/vmath"
	"gopkg.in/yaml.v3"
)

// Vec3 is a YAML-friendly [x, y, z].
type Vec3 [3]float32

func (v Vec3) V() vmath.Vector3 { return vmath.V3(v[0], v[1], v[2]) }

// Point returns (x, y, z, 1).
func (v Vec3) Point() vmath.Vector4 { return vmath.Point(v[0], v[1], v[2]) }

// AssetDef holds the asset and tuning defaults for one archetype.
type AssetDef struct {
	Geometry string `yaml:"geometry"`
	Shader   string `yaml:"shader"`
	Blend    string `yaml:"blend"`
	Cull     string `yaml:"cull"`
	Depth    string `yaml:"depth"`

	Diffuse string `yaml:"diffuse"`
	Normal  string `yaml:"normal"`
	Height  string `yaml:"height"`

	Sound  string  `yaml:"sound"`
	Volume float32 `yaml:"volume"`
	Pitch  float32 `yaml:"pitch"`

	MaxSpeed float32 `yaml:"max_speed"`
	Radius   float32 `yaml:"radius"`
	BoxMin   Vec3    `yaml:"box_min"`
	BoxMax   Vec3    `yaml:"box_max"`
	Light    float32 `yaml:"light_range"`
}

// ShaderComponent builds the Shader component from the def's state names.
func (d AssetDef) ShaderComponent() (component.Shader, error) {
	blend, err := component.ParseBlendState(d.Blend)
	if err != nil {
		return component.Shader{}, err
	}
	cull, err := component.ParseCullState(d.Cull)
	if err != nil {
		return component.Shader{}, err
	}
	depth, err := component.ParseDepthState(d.Depth)
	if err != nil {
		return component.Shader{}, err
	}
	return component.Shader{
		Filename:   d.Shader,
		Blend:      blend,
		Cull:       cull,
		Depth:      depth,
		Renderable: true,
	}, nil
}

func (d AssetDef) TextureComponent() component.Texture {
	return component.Texture{Diffuse: d.Diffuse, Normal: d.Normal, Height: d.Height}
}

// Archetype names used by the spawner.
const (
	Laser         = "laser"
	Ship          = "ship"
	Asteroid      = "asteroid"
	LaserGun      = "laser_gun"
	Camera        = "camera"
	Player        = "player"
	Engine        = "engine"
	PlanetSurface = "planet_surface"
	Sun           = "sun"
	SkyBox        = "skybox"
)

// Builtin returns the defaults used when no archetype file is present.
func Builtin() map[string]AssetDef {
	return map[string]AssetDef{
		Laser: {
			Geometry: "sphere.obj", Shader: "defaultShader.fx",
			Diffuse: "stones.dds", Normal: "stones_NM_height.dds",
			Sound: "laser.wav", Volume: 0.5, Pitch: 1,
			MaxSpeed: 200, Radius: 1, Light: 10,
		},
		Ship: {
			Geometry: "ship.obj", Shader: "defaultShader.fx",
			Diffuse: "ship_diffuse.dds",
			MaxSpeed: 60, Radius: 5,
		},
		Asteroid: {
			Geometry: "asteroid.obj", Shader: "defaultShader.fx",
			Diffuse: "asteroid_diffuse.dds",
			MaxSpeed: 50, Radius: 4,
		},
		LaserGun: {
			Geometry: "laser_gun.obj", Shader: "defaultShader.fx",
			Diffuse: "laser_gun_diffuse.dds",
		},
		Camera: {},
		Player: {
			MaxSpeed: 20, Radius: 2,
		},
		Engine: {
			Geometry: "quad100.obj", Shader: "thrusterShader.fx",
			Blend: "alpha", Cull: "none",
			Sound: "engine.wav", Volume: 0.3, Pitch: 1,
		},
		PlanetSurface: {
			Geometry: "planet.obj", Shader: "defaultShader.fx",
			Diffuse: "planet_diffuse.dds",
			BoxMin: Vec3{-190, -2, -190}, BoxMax: Vec3{190, 2, 190},
		},
		Sun: {
			Geometry: "sun.obj", Shader: "sunShader.fx",
			Light: 1000,
		},
		SkyBox: {
			Geometry: "cube.obj", Shader: "skyboxShader.fx",
			Cull: "front", Depth: "lessequal",
			Diffuse: "skybox.dds",
		},
	}
}

// ArchetypeTable resolves archetype names to asset defaults.
type ArchetypeTable struct {
	defs map[string]AssetDef
}

// NewArchetypeTable wraps defs; nil means Builtin().
func NewArchetypeTable(defs map[string]AssetDef) *ArchetypeTable {
	if defs == nil {
		defs = Builtin()
	}
	return &ArchetypeTable{defs: defs}
}

// LoadArchetypeTable reads archetypes.yaml. Fields present in the file override
// the built-in defaults; archetypes absent from the file keep them.
func LoadArchetypeTable(path string) (*ArchetypeTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archetypes: %w", err)
	}
	var nodes map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("parse archetypes: %w", err)
	}
	defs := Builtin()
	for name, node := range nodes {
		def := defs[name]
		if err := node.Decode(&def); err != nil {
			return nil, fmt.Errorf("parse archetype %s: %w", name, err)
		}
		if _, err := def.ShaderComponent(); err != nil {
			return nil, fmt.Errorf("archetype %s: %w", name, err)
		}
		defs[name] = def
	}
	return &ArchetypeTable{defs: defs}, nil
}

// Get returns the defaults for name; unknown names get the zero AssetDef.
func (t *ArchetypeTable) Get(name string) AssetDef {
	return t.defs[name]
}

// Names lists the archetypes, sorted.
func (t *ArchetypeTable) Names() []string {
	return slices.Sorted(maps.Keys(t.defs))
}

// Sounds lists every distinct sound file referenced, sorted, for preloading.
func (t *ArchetypeTable) Sounds() []string {
	seen := make(map[string]struct{})
	for _, d := range t.defs {
		if d.Sound != "" {
			seen[d.Sound] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}
