package data

import (
	"fmt"
	"math"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"
)

// AsteroidDef places one asteroid.
type AsteroidDef struct {
	Position Vec3    `yaml:"position"`
	Velocity Vec3    `yaml:"velocity"`
	Scale    float32 `yaml:"scale"`
}

// FieldDef scatters Count asteroids on a ring around Centre. The same seed
// always gives the same field.
type FieldDef struct {
	Count     int     `yaml:"count"`
	Centre    Vec3    `yaml:"centre"`
	MinRadius float32 `yaml:"min_radius"`
	MaxRadius float32 `yaml:"max_radius"`
	Speed     float32 `yaml:"speed"`
	Seed      uint64  `yaml:"seed"`
}

// LevelDef is one level layout.
type LevelDef struct {
	Name      string        `yaml:"name"`
	Player    Vec3          `yaml:"player"`
	Ship      Vec3          `yaml:"ship"`
	Sun       Vec3          `yaml:"sun"`
	Surface   Vec3          `yaml:"surface"`
	Asteroids []AsteroidDef `yaml:"asteroids"`
	Field     *FieldDef     `yaml:"field"`
	Script    string        `yaml:"script"`
	// ScorePerAsteroid is added when a laser destroys an asteroid.
	ScorePerAsteroid int `yaml:"score_per_asteroid"`
}

// DefaultLevel is used when no level file is configured.
func DefaultLevel() *LevelDef {
	return &LevelDef{
		Name:    "default",
		Player:  Vec3{0, 5, -40},
		Ship:    Vec3{0, 40, 0},
		Sun:     Vec3{0, 500, 500},
		Surface: Vec3{0, -2, 0},
		Field: &FieldDef{
			Count: 40, Centre: Vec3{0, 40, 0},
			MinRadius: 80, MaxRadius: 160, Speed: 5, Seed: 1,
		},
		ScorePerAsteroid: 10,
	}
}

// LoadLevel reads a level file over DefaultLevel.
func LoadLevel(path string) (*LevelDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	lvl := DefaultLevel()
	lvl.Field = nil
	if err := yaml.Unmarshal(raw, lvl); err != nil {
		return nil, fmt.Errorf("parse level %s: %w", path, err)
	}
	if lvl.Field != nil && lvl.Field.MaxRadius < lvl.Field.MinRadius {
		return nil, fmt.Errorf("level %s: field max_radius %.1f below min_radius %.1f", lvl.Name, lvl.Field.MaxRadius, lvl.Field.MinRadius)
	}
	return lvl, nil
}

// AllAsteroids returns the explicit asteroids followed by the generated field.
func (l *LevelDef) AllAsteroids() []AsteroidDef {
	out := make([]AsteroidDef, 0, len(l.Asteroids)+l.fieldCount())
	out = append(out, l.Asteroids...)
	if l.Field == nil || l.Field.Count <= 0 {
		return out
	}
	f := l.Field
	rng := rand.New(rand.NewPCG(f.Seed, f.Seed^0x9e3779b97f4a7c15))
	for i := 0; i < f.Count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		radius := f.MinRadius + float32(rng.Float64())*(f.MaxRadius-f.MinRadius)
		height := float32(rng.Float64()*20 - 10)
		sin, cos := math.Sincos(angle)
		pos := Vec3{
			f.Centre[0] + radius*float32(cos),
			f.Centre[1] + height,
			f.Centre[2] + radius*float32(sin),
		}
		// drift tangentially around the centre
		vel := Vec3{-float32(sin) * f.Speed, 0, float32(cos) * f.Speed}
		out = append(out, AsteroidDef{Position: pos, Velocity: vel, Scale: 1 + float32(rng.Float64())})
	}
	return out
}

func (l *LevelDef) fieldCount() int {
	if l.Field == nil {
		return 0
	}
	return max(l.Field.Count, 0)
}
