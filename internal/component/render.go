package component

import (
	"fmt"
	"strings"

	"github.com/kodebolds/engine/internal/vmath"
)

// Geometry names the mesh asset.
type Geometry struct {
	Filename string
}

type BlendState uint8

const (
	NoBlend BlendState = iota
	AlphaBlend
)

type CullState uint8

const (
	CullBack CullState = iota
	CullFront
	CullNone
)

type DepthState uint8

const (
	DepthLessEqual DepthState = iota
	DepthLess
	DepthNone
)

// Shader describes how a mesh is drawn.
type Shader struct {
	Filename      string
	Blend         BlendState
	Cull          CullState
	Depth         DepthState
	RenderTargets []int
	Renderable    bool
}

// Texture names the material maps; empty strings mean unused.
type Texture struct {
	Diffuse string
	Normal  string
	Height  string
}

// Colour tints the entity.
type Colour struct {
	Colour vmath.Vector4
}

type PointLight struct {
	Colour vmath.Vector4
	Range  float32
}

type DirectionalLight struct {
	Colour    vmath.Vector4
	Direction vmath.Vector4
}

// Camera marks a viewpoint. Only one camera is active at a time.
type Camera struct {
	FOV           float32
	Near          float32
	Far           float32
	RenderTargets []int
	Active        bool
}

func ParseBlendState(s string) (BlendState, error) {
	switch strings.ToLower(s) {
	case "", "none", "noblend":
		return NoBlend, nil
	case "alpha", "alphablend":
		return AlphaBlend, nil
	}
	return 0, fmt.Errorf("unknown blend state %q", s)
}

func ParseCullState(s string) (CullState, error) {
	switch strings.ToLower(s) {
	case "", "back":
		return CullBack, nil
	case "front":
		return CullFront, nil
	case "none":
		return CullNone, nil
	}
	return 0, fmt.Errorf("unknown cull state %q", s)
}

func ParseDepthState(s string) (DepthState, error) {
	switch strings.ToLower(s) {
	case "", "lessequal":
		return DepthLessEqual, nil
	case "less":
		return DepthLess, nil
	case "none":
		return DepthNone, nil
	}
	return 0, fmt.Errorf("unknown depth state %q", s)
}
