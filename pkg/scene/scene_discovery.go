package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/df07/go-pathtracer/pkg/material"
)

// ErrUnknownScene is returned by Lookup for names not in the registry
var ErrUnknownScene = errors.New("unknown scene")

// ErrNotTexturable is returned by LookupTextured for scenes without a texture slot
var ErrNotTexturable = errors.New("scene does not take a texture")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string // Unique identifier used on the command line
	DisplayName string // Human readable name
	Description string
	Textured    bool // Accepts a texture through LookupTextured
	build       func() *Scene
	textured    func(material.ColorSource) *Scene
}

var builtinScenes = []SceneInfo{
	{
		ID:          "default",
		Description: "Spheres of every material family on a large ground quad",
		build:       func() *Scene { return NewDefaultScene() },
	},
	{
		ID:          "showcase",
		Description: "3x3 grid of metal, diffuse, emissive and glass spheres on a checkered ground",
		build:       func() *Scene { return NewShowcaseScene() },
	},
	{
		ID:          "sphere-grid",
		Description: "20x20 grid of colored metal spheres rendered through the BVH",
		build:       func() *Scene { return NewSphereGridScene() },
	},
	{
		ID:          "diffuse-sphere",
		Description: "Single gray diffuse sphere under a constant white sky",
		build:       func() *Scene { return NewDiffuseSphereScene() },
	},
	{
		ID:          "textured-sphere",
		Description: "Image-textured sphere under a panel light (texture from -texture)",
		build:       func() *Scene { return NewTexturedSphereScene(nil) },
		textured:    func(tex material.ColorSource) *Scene { return NewTexturedSphereScene(tex) },
	},
}

// ListScenes returns the built-in scenes sorted by ID
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, len(builtinScenes))
	copy(scenes, builtinScenes)
	for i := range scenes {
		scenes[i].DisplayName = titleCase(scenes[i].ID)
		scenes[i].Textured = scenes[i].textured != nil
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// Lookup builds a fresh instance of the named scene. The result still needs
// Preprocess before it can be rendered.
func Lookup(id string) (*Scene, error) {
	for _, info := range builtinScenes {
		if info.ID == id {
			return info.build(), nil
		}
	}

	return nil, unknownSceneError(id)
}

// LookupTextured builds the named scene with texture applied to its
// texturable surface
func LookupTextured(id string, texture material.ColorSource) (*Scene, error) {
	for _, info := range builtinScenes {
		if info.ID != id {
			continue
		}
		if info.textured == nil {
			return nil, fmt.Errorf("%w: %q", ErrNotTexturable, id)
		}
		return info.textured(texture), nil
	}
	return nil, unknownSceneError(id)
}

func unknownSceneError(id string) error {
	names := make([]string, 0, len(builtinScenes))
	for _, info := range ListScenes() {
		names = append(names, info.ID)
	}
	return fmt.Errorf("%w %q (available: %s)", ErrUnknownScene, id, strings.Join(names, ", "))
}

// titleCase converts a scene ID into a display name
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
