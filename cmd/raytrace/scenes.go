package main

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/A-Imbert/Ray-Tracer/engine/camera"
	"github.com/A-Imbert/Ray-Tracer/engine/game_object"
	"github.com/A-Imbert/Ray-Tracer/engine/loader"
	"github.com/A-Imbert/Ray-Tracer/engine/model"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/extractor"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/material"
	"github.com/A-Imbert/Ray-Tracer/engine/scene"
	"github.com/chewxy/math32"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// sceneBuilder populates an empty scene and returns the camera to view it with.
type sceneBuilder struct {
	description string
	build       func(sc scene.Scene) camera.Camera
}

var builtinScenes = map[string]sceneBuilder{
	"cornell": {
		description: "closed box with coloured walls, a ceiling light and two spheres",
		build:       buildCornell,
	},
	"spheres": {
		description: "row of spheres from diffuse to mirror on a ground sphere under the sky",
		build:       buildSpheres,
	},
	"empty": {
		description: "sky only, meant to be used with --model",
		build:       buildEmpty,
	},
}

// wall adds a quad of the given size centred at pos, rotated by rot (radians) from facing +Y.
func wall(sc scene.Scene, mat material.Material, pos, rot [3]float32, sx, sz float32) {
	sc.Add(game_object.NewGameObject(
		game_object.WithModel(model.NewQuad()),
		game_object.WithMaterial(mat),
		game_object.WithPosition(pos[0], pos[1], pos[2]),
		game_object.WithRotation(rot[0], rot[1], rot[2]),
		game_object.WithScale(sx, 1, sz),
	))
}

func orbitCamera(targetY, radius, elevation float32) camera.Camera {
	return camera.NewCamera(
		camera.WithFov(40),
		camera.WithController(camera.NewOrbitController(
			camera.WithTarget(0, targetY, 0),
			camera.WithRadius(radius),
			camera.WithElevation(elevation),
			camera.WithOrbitSpeed(0.3),
		)),
	)
}

func buildCornell(sc scene.Scene) camera.Camera {
	white := material.NewMaterial(material.WithColour(0.75, 0.75, 0.75, 1))
	red := material.NewMaterial(material.WithColour(0.75, 0.15, 0.15, 1))
	green := material.NewMaterial(material.WithColour(0.15, 0.75, 0.15, 1))
	light := material.NewMaterial(material.WithColour(1, 1, 1, 1), material.WithEmission(1, 0.9, 0.8, 12))

	half := math32.Pi / 2
	wall(sc, white, [3]float32{0, 0, 0}, [3]float32{0, 0, 0}, 2, 2)
	wall(sc, white, [3]float32{0, 2, 0}, [3]float32{math32.Pi, 0, 0}, 2, 2)
	wall(sc, white, [3]float32{0, 1, -1}, [3]float32{half, 0, 0}, 2, 2)
	wall(sc, red, [3]float32{-1, 1, 0}, [3]float32{0, 0, -half}, 2, 2)
	wall(sc, green, [3]float32{1, 1, 0}, [3]float32{0, 0, half}, 2, 2)
	wall(sc, light, [3]float32{0, 1.99, 0}, [3]float32{math32.Pi, 0, 0}, 0.6, 0.6)

	sc.Add(game_object.NewGameObject(
		game_object.WithSphere(0.35),
		game_object.WithPosition(-0.4, 0.35, -0.3),
		game_object.WithMaterial(material.NewMaterial(material.WithColour(0.9, 0.9, 0.9, 1))),
	))
	sc.Add(game_object.NewGameObject(
		game_object.WithSphere(0.3),
		game_object.WithPosition(0.45, 0.3, 0.2),
		game_object.WithMaterial(material.NewMaterial(material.WithColour(0.95, 0.95, 0.95, 1), material.WithSmoothness(1))),
	))

	return orbitCamera(1, 3.6, 0)
}

func buildSpheres(sc scene.Scene) camera.Camera {
	sc.Add(game_object.NewGameObject(
		game_object.WithSphere(100),
		game_object.WithPosition(0, -100, 0),
		game_object.WithMaterial(material.NewMaterial(material.WithColour(0.5, 0.5, 0.45, 1))),
	))

	colours := [][3]float32{{0.9, 0.2, 0.2}, {0.9, 0.6, 0.2}, {0.9, 0.9, 0.3}, {0.3, 0.8, 0.4}, {0.3, 0.5, 0.9}}
	for i, c := range colours {
		smoothness := float32(i) / float32(len(colours)-1)
		sc.Add(game_object.NewGameObject(
			game_object.WithSphere(0.5),
			game_object.WithPosition(float32(i-len(colours)/2)*1.2, 0.5, 0),
			game_object.WithMaterial(material.NewMaterial(material.WithColour(c[0], c[1], c[2], 1), material.WithSmoothness(smoothness))),
		))
	}

	sc.Add(game_object.NewGameObject(
		game_object.WithSphere(0.25),
		game_object.WithPosition(0, 0.25, 1.2),
		game_object.WithMaterial(material.NewMaterial(material.WithEmission(1, 0.8, 0.5, 6))),
	))

	cube := game_object.NewGameObject(
		game_object.WithModel(model.NewCube()),
		game_object.WithPosition(0, 0.3, -1.5),
		game_object.WithScale(0.6, 0.6, 0.6),
		game_object.WithRotationSpeed(0, 0.5, 0),
		game_object.WithMaterial(material.NewMaterial(material.WithColour(0.8, 0.8, 0.8, 1), material.WithSmoothness(0.6))),
	)
	sc.Add(cube)

	return orbitCamera(0.5, 6, 0.25)
}

func buildEmpty(sc scene.Scene) camera.Camera {
	return orbitCamera(0.5, 4, 0.2)
}

// buildScene creates the scene selected by the command's flags and adds the --model asset.
func buildScene(ctx *cli.Context) (scene.Scene, error) {
	name := ctx.String("scene")
	builder, ok := builtinScenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q, run the scenes command for the list", name)
	}

	sc := scene.NewScene(scene.WithName(name))
	sc.SetCamera(builder.build(sc))

	if path := ctx.String("model"); path != "" {
		asset, err := loader.NewLoader(loader.BackendTypeGLTF).Load(path)
		if err != nil {
			return nil, err
		}
		s := float32(ctx.Float64("model-scale"))
		for _, obj := range asset.Objects(game_object.WithScale(s, s, s)) {
			sc.Add(obj)
		}
		logger.Noticef("added %s: %d meshes, %d triangles", asset.Name, len(asset.Meshes), asset.TriangleCount())
	}
	return sc, nil
}

func parseSpherePolicy(name string) (extractor.SpherePolicy, error) {
	switch name {
	case extractor.SphereScaleUniform.String():
		return extractor.SphereScaleUniform, nil
	case extractor.SphereScaleMaxAxis.String():
		return extractor.SphereScaleMaxAxis, nil
	default:
		return 0, fmt.Errorf("unknown sphere policy %q, want uniform or max-axis", name)
	}
}

// ListScenes prints the built-in scenes.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	names := make([]string, 0, len(builtinScenes))
	for name := range builtinScenes {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Objects", "Description"})
	for _, name := range names {
		sc := scene.NewScene()
		builtinScenes[name].build(sc)
		table.Append([]string{name, fmt.Sprintf("%d", sc.Count()), builtinScenes[name].description})
	}
	table.Render()
	logger.Noticef("built-in scenes\n%s", buf.String())
	return nil
}
