package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/A-Imbert/Ray-Tracer/engine/renderer/compiler"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/extractor"
	"github.com/A-Imbert/Ray-Tracer/engine/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// compileScene builds the compiler the renderer would use and compiles sc once.
// The caller releases the returned compiler.
func compileScene(sc scene.Scene, workers int, policy extractor.SpherePolicy) (compiler.Compiler, compiler.SceneBindings, error) {
	c := compiler.NewCompiler(compiler.WithExtractor(extractor.NewExtractor(
		extractor.WithWorkers(workers),
		extractor.WithSpherePolicy(policy),
	)))
	bindings, err := c.CompileObjects(sc.MeshObjects(), sc.SphereObjects())
	if err != nil {
		c.Release()
		return nil, compiler.SceneBindings{}, err
	}
	return c, bindings, nil
}

// CompileScene compiles the selected scene and prints its object table and buffer totals.
func CompileScene(ctx *cli.Context) error {
	setupLogging(ctx)

	policy, err := parseSpherePolicy(ctx.String("sphere-policy"))
	if err != nil {
		return err
	}
	sc, err := buildScene(ctx)
	if err != nil {
		return err
	}

	c, _, err := compileScene(sc, ctx.Int("workers"), policy)
	if err != nil {
		return err
	}
	defer c.Release()

	// Re-extract for the per-object rows; the compiled buffers only hold packed bytes.
	res, err := extractor.NewExtractor(extractor.WithSpherePolicy(policy)).Extract(sc.MeshObjects())
	if err != nil {
		return err
	}
	sphereObjects := sc.SphereObjects()
	spheres, err := extractor.NewExtractor(extractor.WithSpherePolicy(policy)).ExtractSpheres(sphereObjects)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Object", "Kind", "Triangles", "Bounds / Radius", "Colour", "Smoothness", "Emission"})
	for i, obj := range res.Objects {
		table.Append([]string{
			fmt.Sprintf("%d", res.ObjectIDs[i]),
			"mesh",
			fmt.Sprintf("%d @ %d", obj.NumTriangles, obj.FirstTriIndex),
			fmt.Sprintf("%s .. %s", fmtVec3(obj.BoundsMin), fmtVec3(obj.BoundsMax)),
			fmtVec3([3]float32{obj.Material.Colour[0], obj.Material.Colour[1], obj.Material.Colour[2]}),
			fmt.Sprintf("%.2f", obj.Material.Smoothness),
			fmt.Sprintf("%.2f", obj.Material.EmissionStrength),
		})
	}
	for i, sphere := range spheres {
		table.Append([]string{
			fmt.Sprintf("%d", sphereObjects[i].ID()),
			"sphere",
			"-",
			fmt.Sprintf("%s r=%.3f", fmtVec3(sphere.Position), sphere.Radius),
			fmtVec3([3]float32{sphere.Material.Colour[0], sphere.Material.Colour[1], sphere.Material.Colour[2]}),
			fmt.Sprintf("%.2f", sphere.Material.Smoothness),
			fmt.Sprintf("%.2f", sphere.Material.EmissionStrength),
		})
	}

	stats := c.Stats()
	table.SetFooter([]string{
		"TOTAL",
		fmt.Sprintf("%d objects", stats.Objects+stats.Spheres),
		fmt.Sprintf("%d", stats.Triangles),
		fmt.Sprintf("%d spheres", stats.Spheres),
		fmtBytes(stats.TriangleBytes + stats.ObjectBytes + stats.SphereBytes),
		"",
		stats.Duration.Round(time.Microsecond).String(),
	})
	table.Render()

	logger.Noticef("compiled scene %q with %s spheres\n%s", sc.Name(), policy, buf.String())
	return nil
}

func fmtVec3(v [3]float32) string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v[0], v[1], v[2])
}

func fmtBytes(n uint64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
