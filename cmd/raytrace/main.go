package main

import (
	"os"

	"github.com/urfave/cli"
)

// sceneFlags select and populate the scene shared by compile and render.
var sceneFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "scene, s",
		Value: "cornell",
		Usage: "built-in scene to start from (see the scenes command)",
	},
	cli.StringFlag{
		Name:  "model, m",
		Usage: "glTF or GLB file whose meshes are added to the scene",
	},
	cli.Float64Flag{
		Name:  "model-scale",
		Value: 1,
		Usage: "uniform scale applied to the loaded model",
	},
	cli.StringFlag{
		Name:  "sphere-policy",
		Value: "uniform",
		Usage: "sphere scale policy: uniform or max-axis",
	},
	cli.IntFlag{
		Name:  "workers, w",
		Value: 0,
		Usage: "worker goroutines for extraction and tracing, 0 for one per CPU",
	},
}

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "raytrace"
	app.Usage = "compile scenes into tracer buffers and render them progressively"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "compile a scene and print its buffer layout",
			Description: `
Extract every renderable of the scene into packed triangle, object and sphere
records, upload them into host buffers and print one row per object together
with the buffer totals.`,
			Flags:  sceneFlags,
			Action: CompileScene,
		},
		{
			Name:  "render",
			Usage: "render a scene progressively on the CPU and save it as PNG",
			Description: `
Trace the scene with the software backend, folding one sample per frame into
the accumulation history, then tone-map the result into a PNG. Interrupting
the render saves the frames accumulated so far.`,
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 320,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 240,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "frames, f",
					Value: 64,
					Usage: "number of frames to accumulate",
				},
				cli.IntFlag{
					Name:  "bounces",
					Value: 4,
					Usage: "bounces after the primary hit",
				},
				cli.IntFlag{
					Name:  "rays",
					Value: 1,
					Usage: "rays per pixel per frame",
				},
				cli.Float64Flag{
					Name:  "diverge",
					Value: 0.5,
					Usage: "lens jitter in pixels, for anti-aliasing",
				},
				cli.BoolFlag{
					Name:  "direct",
					Usage: "disable accumulation and keep only the last frame",
				},
				cli.BoolFlag{
					Name:  "animate",
					Usage: "tick object rotation and camera orbit between frames",
				},
				cli.Float64Flag{
					Name:  "exposure",
					Value: 1.0,
					Usage: "exposure multiplier applied before tone-mapping",
				},
				cli.BoolFlag{
					Name:  "profile",
					Usage: "log frame rate and memory statistics every second",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			}, sceneFlags...),
			Action: RenderFrame,
		},
		{
			Name:   "scenes",
			Usage:  "list the built-in scenes",
			Action: ListScenes,
		},
		{
			Name:  "kernel",
			Usage: "check a WGSL tracer kernel against the backend binding contract",
			Description: `
Parse the built-in kernel, or the WGSL file given as argument, and print its
compute entry points and group 0 bindings. Fails when the trace or blend entry
point is missing or a binding has the wrong resource kind.`,
			ArgsUsage: "[kernel.wgsl]",
			Action:    InspectKernel,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
