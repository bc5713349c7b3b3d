package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/A-Imbert/Ray-Tracer/engine"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/tracer"
	"github.com/A-Imbert/Ray-Tracer/log"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// renderSettings maps the render command's flags onto tracer settings.
func renderSettings(ctx *cli.Context) renderer.Settings {
	return renderer.Settings{
		Enabled:         true,
		Progressive:     !ctx.Bool("direct"),
		MaxBounceCount:  ctx.Int("bounces"),
		RaysPerPixel:    ctx.Int("rays"),
		DivergeStrength: float32(ctx.Float64("diverge")),
	}.Sanitized()
}

// RenderFrame renders the selected scene on the CPU and saves the tone-mapped result.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	width, height := ctx.Int("width"), ctx.Int("height")
	frames := ctx.Int("frames")
	if frames <= 0 {
		return fmt.Errorf("frame count must be positive, got %d", frames)
	}
	policy, err := parseSpherePolicy(ctx.String("sphere-policy"))
	if err != nil {
		return err
	}
	sc, err := buildScene(ctx)
	if err != nil {
		return err
	}
	settings := renderSettings(ctx)
	workers := ctx.Int("workers")

	tr := tracer.NewTracer(tracer.WithWorkers(workers))
	r := renderer.NewRenderer(sc, renderer.NewSoftwareBackend(tr),
		renderer.WithSettings(settings),
		renderer.WithWorkers(workers),
		renderer.WithSpherePolicy(policy),
	)

	profile := ctx.Bool("profile")
	if profile && !log.Enabled(log.Info) {
		log.SetLevel(log.Info)
	}
	e, err := engine.NewEngine(sc, r, width, height,
		engine.WithPaused(!ctx.Bool("animate")),
		engine.WithProfiling(profile),
		engine.WithFrameCallback(func(frame int, _ renderer.Surface) error {
			if frame%16 == 0 {
				logger.Infof("frame %d/%d, %d accumulated", frame, frames, r.FrameCount())
			}
			return nil
		}),
	)
	if err != nil {
		r.Close()
		return err
	}
	defer e.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Noticef("rendering %q at %dx%d for %d frames with %d tracer workers (%s)",
		sc.Name(), width, height, frames, tr.Workers(), settings)
	start := time.Now()
	if err := e.Run(runCtx, frames); err != nil {
		return err
	}
	elapsed := time.Since(start)
	if runCtx.Err() != nil {
		logger.Warningf("interrupted after %d frames, saving what was accumulated", e.Frames())
	}

	target, ok := e.Target().(renderer.SoftwareSurface)
	if !ok || target.Image() == nil {
		return fmt.Errorf("render target has no host image")
	}
	out := ctx.String("out")
	if err := savePNG(out, toneMap(target.Image(), float32(ctx.Float64("exposure")))); err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Frames", "Accumulated", "Objects", "Triangles", "Spheres", "Total time", "Per frame"})
	stats := r.Compiler().Stats()
	perFrame := time.Duration(0)
	if e.Frames() > 0 {
		perFrame = elapsed / time.Duration(e.Frames())
	}
	table.Append([]string{
		fmt.Sprintf("%d", e.Frames()),
		fmt.Sprintf("%d", r.FrameCount()),
		fmt.Sprintf("%d", stats.Objects),
		fmt.Sprintf("%d", stats.Triangles),
		fmt.Sprintf("%d", stats.Spheres),
		elapsed.Round(time.Millisecond).String(),
		perFrame.Round(time.Microsecond).String(),
	})
	table.Render()
	logger.Noticef("wrote %s\n%s", out, buf.String())
	return nil
}
