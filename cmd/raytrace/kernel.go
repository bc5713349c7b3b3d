package main

import (
	"bytes"
	"fmt"

	"github.com/A-Imbert/Ray-Tracer/engine/renderer"
	"github.com/A-Imbert/Ray-Tracer/engine/renderer/shader"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// InspectKernel prints the entry points and group 0 bindings of a tracer kernel and checks
// them against the binding contract of the wgpu backend.
func InspectKernel(ctx *cli.Context) error {
	setupLogging(ctx)

	var s shader.Shader
	if path := ctx.Args().First(); path != "" {
		var err error
		if s, err = shader.NewShaderFromFile(path, path); err != nil {
			return err
		}
	} else {
		s = shader.NewRayTraceShader()
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Entry point", "Workgroup size"})
	for _, entry := range s.EntryPoints() {
		size, _ := s.WorkgroupSize(entry)
		table.Append([]string{entry, fmt.Sprintf("%d x %d x %d", size[0], size[1], size[2])})
	}
	table.Render()

	buf.WriteString("\n")
	bindings := tablewriter.NewWriter(&buf)
	bindings.SetAutoFormatHeaders(false)
	bindings.SetAutoWrapText(false)
	bindings.SetHeader([]string{"Binding", "Name", "Kind"})
	for _, entry := range s.BindGroupLayoutDescriptor(0).Entries {
		b, ok := s.Binding(0, int(entry.Binding))
		if !ok {
			continue
		}
		bindings.Append([]string{fmt.Sprintf("%d", b.Binding), b.Name, b.Kind.String()})
	}
	bindings.Render()

	logger.Noticef("kernel %s\n%s", s.Key(), buf.String())

	if err := renderer.ValidateKernel(s); err != nil {
		return err
	}
	logger.Notice("kernel satisfies the wgpu backend binding contract")
	return nil
}
