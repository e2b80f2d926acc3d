package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/turner-renderer/renderer/scene"
)

// List the builtin scenes that can be baked without a scene file.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Name", "Triangles"})
	for _, name := range scene.BuiltinNames {
		sc, err := scene.Builtin(name)
		if err != nil {
			return err
		}
		table.Append([]string{name, fmt.Sprintf("%d", len(sc.Triangles))})
	}
	table.Render()

	logger.Noticef("builtin scenes:\n%s", buf.String())
	return nil
}
