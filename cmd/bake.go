package cmd

import (
	"errors"

	"github.com/urfave/cli"

	"github.com/turner-renderer/renderer/radiosity"
	"github.com/turner-renderer/renderer/scene"
	"github.com/turner-renderer/renderer/scene/index"
	"github.com/turner-renderer/renderer/scene/reader"
	"github.com/turner-renderer/renderer/scene/writer"
)

// Bake a view-independent radiosity solution for a scene and write the
// refined, colored mesh to a PLY file.
func Bake(ctx *cli.Context) error {
	setupLogging(ctx)

	var (
		sc  *scene.Scene
		err error
	)
	switch {
	case ctx.NArg() == 1:
		sc, err = reader.ReadScene(ctx.Args().First())
	case ctx.String("scene") != "":
		sc, err = scene.Builtin(ctx.String("scene"))
	default:
		return errors.New("missing scene argument; pass a gltf/glb file or --scene")
	}
	if err != nil {
		return err
	}

	opts := radiosity.DefaultOptions()
	if ctx.IsSet("f-eps") {
		opts.FEps = float32(ctx.Float64("f-eps"))
	}
	if ctx.IsSet("a-eps") {
		opts.AEps = float32(ctx.Float64("a-eps"))
	}
	if ctx.IsSet("bf-eps") {
		opts.BFEps = float32(ctx.Float64("bf-eps"))
	}
	if ctx.IsSet("iterations") {
		opts.MaxIterations = ctx.Int("iterations")
	}

	solver := radiosity.New(index.Build(sc), opts)
	solver.Compute()
	solver.Stats().Log(logger)

	rad := solver.Radiosity()
	return writer.WriteMesh(solver.Triangles(), solver.RadiosityAtVertices(rad), ctx.String("out"))
}
