package main

import (
	"os"

	"github.com/turner-renderer/renderer/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "turner"
	app.Usage = "bake view-independent radiosity solutions using hierarchical refinement"
	app.Version = "0.0.1"
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
			Name:  "bake",
			Usage: "compute a radiosity solution and export the refined mesh",
			Description: `
Parse a scene from a glTF/GLB file (or instantiate a builtin scene), compute
hierarchical radiosity over its triangles and write the refined patch mesh,
colored by the solution, to an ascii PLY file.`,
			ArgsUsage: "[scene_file.gltf]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene, s",
					Usage: "bake a builtin scene instead of a scene file (see the scenes command)",
				},
				cli.Float64Flag{
					Name:  "f-eps",
					Value: 0.05,
					Usage: "form factor threshold below which patch pairs link without subdividing",
				},
				cli.Float64Flag{
					Name:  "a-eps",
					Value: 1e-3,
					Usage: "minimum patch area; subdivision below it is refused",
				},
				cli.Float64Flag{
					Name:  "bf-eps",
					Value: 1e-3,
					Usage: "per-link energy threshold below which links are not refined",
				},
				cli.IntFlag{
					Name:  "iterations",
					Value: 8,
					Usage: "gather/push-pull steps per solve pass",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "radiosity.ply",
					Usage: "mesh filename for the baked solution",
				},
			},
			Action: cmd.Bake,
		},
		{
			Name:   "scenes",
			Usage:  "list builtin scenes",
			Action: cmd.ListScenes,
		},
	}

	app.Run(os.Args)
}
