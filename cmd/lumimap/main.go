package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/lumimap"
	"github.com/bodgit/lumimap/artifact"
	"github.com/bodgit/lumimap/colormap"
	"github.com/bodgit/lumimap/export"
	"github.com/bodgit/lumimap/viewport"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/slog"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *slog.Logger {
	if c.Bool("verbose") {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func settings(c *cli.Context) lumimap.Settings {
	return lumimap.Settings{
		Luminance: lumimap.LuminanceSettings{Min: c.Float64("min"), Max: c.Float64("max")},
		Contrast:  lumimap.ContrastSettings{BaseLuminance: c.Float64("base")},
	}
}

func newSession(c *cli.Context, width, height float64) (*lumimap.Session, error) {
	options := []lumimap.Option{
		lumimap.WithLogger(newLogger(c)),
		lumimap.WithSettings(settings(c)),
	}
	if url := c.String("service-url"); url != "" {
		options = append(options, lumimap.WithFetcher(artifact.NewClient(url)))
	}
	return lumimap.New(width, height, options...)
}

func format(c *cli.Context, out string) (export.Format, error) {
	if out != "" {
		if f, err := export.FormatFromPath(out); err == nil {
			return f, nil
		}
	}
	return export.ParseFormat(c.String("format"))
}

func main() {
	app := cli.NewApp()

	app.Name = "lumimap"
	app.Usage = "Luminance map visualization utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.Float64Flag{
			Name:    "min",
			EnvVars: []string{"LUMIMAP_MIN"},
			Value:   lumimap.DefaultMin,
			Usage:   "lower bound of the luminance scale",
		},
		&cli.Float64Flag{
			Name:    "max",
			EnvVars: []string{"LUMIMAP_MAX"},
			Value:   lumimap.DefaultMax,
			Usage:   "upper bound of the luminance scale",
		},
		&cli.Float64Flag{
			Name:    "base",
			EnvVars: []string{"LUMIMAP_BASE"},
			Value:   lumimap.DefaultBaseLuminance,
			Usage:   "reference luminance for the ratio map",
		},
		&cli.StringFlag{
			Name:    "service-url",
			EnvVars: []string{"LUMIMAP_SERVICE_URL"},
			Usage:   "analysis service used to convert photographs",
		},
		&cli.StringFlag{
			Name:    "format",
			EnvVars: []string{"LUMIMAP_FORMAT"},
			Value:   "png",
			Usage:   "output image format, png or gif",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "render",
			Usage:       "Render every encoding of a luminance map",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "output directory, defaults to the directory of FILE",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				file := c.Args().First()
				dir := c.String("output")
				if dir == "" {
					dir = filepath.Dir(file)
				}

				f, err := format(c, "")
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				s, err := newSession(c, 1, 1)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := s.RenderFile(context.Background(), file, dir, f); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "batch",
			Usage:       "Render every luminance map under a directory",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "workers",
					Aliases: []string{"w"},
					Value:   lumimap.DefaultWorkers,
					Usage:   "number of concurrent renders",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				f, err := format(c, "")
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				s, err := newSession(c, 1, 1)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := s.RenderTree(c.Args().First(), f, c.Int("workers")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "probe",
			Usage:       "Print the header and statistics of a luminance map",
			Description: "",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "region",
					Aliases: []string{"r"},
					Usage:   "restrict statistics to X0,Y0,X1,Y1",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if err := probe(c.App.Writer, c.Args().First(), c.String("region")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "legend",
			Usage:       "Print the scale bar of an encoding",
			Description: "",
			ArgsUsage:   "lm|lmc",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "also write the scale bar as an image",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				k, err := colormap.ParseKind(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				l, ok := lumimap.NewLegend(k, settings(c))
				if !ok {
					return cli.NewExitError(fmt.Sprintf("%s has no legend", k), 1)
				}

				for i := len(l.Ticks) - 1; i >= 0; i-- {
					t := l.Ticks[i]
					hex := "-"
					if cf, ok := colorful.MakeColor(t.Color); ok && t.Color.A > 0 {
						hex = cf.Hex()
					}
					fmt.Fprintf(c.App.Writer, "%-8s %s\n", t.Label, hex)
				}

				if out := c.String("output"); out != "" {
					f, err := format(c, out)
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					if err := export.WriteFile(out, l.Image(24, 256), f); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				return nil
			},
		},
		{
			Name:        "view",
			Usage:       "Render the visible part of a luminance map at a given zoom",
			Description: "",
			ArgsUsage:   "FILE OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "width",
					Value: 800,
					Usage: "display width",
				},
				&cli.IntFlag{
					Name:  "height",
					Value: 600,
					Usage: "display height",
				},
				&cli.StringFlag{
					Name:    "kind",
					Aliases: []string{"k"},
					Value:   colormap.KindLuminance.String(),
					Usage:   "encoding to show: picture, lm, lmc or cof",
				},
				&cli.Float64Flag{
					Name:    "zoom",
					Aliases: []string{"z"},
					Value:   viewport.ScaleMin,
					Usage:   "zoom factor between 1 and 20",
				},
				&cli.Float64Flag{
					Name:  "anchor-x",
					Value: -1,
					Usage: "display x to zoom around, defaults to the center",
				},
				&cli.Float64Flag{
					Name:  "anchor-y",
					Value: -1,
					Usage: "display y to zoom around, defaults to the center",
				},
				&cli.Float64Flag{
					Name:  "pan-x",
					Usage: "horizontal pan after zooming",
				},
				&cli.Float64Flag{
					Name:  "pan-y",
					Usage: "vertical pan after zooming",
				},
				&cli.StringSliceFlag{
					Name:    "marker",
					Aliases: []string{"m"},
					Usage:   "place a marker on image pixel X,Y and print its label",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				if err := view(c); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
