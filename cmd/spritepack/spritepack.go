// Binary spritepack repacks precomputed sprite sheets so that they only
// contain the pieces, laid out side by side.
package main

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func jobFromFlags(c *cli.Context) job {
	hasBackground := !c.Bool("no-background")
	return job{
		In:            c.String("in"),
		Out:           c.String("out"),
		IDs:           c.Args().Slice(),
		HasBackground: &hasBackground,
		Padding:       c.Int("padding"),
	}
}

func dirFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "in",
			Usage:    "directory with the precomputed label files and sprite sheets",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "out",
			Usage:    "directory to write the packed files to",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "no-background",
			Usage: "label files in the input directory have no background record",
		},
	}
}

func main() {
	// glog only reads its flags from the standard flag set.
	flag.CommandLine.Parse(nil)
	flag.Set("logtostderr", "true")
	defer glog.Flush()

	app := cli.NewApp()

	app.Name = "spritepack"
	app.Usage = "pack map piece sprite sheets"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:  "verbosity",
			Value: 0,
			Usage: "glog verbosity level",
		},
		&cli.IntFlag{
			Name:  "parallelism",
			Value: 4,
			Usage: "maximum number of places packed at once",
		},
	}
	app.Before = func(c *cli.Context) error {
		return flag.Set("v", strconv.Itoa(c.Int("verbosity")))
	}

	app.Commands = []*cli.Command{
		{
			Name:      "pack",
			Usage:     "Pack places from one directory into another",
			ArgsUsage: "[ID...]",
			Flags: append(dirFlags(), &cli.IntFlag{
				Name:  "padding",
				Usage: "transparent pixels between packed pieces",
			}),
			Action: func(c *cli.Context) error {
				if _, err := packDirs(c.Context, jobFromFlags(c), c.Int("parallelism")); err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
		{
			Name:      "run",
			Usage:     "Run the pack jobs listed in a YAML job file",
			ArgsUsage: "JOBFILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				f, err := loadJobs(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}
				if f.Parallelism == 0 {
					f.Parallelism = c.Int("parallelism")
				}
				if err := runJobs(c.Context, f); err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
		{
			Name:      "verify",
			Usage:     "Check that packed places hold the same pieces as their source",
			ArgsUsage: "[ID...]",
			Flags:     dirFlags(),
			Action: func(c *cli.Context) error {
				bad, err := verifyDirs(jobFromFlags(c))
				if err != nil {
					return cli.Exit(err, 1)
				}
				if len(bad) > 0 {
					return cli.Exit("mismatched places: "+strings.Join(bad, ", "), 2)
				}
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		glog.Exit(err)
	}
}
