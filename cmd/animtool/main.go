package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/milk9111/gemstone/animation"
	"github.com/milk9111/gemstone/config"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "animtool",
		Usage: "inspect, convert and author frame animations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "gemstone.yaml",
				Usage: "config file (embedded defaults are used when missing)",
			},
		},
		Commands: []*cli.Command{
			infoCommand(),
			unpackCommand(),
			packCommand(),
			sliceCommand(),
			scaleCommand(),
			outlineCommand(),
			newCommand(),
			simulateCommand(),
			copyFrameCommand(),
			pasteFrameCommand(),
		},
	}
}

// loadConfig reads the config named by the root --config flag.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	return config.Load(cmd.Root().String("config"))
}

// loadAnimation loads the manifest given as the first argument into a
// fresh manager using the configured export codec.
func loadAnimation(cmd *cli.Command) (*animation.Manager, *animation.Animation, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	path := cmd.Args().First()
	if path == "" {
		return nil, nil, errMissingArg("MANIFEST")
	}
	m := animation.NewManager(cfg.Codec())
	a, err := m.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return m, a, nil
}
