package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/securetoken-go/internal/cli/config"
	"github.com/yndnr/securetoken-go/internal/cli/output"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "CLI configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:  "init",
				Usage: "Write a default configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: configInit,
			},
			{
				Name:   "validate",
				Usage:  "Validate the configuration file",
				Action: configValidate,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(output.Format(cfg.Output))
	if cfg.Output == "table" {
		formatter = &output.YAMLFormatter{}
	}
	return formatter.Format(writer(c), cfg)
}

func configInit(c *cli.Context) error {
	path := c.String("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if exists(path) && !c.Bool("force") {
		return fmt.Errorf("config file %s already exists, use --force to overwrite", path)
	}

	if err := config.Save(config.Default(), path); err != nil {
		return err
	}

	fmt.Fprintf(writer(c), "wrote %s\n", path)
	return nil
}

func configValidate(c *cli.Context) error {
	path := c.String("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if !exists(path) {
		fmt.Fprintf(writer(c), "no config file at %s, defaults apply\n", path)
		return nil
	}

	if _, err := config.Load(path); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	fmt.Fprintf(writer(c), "config ok: %s\n", path)
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
