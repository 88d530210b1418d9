package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/securetoken-go/pkg/securetoken"
)

// GenerateCommand returns the generate command.
func GenerateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate secure tokens",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "size",
				Aliases: []string{"s"},
				Value:   securetoken.DefaultSize,
				Usage:   "Token length in characters",
			},
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Value:   1,
				Usage:   "Number of tokens to generate",
			},
			&cli.BoolFlag{
				Name:  "unique",
				Usage: "Check candidates against the local store",
			},
			&cli.StringFlag{
				Name:    "attribute",
				Aliases: []string{"a"},
				Value:   securetoken.DefaultAttribute,
				Usage:   "Attribute to check uniqueness against",
			},
		},
		Action: generateAction,
	}
}

func generateAction(c *cli.Context) error {
	size := c.Int("size")
	count := c.Int("count")
	if count < 1 {
		return fmt.Errorf("count must be positive, got %d", count)
	}

	if !c.Bool("unique") {
		for i := 0; i < count; i++ {
			value, err := securetoken.Generate(size)
			if err != nil {
				return err
			}
			fmt.Fprintln(writer(c), value)
		}
		return nil
	}

	// Uniqueness requires the store.
	env, err := openEnv(c)
	if err != nil {
		return err
	}
	defer env.Close()

	field, err := securetoken.NewField(env.store, c.String("attribute"),
		securetoken.WithSize(size),
		securetoken.WithUniqueness(),
		securetoken.WithInstrumentation(env.metrics))
	if err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		value, err := field.Generate(c.Context)
		if err != nil {
			return err
		}
		fmt.Fprintln(writer(c), value)
	}
	return nil
}
